package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"afisha/internal/models"
	"afisha/internal/repository"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos *repository.Repositories
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{repos: repos}
}

// HandleEventPublished разворачивает публикацию события в уведомления подписчикам
func (h *Handlers) HandleEventPublished(m *stan.Msg) {
	var msg models.EventStateChangedMessage
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		slog.Error("Failed to unmarshal event state message", "error", err)
		return
	}

	ctx := context.Background()

	subscribers, err := h.repos.Subscriptions.SubscriberIDs(ctx, msg.InitiatorID)
	if err != nil {
		slog.Error("Failed to load subscribers", "initiator_id", msg.InitiatorID, "error", err)
		return
	}

	event, err := h.repos.Events.GetByID(ctx, msg.EventID)
	if err != nil {
		slog.Error("Failed to load event", "event_id", msg.EventID, "error", err)
		return
	}

	title := ""
	if event != nil {
		title = event.Title
	}

	for _, subscriberID := range subscribers {
		slog.Info("Notifying subscriber about new event",
			"subscriber_id", subscriberID,
			"initiator_id", msg.InitiatorID,
			"event_id", msg.EventID,
			"title", title)
	}

	m.Ack()
}

// HandleEventCanceled уведомляет подтверждённых участников об отмене
func (h *Handlers) HandleEventCanceled(m *stan.Msg) {
	var msg models.EventStateChangedMessage
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		slog.Error("Failed to unmarshal event state message", "error", err)
		return
	}

	ctx := context.Background()

	requests, err := h.repos.Requests.ListByEvent(ctx, msg.EventID)
	if err != nil {
		slog.Error("Failed to load requests", "event_id", msg.EventID, "error", err)
		return
	}

	for _, request := range requests {
		if request.Status != models.RequestStatusConfirmed {
			continue
		}
		slog.Info("Notifying participant about canceled event",
			"requester_id", request.RequesterID,
			"event_id", msg.EventID)
	}

	m.Ack()
}

// HandleRequestStatusChanged уведомляет заявителя о решении по заявке
func (h *Handlers) HandleRequestStatusChanged(m *stan.Msg) {
	var msg models.RequestStatusChangedMessage
	if err := json.Unmarshal(m.Data, &msg); err != nil {
		slog.Error("Failed to unmarshal request status message", "error", err)
		return
	}

	slog.Info("Notifying requester about status change",
		"requester_id", msg.RequesterID,
		"request_id", msg.RequestID,
		"event_id", msg.EventID,
		"status", msg.Status)

	m.Ack()
}
