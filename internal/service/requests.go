package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"afisha/internal/errors"
	"afisha/internal/models"
)

type RequestService struct {
	requests RequestStore
	events   EventStore
	users    UserStore
	nats     Publisher
}

func NewRequestService(requests RequestStore, events EventStore, users UserStore, nats Publisher) *RequestService {
	return &RequestService{
		requests: requests,
		events:   events,
		users:    users,
		nats:     nats,
	}
}

// Create files a participation request. Admission policy and the confirmed
// counter update run atomically in the store, under the event row lock.
func (s *RequestService) Create(ctx context.Context, userID, eventID int64) (*models.ParticipationRequestDto, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, errors.NotFound("user %d not found", userID)
	}

	request, err := s.requests.Create(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	s.notifyStatusChange(request)

	dto := models.ToParticipationRequestDto(request)
	return &dto, nil
}

func (s *RequestService) GetRequestsByUser(ctx context.Context, userID int64) ([]models.ParticipationRequestDto, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, errors.NotFound("user %d not found", userID)
	}

	requests, err := s.requests.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return models.ToRequestDtos(requests), nil
}

func (s *RequestService) GetRequestsForEventOwner(ctx context.Context, ownerID, eventID int64) ([]models.ParticipationRequestDto, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil || event.Initiator.ID != ownerID {
		return nil, errors.NotFound("event %d not found for user %d", eventID, ownerID)
	}

	requests, err := s.requests.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return models.ToRequestDtos(requests), nil
}

// Cancel moves the caller's own request to CANCELED. Repeated cancellation
// is an error, and a previously confirmed seat is not freed.
func (s *RequestService) Cancel(ctx context.Context, userID, requestID int64) (*models.ParticipationRequestDto, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request == nil || request.RequesterID != userID {
		return nil, errors.NotFound("request %d not found for user %d", requestID, userID)
	}

	if request.Status == models.RequestStatusCanceled || request.Status == models.RequestStatusRejected {
		return nil, errors.Conflict("request %d is already %s", requestID, request.Status)
	}

	request.Status = models.RequestStatusCanceled
	if err := s.requests.UpdateStatus(ctx, requestID, models.RequestStatusCanceled); err != nil {
		return nil, fmt.Errorf("failed to cancel request: %w", err)
	}

	s.notifyStatusChange(request)

	dto := models.ToParticipationRequestDto(request)
	return &dto, nil
}

// UpdateStatus confirms or rejects the event owner's pending requests as
// one atomic batch.
func (s *RequestService) UpdateStatus(ctx context.Context, ownerID, eventID int64, update *models.RequestStatusUpdate) (*models.RequestStatusUpdateResult, error) {
	if update.Status != models.RequestStatusConfirmed && update.Status != models.RequestStatusRejected {
		return nil, errors.Validation("target status must be CONFIRMED or REJECTED, got %s", update.Status)
	}

	result, err := s.requests.UpdateStatusBatch(ctx, eventID, ownerID, update.RequestIDs, update.Status)
	if err != nil {
		return nil, err
	}

	for i := range result.ConfirmedRequests {
		s.notifyStatusDto(&result.ConfirmedRequests[i])
	}
	for i := range result.RejectedRequests {
		s.notifyStatusDto(&result.RejectedRequests[i])
	}

	return result, nil
}

func (s *RequestService) notifyStatusChange(request *models.ParticipationRequest) {
	s.publishStatus(request.ID, request.EventID, request.RequesterID, request.Status)
}

func (s *RequestService) notifyStatusDto(dto *models.ParticipationRequestDto) {
	s.publishStatus(dto.ID, dto.Event, dto.Requester, dto.Status)
}

func (s *RequestService) publishStatus(requestID, eventID, requesterID int64, status models.RequestStatus) {
	msg := models.RequestStatusChangedMessage{
		RequestID:   requestID,
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		Timestamp:   time.Now(),
	}
	if err := s.nats.Publish(models.SubjectRequestStatusChanged, msg); err != nil {
		slog.Warn("failed to publish request status change",
			"request_id", requestID, "error", err)
	}
}
