package jobs

import (
	"context"
	"log/slog"
	"time"

	"afisha/internal/messaging"
	"afisha/internal/models"
	"afisha/internal/repository"
)

const sweepInterval = time.Minute

// StaleRequestJob rejects pending participation requests for events that
// already started. Such requests can no longer be moderated by the owner.
type StaleRequestJob struct {
	requestRepo *repository.RequestRepository
	natsClient  *messaging.NATSClient
	ticker      *time.Ticker
	done        chan bool
}

func NewStaleRequestJob(requestRepo *repository.RequestRepository, natsClient *messaging.NATSClient) *StaleRequestJob {
	return &StaleRequestJob{
		requestRepo: requestRepo,
		natsClient:  natsClient,
		done:        make(chan bool),
	}
}

func (j *StaleRequestJob) Start(ctx context.Context) {
	slog.Info("Starting stale request job", "interval", sweepInterval.String())

	j.ticker = time.NewTicker(sweepInterval)

	go j.sweep(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.sweep(ctx)
			case <-j.done:
				slog.Info("Stale request job stopped")
				return
			}
		}
	}()
}

func (j *StaleRequestJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *StaleRequestJob) sweep(ctx context.Context) {
	stale, err := j.requestRepo.FindStalePending(ctx, time.Now())
	if err != nil {
		slog.Error("Failed to find stale requests", "error", err)
		return
	}

	if len(stale) == 0 {
		slog.Debug("No stale requests found")
		return
	}

	slog.Info("Found stale requests to reject", "count", len(stale))

	for _, request := range stale {
		if err := j.reject(ctx, &request); err != nil {
			slog.Error("Failed to reject stale request",
				"error", err,
				"request_id", request.ID,
				"event_id", request.EventID)
		}
	}
}

func (j *StaleRequestJob) reject(ctx context.Context, request *models.ParticipationRequest) error {
	if err := j.requestRepo.UpdateStatus(ctx, request.ID, models.RequestStatusRejected); err != nil {
		return err
	}

	msg := models.RequestStatusChangedMessage{
		RequestID:   request.ID,
		EventID:     request.EventID,
		RequesterID: request.RequesterID,
		Status:      models.RequestStatusRejected,
		Timestamp:   time.Now(),
	}
	if err := j.natsClient.Publish(models.SubjectRequestStatusChanged, msg); err != nil {
		slog.Warn("Failed to publish request status change",
			"request_id", request.ID, "error", err)
	}

	slog.Info("Rejected stale request",
		"request_id", request.ID,
		"event_id", request.EventID,
		"requester_id", request.RequesterID)

	return nil
}
