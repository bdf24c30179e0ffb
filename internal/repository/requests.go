package repository

import (
	"context"
	"database/sql"
	"time"

	"afisha/internal/database"
	"afisha/internal/errors"
	"afisha/internal/models"

	"github.com/lib/pq"
)

type RequestRepository struct {
	db *database.DB
}

func NewRequestRepository(db *database.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// lockEvent loads the event row inside tx with FOR UPDATE, so concurrent
// confirmations serialize on the participant counter.
func lockEvent(ctx context.Context, tx *sql.Tx, eventID int64) (*models.Event, error) {
	query := `
		SELECT id, initiator_id, state, participant_limit, request_moderation, confirmed_requests
		FROM events
		WHERE id = $1
		FOR UPDATE`

	event := &models.Event{}
	err := tx.QueryRowContext(ctx, query, eventID).Scan(
		&event.ID,
		&event.Initiator.ID,
		&event.State,
		&event.ParticipantLimit,
		&event.RequestModeration,
		&event.ConfirmedRequests,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("event %d not found", eventID)
	}
	if err != nil {
		return nil, err
	}

	return event, nil
}

// Create inserts a participation request, deciding its initial status from
// the event's moderation settings. Runs in a transaction holding the event
// row lock so the confirmed counter never overshoots the limit.
func (r *RequestRepository) Create(ctx context.Context, eventID, requesterID int64) (*models.ParticipationRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}

	if err := event.CanAcceptRequestFrom(requesterID); err != nil {
		return nil, err
	}

	request := &models.ParticipationRequest{
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      event.InitialRequestStatus(),
		Created:     time.Now(),
	}

	insertQuery := `
		INSERT INTO requests (event_id, requester_id, status, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err = tx.QueryRowContext(ctx, insertQuery,
		request.EventID, request.RequesterID, request.Status, request.Created).Scan(&request.ID)
	if isUniqueViolation(err) {
		return nil, errors.Duplicated("request from user %d for event %d already exists", requesterID, eventID)
	}
	if err != nil {
		return nil, err
	}

	if request.Status == models.RequestStatusConfirmed {
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET confirmed_requests = confirmed_requests + 1 WHERE id = $1`, eventID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM requests
		WHERE id = $1`

	request := &models.ParticipationRequest{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&request.ID, &request.EventID, &request.RequesterID, &request.Status, &request.Created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (r *RequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]models.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM requests
		WHERE requester_id = $1
		ORDER BY id`

	return r.queryRequests(ctx, query, requesterID)
}

func (r *RequestRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM requests
		WHERE event_id = $1
		ORDER BY id`

	return r.queryRequests(ctx, query, eventID)
}

// FindStalePending returns pending requests whose event already started.
// They can no longer be moderated and are swept by the notifier job.
func (r *RequestRepository) FindStalePending(ctx context.Context, now time.Time) ([]models.ParticipationRequest, error) {
	query := `
		SELECT r.id, r.event_id, r.requester_id, r.status, r.created
		FROM requests r
		JOIN events e ON e.id = r.event_id
		WHERE r.status = $1 AND e.event_date < $2
		ORDER BY r.id`

	return r.queryRequests(ctx, query, models.RequestStatusPending, now)
}

// UpdateStatus rewrites a single request's status. Used for requester-side
// cancellation, which never touches the confirmed counter.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE requests SET status = $1 WHERE id = $2`, status, id)
	return err
}

// UpdateStatusBatch moves the listed pending requests of ownerID's event to
// target, in the caller-supplied order. When confirming past the participant
// limit the remainder is auto-rejected. The confirmed counter is persisted
// once, at the end, under the event row lock.
func (r *RequestRepository) UpdateStatusBatch(ctx context.Context, eventID, ownerID int64, requestIDs []int64, target models.RequestStatus) (*models.RequestStatusUpdateResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	event, err := lockEvent(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID != ownerID {
		return nil, errors.Conflict("user %d is not the initiator of event %d", ownerID, eventID)
	}
	if target == models.RequestStatusConfirmed && !event.HasCapacity() {
		return nil, errors.Conflict("participant limit of event %d is reached", eventID)
	}

	loaded, err := r.loadForUpdate(ctx, tx, requestIDs)
	if err != nil {
		return nil, err
	}

	var confirmed, rejected []models.ParticipationRequest
	for _, id := range requestIDs {
		request, ok := loaded[id]
		if !ok {
			return nil, errors.NotFound("request %d not found", id)
		}
		if request.EventID != eventID {
			return nil, errors.Conflict("request %d does not belong to event %d", id, eventID)
		}
		if request.Status != models.RequestStatusPending {
			return nil, errors.Conflict("request %d is not pending", id)
		}

		if target == models.RequestStatusConfirmed && event.HasCapacity() {
			request.Status = models.RequestStatusConfirmed
			event.ConfirmedRequests++
			confirmed = append(confirmed, request)
		} else {
			request.Status = models.RequestStatusRejected
			rejected = append(rejected, request)
		}
	}

	if err := r.applyStatus(ctx, tx, confirmed, models.RequestStatusConfirmed); err != nil {
		return nil, err
	}
	if err := r.applyStatus(ctx, tx, rejected, models.RequestStatusRejected); err != nil {
		return nil, err
	}

	if len(confirmed) > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE events SET confirmed_requests = $1 WHERE id = $2`,
			event.ConfirmedRequests, eventID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &models.RequestStatusUpdateResult{
		ConfirmedRequests: models.ToRequestDtos(confirmed),
		RejectedRequests:  models.ToRequestDtos(rejected),
	}, nil
}

func (r *RequestRepository) loadForUpdate(ctx context.Context, tx *sql.Tx, ids []int64) (map[int64]models.ParticipationRequest, error) {
	query := `
		SELECT id, event_id, requester_id, status, created
		FROM requests
		WHERE id = ANY($1)
		FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loaded := make(map[int64]models.ParticipationRequest, len(ids))
	for rows.Next() {
		var request models.ParticipationRequest
		err := rows.Scan(&request.ID, &request.EventID, &request.RequesterID, &request.Status, &request.Created)
		if err != nil {
			return nil, err
		}
		loaded[request.ID] = request
	}

	return loaded, rows.Err()
}

func (r *RequestRepository) applyStatus(ctx context.Context, tx *sql.Tx, requests []models.ParticipationRequest, status models.RequestStatus) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]int64, len(requests))
	for i, request := range requests {
		ids[i] = request.ID
	}

	_, err := tx.ExecContext(ctx,
		`UPDATE requests SET status = $1 WHERE id = ANY($2)`, status, pq.Array(ids))
	return err
}

func (r *RequestRepository) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.ParticipationRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ParticipationRequest
	for rows.Next() {
		var request models.ParticipationRequest
		err := rows.Scan(&request.ID, &request.EventID, &request.RequesterID, &request.Status, &request.Created)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	return requests, rows.Err()
}
