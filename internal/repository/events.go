package repository

import (
	"context"
	"database/sql"
	"fmt"

	"afisha/internal/database"
	"afisha/internal/models"

	"github.com/lib/pq"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventSelect = `
	SELECT e.id, e.title, e.annotation, e.description, e.event_date,
	       e.paid, e.participant_limit, e.request_moderation, e.state,
	       e.created_on, e.published_on, e.confirmed_requests,
	       u.id, u.name, u.email,
	       c.id, c.name,
	       l.id, l.lat, l.lon
	FROM events e
	JOIN users u ON u.id = e.initiator_id
	JOIN categories c ON c.id = e.category_id
	JOIN locations l ON l.id = e.location_id`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	event := &models.Event{}
	var publishedOn sql.NullTime

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Annotation,
		&event.Description,
		&event.EventDate,
		&event.Paid,
		&event.ParticipantLimit,
		&event.RequestModeration,
		&event.State,
		&event.CreatedOn,
		&publishedOn,
		&event.ConfirmedRequests,
		&event.Initiator.ID,
		&event.Initiator.Name,
		&event.Initiator.Email,
		&event.Category.ID,
		&event.Category.Name,
		&event.Location.ID,
		&event.Location.Lat,
		&event.Location.Lon,
	)
	if err != nil {
		return nil, err
	}

	if publishedOn.Valid {
		event.PublishedOn = &publishedOn.Time
	}

	return event, nil
}

// Create persists the event together with its owned location in one
// transaction. The location row exists only for this event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	locationQuery := `
		INSERT INTO locations (lat, lon)
		VALUES ($1, $2)
		RETURNING id`

	err = tx.QueryRowContext(ctx, locationQuery,
		event.Location.Lat, event.Location.Lon).Scan(&event.Location.ID)
	if err != nil {
		return err
	}

	eventQuery := `
		INSERT INTO events (title, annotation, description, event_date, location_id,
		                    paid, participant_limit, request_moderation, state,
		                    created_on, initiator_id, category_id, confirmed_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`

	err = tx.QueryRowContext(ctx, eventQuery,
		event.Title,
		event.Annotation,
		event.Description,
		event.EventDate,
		event.Location.ID,
		event.Paid,
		event.ParticipantLimit,
		event.RequestModeration,
		event.State,
		event.CreatedOn,
		event.Initiator.ID,
		event.Category.ID,
		event.ConfirmedRequests,
	).Scan(&event.ID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

// Update rewrites all mutable event fields and the owned location row.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE locations SET lat = $1, lon = $2 WHERE id = $3`,
		event.Location.Lat, event.Location.Lon, event.Location.ID)
	if err != nil {
		return err
	}

	query := `
		UPDATE events
		SET title = $1, annotation = $2, description = $3, event_date = $4,
		    paid = $5, participant_limit = $6, request_moderation = $7,
		    state = $8, published_on = $9, category_id = $10
		WHERE id = $11`

	_, err = tx.ExecContext(ctx, query,
		event.Title,
		event.Annotation,
		event.Description,
		event.EventDate,
		event.Paid,
		event.ParticipantLimit,
		event.RequestModeration,
		event.State,
		event.PublishedOn,
		event.Category.ID,
		event.ID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// FindAllByPublic returns published events matching the public filter set.
// When both range bounds are absent only future events are eligible.
func (r *EventRepository) FindAllByPublic(ctx context.Context, filter models.PublicEventFilter) ([]models.Event, error) {
	var args []interface{}
	argIndex := 1

	query := eventSelect + ` WHERE e.state = 'PUBLISHED'`

	if filter.Text != "" {
		query += fmt.Sprintf(" AND (e.annotation ILIKE $%d OR e.description ILIKE $%d)", argIndex, argIndex)
		args = append(args, "%"+filter.Text+"%")
		argIndex++
	}

	if len(filter.Categories) > 0 {
		query += fmt.Sprintf(" AND e.category_id = ANY($%d)", argIndex)
		args = append(args, pq.Array(filter.Categories))
		argIndex++
	}

	if filter.Paid != nil {
		query += fmt.Sprintf(" AND e.paid = $%d", argIndex)
		args = append(args, *filter.Paid)
		argIndex++
	}

	if filter.RangeStart == nil && filter.RangeEnd == nil {
		query += " AND e.event_date > NOW()"
	} else {
		if filter.RangeStart != nil {
			query += fmt.Sprintf(" AND e.event_date >= $%d", argIndex)
			args = append(args, *filter.RangeStart)
			argIndex++
		}
		if filter.RangeEnd != nil {
			query += fmt.Sprintf(" AND e.event_date <= $%d", argIndex)
			args = append(args, *filter.RangeEnd)
			argIndex++
		}
	}

	if filter.OnlyAvailable {
		query += " AND (e.participant_limit = 0 OR e.confirmed_requests < e.participant_limit)"
	}

	query += fmt.Sprintf(" ORDER BY e.event_date LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Size, filter.From)

	return r.queryEvents(ctx, query, args...)
}

// FindAllByAdmin returns events matching the admin filter set, any state.
func (r *EventRepository) FindAllByAdmin(ctx context.Context, filter models.AdminEventFilter) ([]models.Event, error) {
	var args []interface{}
	argIndex := 1

	query := eventSelect + ` WHERE 1=1`

	if len(filter.Users) > 0 {
		query += fmt.Sprintf(" AND e.initiator_id = ANY($%d)", argIndex)
		args = append(args, pq.Array(filter.Users))
		argIndex++
	}

	if len(filter.States) > 0 {
		states := make([]string, len(filter.States))
		for i, state := range filter.States {
			states[i] = string(state)
		}
		query += fmt.Sprintf(" AND e.state = ANY($%d)", argIndex)
		args = append(args, pq.Array(states))
		argIndex++
	}

	if len(filter.Categories) > 0 {
		query += fmt.Sprintf(" AND e.category_id = ANY($%d)", argIndex)
		args = append(args, pq.Array(filter.Categories))
		argIndex++
	}

	if filter.RangeStart != nil {
		query += fmt.Sprintf(" AND e.event_date >= $%d", argIndex)
		args = append(args, *filter.RangeStart)
		argIndex++
	}

	if filter.RangeEnd != nil {
		query += fmt.Sprintf(" AND e.event_date <= $%d", argIndex)
		args = append(args, *filter.RangeEnd)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY e.id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Size, filter.From)

	return r.queryEvents(ctx, query, args...)
}

func (r *EventRepository) FindAllByInitiator(ctx context.Context, initiatorID int64, from, size int) ([]models.Event, error) {
	query := eventSelect + ` WHERE e.initiator_id = $1 ORDER BY e.id LIMIT $2 OFFSET $3`
	return r.queryEvents(ctx, query, initiatorID, size, from)
}

// FindPublishedByInitiators returns published events of the given owners,
// soonest first. Used by the subscription feed.
func (r *EventRepository) FindPublishedByInitiators(ctx context.Context, ownerIDs []int64, from, size int) ([]models.Event, error) {
	query := eventSelect + `
		WHERE e.state = 'PUBLISHED' AND e.initiator_id = ANY($1)
		ORDER BY e.event_date LIMIT $2 OFFSET $3`
	return r.queryEvents(ctx, query, pq.Array(ownerIDs), size, from)
}

func (r *EventRepository) FindAllByIDs(ctx context.Context, ids []int64) ([]models.Event, error) {
	query := eventSelect + ` WHERE e.id = ANY($1) ORDER BY e.id`
	return r.queryEvents(ctx, query, pq.Array(ids))
}

func (r *EventRepository) ExistsByCategory(ctx context.Context, categoryID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM events WHERE category_id = $1)`, categoryID).Scan(&exists)
	return exists, err
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}

	return events, rows.Err()
}
