package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"afisha/internal/config"
	"afisha/internal/errors"
	"afisha/internal/models"
)

type EventService struct {
	events     EventStore
	users      UserStore
	categories CategoryStore
	stats      StatsCollaborator
	nats       Publisher
	lifecycle  config.Lifecycle
}

func NewEventService(events EventStore, users UserStore, categories CategoryStore, stats StatsCollaborator, nats Publisher, lifecycle config.Lifecycle) *EventService {
	return &EventService{
		events:     events,
		users:      users,
		categories: categories,
		stats:      stats,
		nats:       nats,
		lifecycle:  lifecycle,
	}
}

// eventPatch is the shared partial-update shape of both admin and owner
// update payloads. The state action is resolved separately per role.
type eventPatch struct {
	Title             *string
	Annotation        *string
	Description       *string
	Category          *int64
	EventDate         *models.DateTime
	Location          *models.Location
	Paid              *bool
	ParticipantLimit  *int64
	RequestModeration *bool
	StateAction       *models.StateAction
}

func adminPatch(req *models.UpdateEventAdminRequest) eventPatch {
	return eventPatch{
		Title: req.Title, Annotation: req.Annotation, Description: req.Description,
		Category: req.Category, EventDate: req.EventDate, Location: req.Location,
		Paid: req.Paid, ParticipantLimit: req.ParticipantLimit,
		RequestModeration: req.RequestModeration, StateAction: req.StateAction,
	}
}

func userPatch(req *models.UpdateEventUserRequest) eventPatch {
	return eventPatch{
		Title: req.Title, Annotation: req.Annotation, Description: req.Description,
		Category: req.Category, EventDate: req.EventDate, Location: req.Location,
		Paid: req.Paid, ParticipantLimit: req.ParticipantLimit,
		RequestModeration: req.RequestModeration, StateAction: req.StateAction,
	}
}

func (s *EventService) Create(ctx context.Context, userID int64, req *models.NewEventRequest) (*models.EventFull, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, errors.NotFound("user %d not found", userID)
	}

	category, err := s.categories.GetByID(ctx, req.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, errors.NotFound("category %d not found", req.Category)
	}

	if err := s.checkEventDate(req.EventDate.Time, s.lifecycle.MinEventLead); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:             req.Title,
		Annotation:        req.Annotation,
		Description:       req.Description,
		EventDate:         req.EventDate.Time,
		Location:          req.Location,
		RequestModeration: true,
		State:             models.EventStatePending,
		CreatedOn:         time.Now(),
		Initiator:         *user,
		Category:          *category,
	}
	if req.Paid != nil {
		event.Paid = *req.Paid
	}
	if req.ParticipantLimit != nil {
		event.ParticipantLimit = *req.ParticipantLimit
	}
	if req.RequestModeration != nil {
		event.RequestModeration = *req.RequestModeration
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	full := models.ToEventFull(event, 0, event.ConfirmedRequests)
	return &full, nil
}

func (s *EventService) UpdateByAdmin(ctx context.Context, eventID int64, req *models.UpdateEventAdminRequest) (*models.EventFull, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	patch := adminPatch(req)

	// Дата всегда перепроверяется: из патча или существующая.
	eventDate := event.EventDate
	if patch.EventDate != nil {
		eventDate = patch.EventDate.Time
	}
	if err := s.checkEventDate(eventDate, s.lifecycle.MinEventLead); err != nil {
		return nil, err
	}
	if patch.StateAction != nil && *patch.StateAction == models.ActionPublishEvent {
		if err := s.checkEventDate(eventDate, s.lifecycle.MinPublishLead); err != nil {
			return nil, err
		}
	}

	if patch.StateAction != nil {
		next, err := resolveTransition(event.State, RoleAdmin, *patch.StateAction)
		if err != nil {
			return nil, err
		}
		if next == models.EventStatePublished && event.State != models.EventStatePublished {
			now := time.Now()
			event.PublishedOn = &now
		}
		event.State = next
	}

	if err := s.applyPatch(ctx, event, patch, eventDate); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.notifyStateChange(event, patch.StateAction)

	return s.enrichOne(event), nil
}

func (s *EventService) UpdateByPrivate(ctx context.Context, userID, eventID int64, req *models.UpdateEventUserRequest) (*models.EventFull, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, errors.NotFound("user %d not found", userID)
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID != userID {
		return nil, errors.Conflict("user %d is not the initiator of event %d", userID, eventID)
	}
	if event.State == models.EventStatePublished {
		return nil, errors.Conflict("published event %d cannot be modified by its initiator", eventID)
	}

	patch := userPatch(req)

	eventDate := event.EventDate
	if patch.EventDate != nil {
		eventDate = patch.EventDate.Time
	}
	if err := s.checkEventDate(eventDate, s.lifecycle.MinEventLead); err != nil {
		return nil, err
	}

	if patch.StateAction != nil {
		next, err := resolveTransition(event.State, RoleOwner, *patch.StateAction)
		if err != nil {
			return nil, err
		}
		event.State = next
	}

	if err := s.applyPatch(ctx, event, patch, eventDate); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.notifyStateChange(event, patch.StateAction)

	return s.enrichOne(event), nil
}

func (s *EventService) FindAllByPublic(ctx context.Context, filter models.PublicEventFilter, hit models.HitContext) ([]models.EventShort, error) {
	if filter.RangeStart != nil && filter.RangeEnd != nil && filter.RangeStart.After(*filter.RangeEnd) {
		return nil, errors.Validation("rangeStart must not be after rangeEnd")
	}

	events, err := s.events.FindAllByPublic(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	s.recordHit(hit)

	views := s.viewsFor(events)
	shorts := make([]models.EventShort, len(events))
	for i := range events {
		shorts[i] = models.ToEventShort(&events[i], views[events[i].ID], events[i].ConfirmedRequests)
	}

	if filter.Sort == models.SortByViews {
		sort.SliceStable(shorts, func(i, j int) bool { return shorts[i].Views < shorts[j].Views })
	}

	return shorts, nil
}

func (s *EventService) FindAllByAdmin(ctx context.Context, filter models.AdminEventFilter, hit models.HitContext) ([]models.EventFull, error) {
	if filter.RangeStart != nil && filter.RangeEnd != nil && filter.RangeStart.After(*filter.RangeEnd) {
		return nil, errors.Validation("rangeStart must not be after rangeEnd")
	}

	events, err := s.events.FindAllByAdmin(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	s.recordHit(hit)

	views := s.viewsFor(events)
	fulls := make([]models.EventFull, len(events))
	for i := range events {
		fulls[i] = models.ToEventFull(&events[i], views[events[i].ID], events[i].ConfirmedRequests)
	}

	return fulls, nil
}

// FindEventByID serves the public single-event page. Unpublished events are
// invisible here regardless of caller.
func (s *EventService) FindEventByID(ctx context.Context, eventID int64, hit models.HitContext) (*models.EventFull, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil || event.State != models.EventStatePublished {
		return nil, errors.NotFound("event %d not found", eventID)
	}

	s.recordHit(hit)

	return s.enrichOne(event), nil
}

func (s *EventService) FindAllByPrivate(ctx context.Context, userID int64, from, size int) ([]models.EventShort, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, errors.NotFound("user %d not found", userID)
	}

	events, err := s.events.FindAllByInitiator(ctx, userID, from, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	views := s.viewsFor(events)
	shorts := make([]models.EventShort, len(events))
	for i := range events {
		shorts[i] = models.ToEventShort(&events[i], views[events[i].ID], events[i].ConfirmedRequests)
	}

	return shorts, nil
}

// GetEventOfUser returns the initiator's own event in any state.
func (s *EventService) GetEventOfUser(ctx context.Context, userID, eventID int64) (*models.EventFull, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Initiator.ID != userID {
		return nil, errors.NotFound("event %d not found for user %d", eventID, userID)
	}

	return s.enrichOne(event), nil
}

func (s *EventService) getEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event == nil {
		return nil, errors.NotFound("event %d not found", eventID)
	}
	return event, nil
}

// applyPatch overwrites the fields present in the patch. The event date is
// always re-applied: callers validate it first.
func (s *EventService) applyPatch(ctx context.Context, event *models.Event, patch eventPatch, eventDate time.Time) error {
	if patch.Category != nil {
		category, err := s.categories.GetByID(ctx, *patch.Category)
		if err != nil {
			return fmt.Errorf("failed to load category: %w", err)
		}
		if category == nil {
			return errors.NotFound("category %d not found", *patch.Category)
		}
		event.Category = *category
	}

	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Annotation != nil {
		event.Annotation = *patch.Annotation
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Location != nil {
		event.Location.Lat = patch.Location.Lat
		event.Location.Lon = patch.Location.Lon
	}
	if patch.Paid != nil {
		event.Paid = *patch.Paid
	}
	if patch.ParticipantLimit != nil {
		event.ParticipantLimit = *patch.ParticipantLimit
	}
	if patch.RequestModeration != nil {
		event.RequestModeration = *patch.RequestModeration
	}
	event.EventDate = eventDate

	return nil
}

func (s *EventService) checkEventDate(date time.Time, lead time.Duration) error {
	if date.Before(time.Now().Add(lead)) {
		return errors.Validation("event date %s is closer than %s from now",
			models.FormatDateTime(date), lead)
	}
	return nil
}

func (s *EventService) enrichOne(event *models.Event) *models.EventFull {
	views := s.viewsFor([]models.Event{*event})
	full := models.ToEventFull(event, views[event.ID], event.ConfirmedRequests)
	return &full
}

// viewsFor fetches view counts for all listed events in one statistics call.
// Lookup failure is the explicit default branch: zero views for everyone.
func (s *EventService) viewsFor(events []models.Event) map[int64]int64 {
	views := make(map[int64]int64, len(events))
	if len(events) == 0 {
		return views
	}

	uris := make([]string, len(events))
	earliest := events[0].CreatedOn
	for i := range events {
		uris[i] = eventURI(events[i].ID)
		if events[i].CreatedOn.Before(earliest) {
			earliest = events[i].CreatedOn
		}
	}

	counts, err := s.stats.GetViewCounts(uris, earliest, time.Now(), true)
	if err != nil {
		slog.Warn("view counts unavailable, defaulting to zero", "error", err)
		return views
	}

	for i := range events {
		views[events[i].ID] = counts[eventURI(events[i].ID)]
	}
	return views
}

// recordHit registers the endpoint view with the statistics service.
// Fire-and-forget: failures are logged and never propagated.
func (s *EventService) recordHit(hit models.HitContext) {
	if hit.URI == "" {
		return
	}
	if err := s.stats.RecordHit(hit.URI, hit.IP, time.Now()); err != nil {
		slog.Warn("failed to record endpoint hit", "uri", hit.URI, "error", err)
	}
}

func (s *EventService) notifyStateChange(event *models.Event, action *models.StateAction) {
	if action == nil {
		return
	}

	var subject string
	switch event.State {
	case models.EventStatePublished:
		subject = models.SubjectEventPublished
	case models.EventStateCanceled:
		subject = models.SubjectEventCanceled
	default:
		return
	}

	msg := models.EventStateChangedMessage{
		EventID:     event.ID,
		InitiatorID: event.Initiator.ID,
		State:       event.State,
		Timestamp:   time.Now(),
	}
	if err := s.nats.Publish(subject, msg); err != nil {
		slog.Warn("failed to publish event state change", "subject", subject, "error", err)
	}
}

func eventURI(id int64) string {
	return fmt.Sprintf("/events/%d", id)
}
