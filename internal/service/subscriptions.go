package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"afisha/internal/errors"
	"afisha/internal/models"
)

type SubscriptionService struct {
	subscriptions SubscriptionStore
	users         UserStore
	events        EventStore
	stats         StatsCollaborator
}

func NewSubscriptionService(subscriptions SubscriptionStore, users UserStore, events EventStore, stats StatsCollaborator) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		users:         users,
		events:        events,
		stats:         stats,
	}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, ownerID int64) (*models.SubscriptionDto, error) {
	if subscriberID == ownerID {
		return nil, errors.Conflict("user %d cannot subscribe to themselves", subscriberID)
	}

	for _, id := range []int64{subscriberID, ownerID} {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		if user == nil {
			return nil, errors.NotFound("user %d not found", id)
		}
	}

	subscription, err := s.subscriptions.Create(ctx, subscriberID, ownerID)
	if err != nil {
		return nil, err
	}

	dto := toSubscriptionDto(subscription)
	return &dto, nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, ownerID int64) error {
	deleted, err := s.subscriptions.Delete(ctx, subscriberID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if !deleted {
		return errors.NotFound("user %d does not follow user %d", subscriberID, ownerID)
	}
	return nil
}

func (s *SubscriptionService) List(ctx context.Context, subscriberID int64) ([]models.SubscriptionDto, error) {
	user, err := s.users.GetByID(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, errors.NotFound("user %d not found", subscriberID)
	}

	subscriptions, err := s.subscriptions.ListBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	dtos := make([]models.SubscriptionDto, len(subscriptions))
	for i := range subscriptions {
		dtos[i] = toSubscriptionDto(&subscriptions[i])
	}
	return dtos, nil
}

// Subscribers returns the users following the given initiator.
func (s *SubscriptionService) Subscribers(ctx context.Context, ownerID int64) ([]models.UserShort, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if owner == nil {
		return nil, errors.NotFound("user %d not found", ownerID)
	}

	ids, err := s.subscriptions.SubscriberIDs(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	if len(ids) == 0 {
		return []models.UserShort{}, nil
	}

	users, err := s.users.List(ctx, ids, 0, len(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load subscribers: %w", err)
	}

	shorts := make([]models.UserShort, len(users))
	for i := range users {
		shorts[i] = models.UserShort{ID: users[i].ID, Name: users[i].Name}
	}
	return shorts, nil
}

// SubscriberCount returns how many users follow the given initiator.
func (s *SubscriptionService) SubscriberCount(ctx context.Context, ownerID int64) (int64, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to load user: %w", err)
	}
	if owner == nil {
		return 0, errors.NotFound("user %d not found", ownerID)
	}

	ids, err := s.subscriptions.SubscriberIDs(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return int64(len(ids)), nil
}

// Feed returns published events of the initiators the user follows,
// soonest first, enriched with view counts.
func (s *SubscriptionService) Feed(ctx context.Context, subscriberID int64, from, size int) ([]models.EventShort, error) {
	user, err := s.users.GetByID(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, errors.NotFound("user %d not found", subscriberID)
	}

	ownerIDs, err := s.subscriptions.OwnerIDs(ctx, subscriberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	if len(ownerIDs) == 0 {
		return []models.EventShort{}, nil
	}

	events, err := s.events.FindPublishedByInitiators(ctx, ownerIDs, from, size)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed events: %w", err)
	}

	views := s.viewsFor(events)
	shorts := make([]models.EventShort, len(events))
	for i := range events {
		shorts[i] = models.ToEventShort(&events[i], views[events[i].ID], events[i].ConfirmedRequests)
	}
	return shorts, nil
}

func (s *SubscriptionService) viewsFor(events []models.Event) map[int64]int64 {
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

func toSubscriptionDto(subscription *models.Subscription) models.SubscriptionDto {
	return models.SubscriptionDto{
		ID:           subscription.ID,
		SubscriberID: subscription.SubscriberID,
		OwnerID:      subscription.OwnerID,
		Created:      models.NewDateTime(subscription.Created),
	}
}
