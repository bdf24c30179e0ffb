package service

import (
	"context"
	"time"

	"afisha/internal/config"
	"afisha/internal/external"
	"afisha/internal/messaging"
	"afisha/internal/models"
	"afisha/internal/repository"
)

// Store interfaces are declared on the consumer side so service tests can
// substitute hand-written fakes for the SQL repositories.

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	FindAllByPublic(ctx context.Context, filter models.PublicEventFilter) ([]models.Event, error)
	FindAllByAdmin(ctx context.Context, filter models.AdminEventFilter) ([]models.Event, error)
	FindAllByInitiator(ctx context.Context, initiatorID int64, from, size int) ([]models.Event, error)
	FindPublishedByInitiators(ctx context.Context, ownerIDs []int64, from, size int) ([]models.Event, error)
	FindAllByIDs(ctx context.Context, ids []int64) ([]models.Event, error)
	ExistsByCategory(ctx context.Context, categoryID int64) (bool, error)
}

type RequestStore interface {
	Create(ctx context.Context, eventID, requesterID int64) (*models.ParticipationRequest, error)
	GetByID(ctx context.Context, id int64) (*models.ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]models.ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.ParticipationRequest, error)
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error
	UpdateStatusBatch(ctx context.Context, eventID, ownerID int64, requestIDs []int64, target models.RequestStatus) (*models.RequestStatusUpdateResult, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, ids []int64, from, size int) ([]models.User, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, from, size int) ([]models.Category, error)
}

type CompilationStore interface {
	Create(ctx context.Context, compilation *models.Compilation) error
	Update(ctx context.Context, compilation *models.Compilation, replaceEvents bool) error
	GetByID(ctx context.Context, id int64) (*models.Compilation, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, pinned *bool, from, size int) ([]models.Compilation, error)
}

type SubscriptionStore interface {
	Create(ctx context.Context, subscriberID, ownerID int64) (*models.Subscription, error)
	Delete(ctx context.Context, subscriberID, ownerID int64) (bool, error)
	ListBySubscriber(ctx context.Context, subscriberID int64) ([]models.Subscription, error)
	OwnerIDs(ctx context.Context, subscriberID int64) ([]int64, error)
	SubscriberIDs(ctx context.Context, ownerID int64) ([]int64, error)
}

// StatsCollaborator is the view-statistics side channel.
type StatsCollaborator interface {
	RecordHit(uri, ip string, at time.Time) error
	GetViewCounts(uris []string, start, end time.Time, unique bool) (map[string]int64, error)
}

// Publisher sends lifecycle notifications. Failures never fail the
// triggering operation.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

type Services struct {
	Events        *EventService
	Requests      *RequestService
	Users         *UserService
	Categories    *CategoryService
	Compilations  *CompilationService
	Subscriptions *SubscriptionService
}

func NewServices(repos *repository.Repositories, statsClient *external.StatsClient, natsClient *messaging.NATSClient, lifecycle config.Lifecycle) *Services {
	eventService := NewEventService(repos.Events, repos.Users, repos.Categories, statsClient, natsClient, lifecycle)
	requestService := NewRequestService(repos.Requests, repos.Events, repos.Users, natsClient)
	userService := NewUserService(repos.Users)
	categoryService := NewCategoryService(repos.Categories, repos.Events)
	compilationService := NewCompilationService(repos.Compilations, repos.Events)
	subscriptionService := NewSubscriptionService(repos.Subscriptions, repos.Users, repos.Events, statsClient)

	return &Services{
		Events:        eventService,
		Requests:      requestService,
		Users:         userService,
		Categories:    categoryService,
		Compilations:  compilationService,
		Subscriptions: subscriptionService,
	}
}
