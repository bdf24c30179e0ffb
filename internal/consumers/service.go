package consumers

import (
	"context"
	"log/slog"

	"afisha/internal/config"
	"afisha/internal/database"
	"afisha/internal/messaging"
	"afisha/internal/models"
	"afisha/internal/repository"
)

const notifierQueue = "notifier"

// ConsumerService is the notification worker: it consumes lifecycle
// messages from NATS Streaming and fans them out to subscribers.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := repository.NewRepositories(db)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: NewHandlers(repos),
	}, nil
}

func (cs *ConsumerService) Repositories() *repository.Repositories {
	return cs.repos
}

func (cs *ConsumerService) NATS() *messaging.NATSClient {
	return cs.nats
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting notification consumers...")

	if _, err := cs.nats.SubscribeQueue(models.SubjectEventPublished, notifierQueue, cs.handlers.HandleEventPublished); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.SubjectEventCanceled, notifierQueue, cs.handlers.HandleEventCanceled); err != nil {
		return err
	}
	if _, err := cs.nats.SubscribeQueue(models.SubjectRequestStatusChanged, notifierQueue, cs.handlers.HandleRequestStatusChanged); err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down notifier...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
