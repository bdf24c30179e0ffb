package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"afisha/internal/config"
	"afisha/internal/database"
	"afisha/internal/models"
	"afisha/internal/repository"
)

var (
	userCount  = flag.Int("users", 50, "Number of users to generate")
	eventCount = flag.Int("events", 200, "Number of events to generate")
	dryRun     = flag.Bool("dry-run", false, "Show what would be generated without making changes")
)

var categoryNames = []string{
	"Концерты", "Театр", "Кино", "Спорт", "Выставки",
	"Лекции", "Экскурсии", "Фестивали",
}

type SeedGenerator struct {
	repos *repository.Repositories
	rng   *rand.Rand
}

func main() {
	flag.Parse()

	slog.Info("Starting seed generator...")

	cfg := config.Load()
	db, err := database.Connect(cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	generator := &SeedGenerator{
		repos: repository.NewRepositories(db),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := generator.Seed(context.Background()); err != nil {
		slog.Error("Failed to generate seed data", "error", err)
		os.Exit(1)
	}

	slog.Info("Seed generation completed successfully!")
}

func (g *SeedGenerator) Seed(ctx context.Context) error {
	if *dryRun {
		slog.Info("[DRY RUN] Would generate seed data",
			"users", *userCount, "categories", len(categoryNames), "events", *eventCount)
		return nil
	}

	categories, err := g.seedCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	users, err := g.seedUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := g.seedEvents(ctx, users, categories); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	return nil
}

func (g *SeedGenerator) seedCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	for _, name := range categoryNames {
		category := &models.Category{Name: name}
		if err := g.repos.Categories.Create(ctx, category); err != nil {
			// повтор имени при перезапуске генератора не ошибка
			slog.Warn("Skipping category", "name", name, "error", err)
			continue
		}
		categories = append(categories, *category)
	}

	slog.Info("Seeded categories", "count", len(categories))
	return categories, nil
}

func (g *SeedGenerator) seedUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	for i := 1; i <= *userCount; i++ {
		user := &models.User{
			Name:  fmt.Sprintf("Пользователь %d", i),
			Email: fmt.Sprintf("user%d@afisha.test", i),
		}
		if err := g.repos.Users.Create(ctx, user); err != nil {
			slog.Warn("Skipping user", "email", user.Email, "error", err)
			continue
		}
		users = append(users, *user)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("no users were created")
	}

	slog.Info("Seeded users", "count", len(users))
	return users, nil
}

func (g *SeedGenerator) seedEvents(ctx context.Context, users []models.User, categories []models.Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("no categories available")
	}

	created := 0
	for i := 1; i <= *eventCount; i++ {
		event := g.randomEvent(i, users, categories)
		if err := g.repos.Events.Create(ctx, event); err != nil {
			slog.Error("Failed to create event", "title", event.Title, "error", err)
			continue
		}
		if event.PublishedOn != nil {
			// дата публикации пишется отдельным апдейтом
			if err := g.repos.Events.Update(ctx, event); err != nil {
				slog.Error("Failed to update event", "event_id", event.ID, "error", err)
			}
		}
		created++
	}

	slog.Info("Seeded events", "count", created)
	return nil
}

func (g *SeedGenerator) randomEvent(n int, users []models.User, categories []models.Category) *models.Event {
	now := time.Now()
	eventDate := now.Add(time.Duration(g.rng.Intn(90*24)+48) * time.Hour)

	state := models.EventStatePending
	var publishedOn *time.Time
	if g.rng.Intn(100) < 70 {
		state = models.EventStatePublished
		t := now.Add(-time.Duration(g.rng.Intn(72)) * time.Hour)
		publishedOn = &t
	}

	return &models.Event{
		Title:       fmt.Sprintf("Событие %d", n),
		Annotation:  fmt.Sprintf("Краткое описание события %d для афиши города", n),
		Description: fmt.Sprintf("Полное описание события %d: программа, условия участия и прочие детали", n),
		EventDate:   eventDate,
		Location: models.Location{
			Lat: 43.2 + g.rng.Float64(),
			Lon: 76.8 + g.rng.Float64(),
		},
		Paid:              g.rng.Intn(2) == 0,
		ParticipantLimit:  int64(g.rng.Intn(5) * 25),
		RequestModeration: g.rng.Intn(2) == 0,
		State:             state,
		CreatedOn:         now,
		PublishedOn:       publishedOn,
		Initiator:         users[g.rng.Intn(len(users))],
		Category:          categories[g.rng.Intn(len(categories))],
	}
}
