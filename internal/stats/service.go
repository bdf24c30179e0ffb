package stats

import (
	"context"
	"fmt"
	"time"

	"afisha/internal/errors"
)

// Store is the persistence contract of the statistics service.
type Store interface {
	Save(ctx context.Context, hit *EndpointHit) error
	Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) RecordHit(ctx context.Context, hit *EndpointHit) error {
	if err := s.store.Save(ctx, hit); err != nil {
		return fmt.Errorf("failed to save hit: %w", err)
	}
	return nil
}

func (s *Service) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	if start.After(end) {
		return nil, errors.Validation("start must not be after end")
	}

	result, err := s.store.Aggregate(ctx, start, end, uris, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	if result == nil {
		result = []ViewStats{}
	}
	return result, nil
}
