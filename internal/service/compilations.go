package service

import (
	"context"
	"fmt"

	"afisha/internal/errors"
	"afisha/internal/models"
)

type CompilationService struct {
	compilations CompilationStore
	events       EventStore
}

func NewCompilationService(compilations CompilationStore, events EventStore) *CompilationService {
	return &CompilationService{compilations: compilations, events: events}
}

func (s *CompilationService) Create(ctx context.Context, req *models.NewCompilationRequest) (*models.CompilationDto, error) {
	if err := s.checkEvents(ctx, req.Events); err != nil {
		return nil, err
	}

	compilation := &models.Compilation{
		Title:    req.Title,
		Pinned:   req.Pinned,
		EventIDs: req.Events,
	}

	if err := s.compilations.Create(ctx, compilation); err != nil {
		return nil, fmt.Errorf("failed to create compilation: %w", err)
	}

	return s.toDto(ctx, compilation)
}

func (s *CompilationService) Update(ctx context.Context, id int64, req *models.UpdateCompilationRequest) (*models.CompilationDto, error) {
	compilation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		compilation.Title = *req.Title
	}
	if req.Pinned != nil {
		compilation.Pinned = *req.Pinned
	}

	replaceEvents := req.Events != nil
	if replaceEvents {
		if err := s.checkEvents(ctx, *req.Events); err != nil {
			return nil, err
		}
		compilation.EventIDs = *req.Events
	}

	if err := s.compilations.Update(ctx, compilation, replaceEvents); err != nil {
		return nil, fmt.Errorf("failed to update compilation: %w", err)
	}

	return s.toDto(ctx, compilation)
}

func (s *CompilationService) GetByID(ctx context.Context, id int64) (*models.CompilationDto, error) {
	compilation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDto(ctx, compilation)
}

func (s *CompilationService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.compilations.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete compilation: %w", err)
	}
	if !deleted {
		return errors.NotFound("compilation %d not found", id)
	}
	return nil
}

func (s *CompilationService) List(ctx context.Context, pinned *bool, from, size int) ([]models.CompilationDto, error) {
	compilations, err := s.compilations.List(ctx, pinned, from, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list compilations: %w", err)
	}

	dtos := make([]models.CompilationDto, 0, len(compilations))
	for i := range compilations {
		dto, err := s.toDto(ctx, &compilations[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

func (s *CompilationService) get(ctx context.Context, id int64) (*models.Compilation, error) {
	compilation, err := s.compilations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load compilation: %w", err)
	}
	if compilation == nil {
		return nil, errors.NotFound("compilation %d not found", id)
	}
	return compilation, nil
}

func (s *CompilationService) checkEvents(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	events, err := s.events.FindAllByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	if len(events) != len(uniqueIDs(ids)) {
		return errors.NotFound("some of the listed events do not exist")
	}
	return nil
}

func (s *CompilationService) toDto(ctx context.Context, compilation *models.Compilation) (*models.CompilationDto, error) {
	dto := &models.CompilationDto{
		ID:     compilation.ID,
		Title:  compilation.Title,
		Pinned: compilation.Pinned,
		Events: []models.EventShort{},
	}

	if len(compilation.EventIDs) == 0 {
		return dto, nil
	}

	events, err := s.events.FindAllByIDs(ctx, compilation.EventIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load compilation events: %w", err)
	}

	for i := range events {
		dto.Events = append(dto.Events, models.ToEventShort(&events[i], 0, events[i].ConfirmedRequests))
	}
	return dto, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
