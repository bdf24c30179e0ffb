package service

import (
	"context"
	"fmt"

	"afisha/internal/errors"
	"afisha/internal/models"
)

type CategoryService struct {
	categories CategoryStore
	events     EventStore
}

func NewCategoryService(categories CategoryStore, events EventStore) *CategoryService {
	return &CategoryService{categories: categories, events: events}
}

func (s *CategoryService) Create(ctx context.Context, req *models.NewCategoryRequest) (*models.Category, error) {
	category := &models.Category{Name: req.Name}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req *models.NewCategoryRequest) (*models.Category, error) {
	category, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = req.Name
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return s.get(ctx, id)
}

// Delete refuses while any event still references the category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	inUse, err := s.events.ExistsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if inUse {
		return errors.Conflict("category %d is referenced by events", id)
	}

	deleted, err := s.categories.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if !deleted {
		return errors.NotFound("category %d not found", id)
	}
	return nil
}

func (s *CategoryService) List(ctx context.Context, from, size int) ([]models.Category, error) {
	categories, err := s.categories.List(ctx, from, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, errors.NotFound("category %d not found", id)
	}
	return category, nil
}
