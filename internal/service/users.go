package service

import (
	"context"
	"fmt"

	"afisha/internal/errors"
	"afisha/internal/models"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Create(ctx context.Context, req *models.NewUserRequest) (*models.User, error) {
	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return errors.NotFound("user %d not found", id)
	}
	return nil
}

func (s *UserService) List(ctx context.Context, ids []int64, from, size int) ([]models.User, error) {
	users, err := s.users.List(ctx, ids, from, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
