package repository

import (
	"context"
	"database/sql"
	"fmt"

	"afisha/internal/database"
	"afisha/internal/errors"
	"afisha/internal/models"

	"github.com/lib/pq"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, user.Name, user.Email).Scan(&user.ID)
	if isUniqueViolation(err) {
		return errors.Duplicated("email already registered: %s", user.Email)
	}

	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, name, email FROM users WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Name, &user.Email)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return user, err
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *UserRepository) List(ctx context.Context, ids []int64, from, size int) ([]models.User, error) {
	var args []interface{}
	argIndex := 1

	query := `SELECT id, name, email FROM users`

	if len(ids) > 0 {
		query += fmt.Sprintf(" WHERE id = ANY($%d)", argIndex)
		args = append(args, pq.Array(ids))
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, size, from)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// isUniqueViolation reports whether err is a postgres unique-index conflict.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
