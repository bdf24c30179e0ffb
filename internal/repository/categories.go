package repository

import (
	"context"
	"database/sql"

	"afisha/internal/database"
	"afisha/internal/errors"
	"afisha/internal/models"
)

type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, category.Name).Scan(&category.ID)
	if isUniqueViolation(err) {
		return errors.Duplicated("category name already exists: %s", category.Name)
	}

	return err
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, category.Name, category.ID)
	if isUniqueViolation(err) {
		return errors.Duplicated("category name already exists: %s", category.Name)
	}

	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name FROM categories WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return category, err
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *CategoryRepository) List(ctx context.Context, from, size int) ([]models.Category, error) {
	query := `SELECT id, name FROM categories ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, size, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}
