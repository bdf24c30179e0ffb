package repository

import (
	"context"
	"database/sql"
	"fmt"

	"afisha/internal/database"
	"afisha/internal/models"

	"github.com/lib/pq"
)

type CompilationRepository struct {
	db *database.DB
}

func NewCompilationRepository(db *database.DB) *CompilationRepository {
	return &CompilationRepository{db: db}
}

// Create inserts the compilation and its event links in one transaction.
func (r *CompilationRepository) Create(ctx context.Context, compilation *models.Compilation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO compilations (title, pinned)
		VALUES ($1, $2)
		RETURNING id`

	err = tx.QueryRowContext(ctx, query, compilation.Title, compilation.Pinned).Scan(&compilation.ID)
	if err != nil {
		return err
	}

	if err := r.replaceLinks(ctx, tx, compilation.ID, compilation.EventIDs, false); err != nil {
		return err
	}

	return tx.Commit()
}

// Update rewrites the compilation fields and replaces its event links.
func (r *CompilationRepository) Update(ctx context.Context, compilation *models.Compilation, replaceEvents bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE compilations SET title = $1, pinned = $2 WHERE id = $3`,
		compilation.Title, compilation.Pinned, compilation.ID)
	if err != nil {
		return err
	}

	if replaceEvents {
		if err := r.replaceLinks(ctx, tx, compilation.ID, compilation.EventIDs, true); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *CompilationRepository) replaceLinks(ctx context.Context, tx *sql.Tx, compilationID int64, eventIDs []int64, clear bool) error {
	if clear {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM compilation_events WHERE compilation_id = $1`, compilationID)
		if err != nil {
			return err
		}
	}

	for _, eventID := range eventIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO compilation_events (compilation_id, event_id) VALUES ($1, $2)`,
			compilationID, eventID)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *CompilationRepository) GetByID(ctx context.Context, id int64) (*models.Compilation, error) {
	query := `
		SELECT id, title, pinned
		FROM compilations
		WHERE id = $1`

	compilation := &models.Compilation{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&compilation.ID, &compilation.Title, &compilation.Pinned)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	compilation.EventIDs, err = r.eventIDs(ctx, id)
	return compilation, err
}

func (r *CompilationRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM compilations WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *CompilationRepository) List(ctx context.Context, pinned *bool, from, size int) ([]models.Compilation, error) {
	query := `SELECT id, title, pinned FROM compilations`
	var args []interface{}
	argIndex := 1

	if pinned != nil {
		query += ` WHERE pinned = $1`
		args = append(args, *pinned)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, size, from)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var compilations []models.Compilation
	for rows.Next() {
		var compilation models.Compilation
		if err := rows.Scan(&compilation.ID, &compilation.Title, &compilation.Pinned); err != nil {
			return nil, err
		}
		compilations = append(compilations, compilation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range compilations {
		compilations[i].EventIDs, err = r.eventIDs(ctx, compilations[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return compilations, nil
}

func (r *CompilationRepository) eventIDs(ctx context.Context, compilationID int64) ([]int64, error) {
	var ids pq.Int64Array
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(array_agg(event_id ORDER BY event_id), '{}')
		 FROM compilation_events WHERE compilation_id = $1`, compilationID).Scan(&ids)
	return []int64(ids), err
}
