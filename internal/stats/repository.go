package stats

import (
	"context"
	"fmt"
	"time"

	"afisha/internal/database"

	"github.com/lib/pq"
)

// EndpointHit is one recorded endpoint view.
type EndpointHit struct {
	ID      int64     `db:"id"`
	App     string    `db:"app"`
	URI     string    `db:"uri"`
	IP      string    `db:"ip"`
	Created time.Time `db:"created"`
}

// ViewStats is an aggregated hit count for one uri of one app.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, hit *EndpointHit) error {
	query := `
		INSERT INTO endpoint_hits (app, uri, ip, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		hit.App, hit.URI, hit.IP, hit.Created).Scan(&hit.ID)
}

// Aggregate counts hits per (app, uri) inside [start, end], most viewed
// first. With unique set, each ip counts once per uri.
func (r *Repository) Aggregate(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	counter := "COUNT(ip)"
	if unique {
		counter = "COUNT(DISTINCT ip)"
	}

	query := fmt.Sprintf(`
		SELECT app, uri, %s AS hits
		FROM endpoint_hits
		WHERE created BETWEEN $1 AND $2`, counter)

	args := []interface{}{start, end}
	if len(uris) > 0 {
		query += " AND uri = ANY($3)"
		args = append(args, pq.Array(uris))
	}

	query += " GROUP BY app, uri ORDER BY hits DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ViewStats
	for rows.Next() {
		var vs ViewStats
		if err := rows.Scan(&vs.App, &vs.URI, &vs.Hits); err != nil {
			return nil, err
		}
		result = append(result, vs)
	}

	return result, rows.Err()
}
