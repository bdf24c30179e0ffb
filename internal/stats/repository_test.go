package stats

import (
	"context"
	"testing"
	"time"

	"afisha/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewRepository(&database.DB{DB: mockDB}), mock
}

func TestRepositorySave(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO endpoint_hits").
		WithArgs("afisha-main-service", "/events/1", "10.0.0.1", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	hit := &EndpointHit{App: "afisha-main-service", URI: "/events/1", IP: "10.0.0.1", Created: created}
	require.NoError(t, repo.Save(context.Background(), hit))

	assert.Equal(t, int64(42), hit.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryAggregate(t *testing.T) {
	repo, mock := newMockRepo(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT app, uri, COUNT\(ip\) AS hits`).
		WithArgs(start, end, pq.Array([]string{"/events/1", "/events/2"})).
		WillReturnRows(sqlmock.NewRows([]string{"app", "uri", "hits"}).
			AddRow("afisha-main-service", "/events/2", int64(9)).
			AddRow("afisha-main-service", "/events/1", int64(3)))

	result, err := repo.Aggregate(context.Background(), start, end, []string{"/events/1", "/events/2"}, false)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "/events/2", result[0].URI)
	assert.Equal(t, int64(9), result[0].Hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryAggregateUnique(t *testing.T) {
	repo, mock := newMockRepo(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT app, uri, COUNT\(DISTINCT ip\) AS hits`).
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"app", "uri", "hits"}))

	result, err := repo.Aggregate(context.Background(), start, end, nil, true)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
