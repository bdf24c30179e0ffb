package database

import (
	"fmt"
	"log/slog"
)

// RunMigrations applies the main-service schema.
func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createUsersTable,
		createCategoriesTable,
		createLocationsTable,
		createEventsTable,
		createRequestsTable,
		createCompilationsTable,
		createCompilationEventsTable,
		createSubscriptionsTable,
		createEventsStateIndex,
		createEventsInitiatorIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// RunStatsMigrations applies the statistics-service schema.
func (db *DB) RunStatsMigrations() error {
	slog.Info("Running statistics migrations...")

	if _, err := db.Exec(createEndpointHitsTable); err != nil {
		return fmt.Errorf("stats migration failed: %w", err)
	}
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(250) NOT NULL,
    email VARCHAR(254) UNIQUE NOT NULL
);`

const createCategoriesTable = `
CREATE TABLE IF NOT EXISTS categories (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(50) UNIQUE NOT NULL
);`

const createLocationsTable = `
CREATE TABLE IF NOT EXISTS locations (
    id BIGSERIAL PRIMARY KEY,
    lat DOUBLE PRECISION NOT NULL,
    lon DOUBLE PRECISION NOT NULL
);`

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(120) NOT NULL,
    annotation VARCHAR(2000) NOT NULL,
    description VARCHAR(7000) NOT NULL,
    event_date TIMESTAMP NOT NULL,
    location_id BIGINT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
    paid BOOLEAN NOT NULL DEFAULT FALSE,
    participant_limit BIGINT NOT NULL DEFAULT 0,
    request_moderation BOOLEAN NOT NULL DEFAULT TRUE,
    state VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_on TIMESTAMP NOT NULL DEFAULT NOW(),
    published_on TIMESTAMP,
    initiator_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    category_id BIGINT NOT NULL REFERENCES categories(id),
    confirmed_requests BIGINT NOT NULL DEFAULT 0,

    CHECK (state IN ('PENDING', 'PUBLISHED', 'CANCELED')),
    CHECK (participant_limit >= 0),
    CHECK (participant_limit = 0 OR confirmed_requests <= participant_limit)
);`

const createRequestsTable = `
CREATE TABLE IF NOT EXISTS requests (
    id BIGSERIAL PRIMARY KEY,
    event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    requester_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(event_id, requester_id),
    CHECK (status IN ('PENDING', 'CONFIRMED', 'REJECTED', 'CANCELED'))
);`

const createCompilationsTable = `
CREATE TABLE IF NOT EXISTS compilations (
    id BIGSERIAL PRIMARY KEY,
    title VARCHAR(50) NOT NULL,
    pinned BOOLEAN NOT NULL DEFAULT FALSE
);`

const createCompilationEventsTable = `
CREATE TABLE IF NOT EXISTS compilation_events (
    compilation_id BIGINT NOT NULL REFERENCES compilations(id) ON DELETE CASCADE,
    event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    PRIMARY KEY (compilation_id, event_id)
);`

const createSubscriptionsTable = `
CREATE TABLE IF NOT EXISTS subscriptions (
    id BIGSERIAL PRIMARY KEY,
    subscriber_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(subscriber_id, owner_id),
    CHECK (subscriber_id <> owner_id)
);`

const createEventsStateIndex = `
CREATE INDEX IF NOT EXISTS idx_events_state_date ON events(state, event_date);`

const createEventsInitiatorIndex = `
CREATE INDEX IF NOT EXISTS idx_events_initiator ON events(initiator_id);`

const createEndpointHitsTable = `
CREATE TABLE IF NOT EXISTS endpoint_hits (
    id BIGSERIAL PRIMARY KEY,
    app VARCHAR(100) NOT NULL,
    uri VARCHAR(500) NOT NULL,
    ip VARCHAR(45) NOT NULL,
    created TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_endpoint_hits_uri_created ON endpoint_hits(uri, created);`
