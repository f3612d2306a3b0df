package repositories

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/db"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the database schema. The DDL is portable across SQLite and
// Postgres.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRecipientsQuery := `
	CREATE TABLE IF NOT EXISTS recipients (
		recipient_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
        address TEXT PRIMARY KEY,
        lat DOUBLE PRECISION NOT NULL,
        lng DOUBLE PRECISION NOT NULL
    );
	`

	createTravelTimeCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_time_cache (
        leg TEXT PRIMARY KEY,
        distance_meters INTEGER NOT NULL,
        duration_seconds INTEGER NOT NULL
    );
	`

	statements := []string{
		createRecipientsQuery,
		createGeocodeCacheQuery,
		createTravelTimeCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type RecipientSeed struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

// ToDomain converts a seed row; a location is set only when both lat and lng
// are present.
func (s RecipientSeed) ToDomain() domain.Recipient {
	r := domain.Recipient{
		ID:      strings.TrimSpace(s.ID),
		Name:    strings.TrimSpace(s.Name),
		Address: strings.TrimSpace(s.Address),
	}
	if s.Lat != nil && s.Lng != nil {
		r.Location = &domain.GeoPoint{Lat: *s.Lat, Lng: *s.Lng}
	}
	return r
}

// ReadSeedFile parses a JSON array of recipients.
func ReadSeedFile(jsonPath string) ([]domain.Recipient, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read recipients: read %q: %w", jsonPath, err)
	}

	var data []RecipientSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("read recipients: parse json: %w", err)
	}

	rows := make([]domain.Recipient, 0, len(data))
	for i, item := range data {
		r := item.ToDomain()
		if r.ID == "" {
			return nil, fmt.Errorf("read recipients: item at index %d: id cannot be empty", i+1)
		}
		if r.Name == "" {
			return nil, fmt.Errorf("read recipients: item %q: name cannot be empty", r.ID)
		}
		rows = append(rows, r)
	}

	return rows, nil
}

// Populate the database with recipient data from a JSON file.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	rows, err := ReadSeedFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed recipients: %w", err)
	}

	repo := NewSQLRecipientRepository(conn, dialect)
	if err := repo.SaveRecipients(ctx, rows); err != nil {
		return fmt.Errorf("seed recipients: %w", err)
	}

	return nil
}
