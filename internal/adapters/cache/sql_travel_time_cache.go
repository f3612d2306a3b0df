package cache

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/platform/db"
	"delivery-area-service/internal/platform/obs"
	"delivery-area-service/internal/ports"
	"errors"
	"fmt"
	"strings"
)

// SQLTravelTimeCache is a SQL-backed cache of directed leg travel times.
type SQLTravelTimeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLTravelTimeCache(conn *sql.DB, dialect db.Dialect) *SQLTravelTimeCache {
	return &SQLTravelTimeCache{DB: conn, Dialect: dialect}
}

// Fetch cached results for the given leg keys.
func (s *SQLTravelTimeCache) GetMany(
	ctx context.Context,
	legs []string,
) (_ map[string]ports.LegResult, err error) {
	defer obs.Time(ctx, "traveltime.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("travel time cache: db is nil")
	}

	uniq := uniqueKeys(legs)
	if len(uniq) == 0 {
		return map[string]ports.LegResult{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, l := range uniq {
		args = append(args, l)
	}

	q := fmt.Sprintf(`
	SELECT leg, distance_meters, duration_seconds
    FROM travel_time_cache
    WHERE leg IN (%s);
	`, placeholders(len(uniq)))

	rows, err := s.DB.QueryContext(ctx, s.Dialect.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("get travel time cache: query travel_time_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ports.LegResult, len(uniq))
	for rows.Next() {
		var leg string
		var meters, seconds int
		if err := rows.Scan(&leg, &meters, &seconds); err != nil {
			return nil, fmt.Errorf("get travel time cache: scan rows: %w", err)
		}
		out[leg] = ports.LegResult{
			DistanceMeters:  meters,
			DurationSeconds: seconds,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get travel time cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many leg results.
func (s *SQLTravelTimeCache) PutMany(ctx context.Context, results map[string]ports.LegResult) error {
	if s.DB == nil {
		return errors.New("travel time cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert travel time cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO travel_time_cache (leg, distance_meters, duration_seconds)
    VALUES (?, ?, ?)
	ON CONFLICT (leg) DO UPDATE
	SET distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds;
	`))
	if err != nil {
		return fmt.Errorf("insert travel time cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for leg, r := range results {
		if strings.TrimSpace(leg) == "" {
			return fmt.Errorf("insert travel time cache: empty leg key")
		}

		if _, err := stmt.ExecContext(ctx, leg, r.DistanceMeters, r.DurationSeconds); err != nil {
			return fmt.Errorf("insert travel time cache leg=%q: %w", leg, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert travel time cache commit: %w", err)
	}

	return nil
}
