package repositories

import (
	"context"
	"database/sql"
	"delivery-area-service/internal/domain"
	"delivery-area-service/internal/platform/db"
	"delivery-area-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
)

// SQL-backed implementation of the RecipientRepository port.
type SQLRecipientRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLRecipientRepository(conn *sql.DB, dialect db.Dialect) *SQLRecipientRepository {
	return &SQLRecipientRepository{DB: conn, Dialect: dialect}
}

// Return all recipients stored in the database.
func (s *SQLRecipientRepository) ListRecipients(ctx context.Context) (_ []domain.Recipient, err error) {
	defer obs.Time(ctx, "recipients.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql recipient repository: DB is nil")
	}

	query := `
	SELECT
		recipient_id,
		name,
		address,
		lat,
		lng
	FROM recipients
	ORDER BY recipient_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list recipients: query recipients table: %w", err)
	}
	defer rows.Close()

	recipients := make([]domain.Recipient, 0, 64)
	for rows.Next() {
		var r domain.Recipient
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &lat, &lng); err != nil {
			return nil, fmt.Errorf("list recipients: scan row: %w", err)
		}
		if lat.Valid && lng.Valid {
			r.Location = &domain.GeoPoint{Lat: lat.Float64, Lng: lng.Float64}
		}
		recipients = append(recipients, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipients: row iteration: %w", err)
	}

	return recipients, nil
}

// Insert or replace recipients by id.
func (s *SQLRecipientRepository) SaveRecipients(ctx context.Context, recipients []domain.Recipient) error {
	if s.DB == nil {
		return errors.New("sql recipient repository: DB is nil")
	}

	if len(recipients) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save recipients: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO recipients (recipient_id, name, address, lat, lng)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (recipient_id) DO UPDATE
	SET name = excluded.name,
		address = excluded.address,
		lat = excluded.lat,
		lng = excluded.lng;
	`))
	if err != nil {
		return fmt.Errorf("save recipients: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recipients {
		if strings.TrimSpace(r.ID) == "" {
			return errors.New("save recipients: recipient id cannot be empty")
		}

		var lat, lng sql.NullFloat64
		if r.Location != nil {
			lat = sql.NullFloat64{Float64: r.Location.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: r.Location.Lng, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Address, lat, lng); err != nil {
			return fmt.Errorf("save recipients: insert recipient_id=%q: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save recipients: commit tx: %w", err)
	}

	return nil
}

// Persist geocoded coordinates. Unknown ids are ignored.
func (s *SQLRecipientRepository) UpdateLocations(ctx context.Context, locations map[string]domain.GeoPoint) error {
	if s.DB == nil {
		return errors.New("sql recipient repository: DB is nil")
	}

	if len(locations) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	UPDATE recipients SET lat = ?, lng = ? WHERE recipient_id = ?;
	`))
	if err != nil {
		return fmt.Errorf("update locations: prepare update: %w", err)
	}
	defer stmt.Close()

	for id, p := range locations {
		if _, err := stmt.ExecContext(ctx, p.Lat, p.Lng, id); err != nil {
			return fmt.Errorf("update locations: recipient_id=%q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update locations: commit tx: %w", err)
	}

	return nil
}
