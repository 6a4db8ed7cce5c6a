package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"eventscout/internal/model"
	"eventscout/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveEvent persists an event, deduplicating by source URL.
func (s *SQLite) SaveEvent(ctx context.Context, ev *model.Event) (int64, bool, error) {
	var existing int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM events WHERE source_url = ?`, ev.SourceURL,
	).Scan(&existing)
	switch {
	case err == nil:
		ev.ID = existing
		return existing, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("lookup event: %w", err)
	}

	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (title, description, event_date, venue, city, source_url,
		                     source_platform, price, registration_required, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Title, ev.Description, ev.Date.UTC().Format(timeLayout), ev.Venue, ev.City,
		ev.SourceURL, string(ev.Platform), ev.Price, boolToInt(ev.RegistrationRequired), now,
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("last insert id: %w", err)
	}
	ev.ID = id
	return id, true, nil
}

// GetEventBySourceURL returns the stored event for a source URL, or nil.
func (s *SQLite) GetEventBySourceURL(ctx context.Context, sourceURL string) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, event_date, venue, city, source_url,
		        source_platform, price, registration_required
		 FROM events WHERE source_url = ?`, sourceURL,
	)

	var ev model.Event
	var dateStr, platformStr string
	var regRequired int
	err := row.Scan(&ev.ID, &ev.Title, &ev.Description, &dateStr, &ev.Venue, &ev.City,
		&ev.SourceURL, &platformStr, &ev.Price, &regRequired)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	ev.Date, _ = time.Parse(timeLayout, dateStr)
	ev.Platform = model.Platform(platformStr)
	ev.RegistrationRequired = regRequired == 1
	return &ev, nil
}

// UpdateRanking annotates a stored event with its relevance score and
// matched keywords.
func (s *SQLite) UpdateRanking(ctx context.Context, eventID int64, score float64, keywords []string) error {
	kw, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`UPDATE events SET relevance_score = ?, keywords_matched = ?, updated_at = ? WHERE id = ?`,
		score, string(kw), now, eventID,
	)
	if err != nil {
		return fmt.Errorf("update ranking: %w", err)
	}
	return nil
}

// SaveRegistration persists a registration record and populates its ID.
func (s *SQLite) SaveRegistration(ctx context.Context, reg *Registration) (int64, error) {
	conf, err := json.Marshal(reg.ConfirmationData)
	if err != nil {
		return 0, fmt.Errorf("marshal confirmation: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)

	var eventID any
	if reg.EventID != 0 {
		eventID = reg.EventID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO registrations (event_id, status, confirmation_data, qr_code_url, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		eventID, reg.Status, string(conf), nullableString(reg.QRCodeURL), now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert registration: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	reg.ID = id
	reg.CreatedAt, _ = time.Parse(timeLayout, now)
	return id, nil
}

// MarkRegistered flags an event as registered with its confirmation payload.
func (s *SQLite) MarkRegistered(ctx context.Context, eventID int64, confirmation map[string]any) error {
	conf, err := json.Marshal(confirmation)
	if err != nil {
		return fmt.Errorf("marshal confirmation: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`UPDATE events SET is_registered = 1, registration_confirmation = ?, updated_at = ? WHERE id = ?`,
		string(conf), now, eventID,
	)
	if err != nil {
		return fmt.Errorf("mark registered: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
