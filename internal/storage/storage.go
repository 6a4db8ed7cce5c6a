// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"time"

	"eventscout/internal/model"
)

// Registration is a persisted registration record.
type Registration struct {
	ID               int64
	EventID          int64
	Status           string
	ConfirmationData map[string]any
	QRCodeURL        string
	CreatedAt        time.Time
}

// Storage is the interface for all persistence operations.
type Storage interface {
	// SaveEvent persists an event, deduplicating by source URL. If a row
	// with the same source URL exists its ID is returned and nothing is
	// rewritten. The event's ID field is populated either way; created
	// reports whether a new row was inserted.
	SaveEvent(ctx context.Context, ev *model.Event) (id int64, created bool, err error)

	// GetEventBySourceURL returns the stored event for a source URL, or
	// nil when none exists.
	GetEventBySourceURL(ctx context.Context, sourceURL string) (*model.Event, error)

	// UpdateRanking annotates a stored event with its relevance score and
	// matched keywords.
	UpdateRanking(ctx context.Context, eventID int64, score float64, keywords []string) error

	// SaveRegistration persists a registration record and populates its ID.
	SaveRegistration(ctx context.Context, reg *Registration) (int64, error)

	// MarkRegistered flags a stored event as registered and attaches the
	// confirmation payload.
	MarkRegistered(ctx context.Context, eventID int64, confirmation map[string]any) error

	Close() error
}
