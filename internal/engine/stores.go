package engine

import (
	"context"
	"time"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// EventStore is the persistence boundary for the authoritative event log.
type EventStore interface {
	// ListDay returns the user's events for one calendar day, ordered by
	// instant ascending.
	ListDay(ctx context.Context, userID string, day localtime.Date) ([]record.Event, error)

	// Insert persists a new event and returns it with its assigned ID.
	Insert(ctx context.Context, userID string, kind record.Kind, at time.Time) (record.Event, error)

	// Get fetches one event by ID.
	Get(ctx context.Context, id string) (record.Event, error)

	// UpdateAt moves an event to a new instant. The store sets the
	// modified flag and captures the original instant on the first edit
	// only; later edits keep the first captured original.
	UpdateAt(ctx context.Context, id string, at time.Time) error

	// Delete removes one event.
	Delete(ctx context.Context, id string) error

	// DeleteDay removes all of the user's events for one day and reports
	// how many were removed.
	DeleteDay(ctx context.Context, userID string, day localtime.Date) (int, error)
}

// SessionStore is the persistence boundary for the derived session view.
type SessionStore interface {
	// Replace swaps the stored sessions for (user, day) with the given
	// set as one atomic operation. A failure must leave the previously
	// stored sessions in place.
	Replace(ctx context.Context, userID string, day localtime.Date, sessions []record.Session) error

	// ListDay returns the stored sessions for one user-day in
	// chronological order.
	ListDay(ctx context.Context, userID string, day localtime.Date) ([]record.Session, error)

	// ListRange returns sessions for the inclusive day range [from, to],
	// ordered by day then start.
	ListRange(ctx context.Context, userID string, from, to localtime.Date) ([]record.Session, error)
}
