package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kintai/internal/localtime"
)

// Recalculator replaces the derived sessions for a user-day whenever
// that day's event log changes.
//
// The whole operation is serialized per (user, day) key, so two
// concurrent recalculations for the same day cannot interleave their
// delete and insert phases. The session swap itself is a single storage
// transaction.
type Recalculator struct {
	events   EventStore
	sessions SessionStore
	rec      *Reconstructor
	locks    *keyedMutex
	log      *slog.Logger
	offset   time.Duration
}

// NewRecalculator wires the orchestrator over its store collaborators.
func NewRecalculator(events EventStore, sessions SessionStore, log *slog.Logger, offset time.Duration) *Recalculator {
	if log == nil {
		log = slog.Default()
	}
	return &Recalculator{
		events:   events,
		sessions: sessions,
		rec:      NewReconstructor(log),
		locks:    newKeyedMutex(),
		log:      log,
		offset:   offset,
	}
}

// Recalculate rebuilds the stored sessions for (userID, day) from the
// current event log.
func (r *Recalculator) Recalculate(ctx context.Context, userID string, day localtime.Date) error {
	key := dayKey(userID, day)
	r.locks.Lock(key)
	defer r.locks.Unlock(key)
	return r.recalculate(ctx, userID, day)
}

// recalculate is the lock-free body. Callers must hold the day's key.
func (r *Recalculator) recalculate(ctx context.Context, userID string, day localtime.Date) error {
	events, err := r.events.ListDay(ctx, userID, day)
	if err != nil {
		return fmt.Errorf("recalculate %s %s: list events: %w", userID, day, err)
	}

	sessions := r.rec.Reconstruct(events, day)
	if err := r.sessions.Replace(ctx, userID, day, sessions); err != nil {
		return fmt.Errorf("recalculate %s %s: replace sessions: %w", userID, day, err)
	}

	r.log.Debug("sessions recalculated",
		"user", userID, "day", day.String(), "events", len(events), "sessions", len(sessions))
	return nil
}

func dayKey(userID string, day localtime.Date) string {
	return userID + "|" + day.String()
}
