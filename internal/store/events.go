package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// dayRange returns the UTC instant range [start, end) that the
// fixed-offset calendar day covers.
func (s *Store) dayRange(day localtime.Date) (time.Time, time.Time) {
	start := localtime.Combine(day, localtime.TimeOfDay{}, 0, s.offset)
	return start, start.Add(24 * time.Hour)
}

// ListDay returns the user's events for one calendar day, ordered by
// instant ascending.
func (s *Store) ListDay(ctx context.Context, userID string, day localtime.Date) ([]record.Event, error) {
	start, end := s.dayRange(day)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, at, modified, original_at, created_at, updated_at
		FROM events
		WHERE user_id = ? AND at >= ? AND at < ?
		ORDER BY at ASC
	`, userID, formatInstant(start), formatInstant(end))
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []record.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Insert persists a new event with a fresh time-sortable ID.
func (s *Store) Insert(ctx context.Context, userID string, kind record.Kind, at time.Time) (record.Event, error) {
	id := uuid.Must(uuid.NewV7()).String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, user_id, kind, at) VALUES (?, ?, ?, ?)
	`, id, userID, kind.String(), formatInstant(at))
	if err != nil {
		return record.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return s.Get(ctx, id)
}

// Get fetches one event by ID.
func (s *Store) Get(ctx context.Context, id string) (record.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, kind, at, modified, original_at, created_at, updated_at
		FROM events WHERE id = ?
	`, id)
	e, err := scanEvent(row)
	if err != nil {
		return record.Event{}, fmt.Errorf("get event %s: %w", id, err)
	}
	return e, nil
}

// UpdateAt moves an event to a new instant, marking it modified. The
// original instant is captured on the first edit only; later edits keep
// the first captured value.
func (s *Store) UpdateAt(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET at = ?,
		    original_at = CASE WHEN modified THEN original_at ELSE at END,
		    modified = 1,
		    updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?
	`, formatInstant(at), id)
	if err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update event %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// Delete removes one event.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete event %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// DeleteDay removes all of the user's events for one day.
func (s *Store) DeleteDay(ctx context.Context, userID string, day localtime.Date) (int, error) {
	start, end := s.dayRange(day)
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE user_id = ? AND at >= ? AND at < ?
	`, userID, formatInstant(start), formatInstant(end))
	if err != nil {
		return 0, fmt.Errorf("delete day: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete day: %w", err)
	}
	return int(n), nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(sc scanner) (record.Event, error) {
	var (
		e          record.Event
		kind       string
		at         string
		originalAt sql.NullString
		createdAt  string
		updatedAt  string
	)
	if err := sc.Scan(&e.ID, &e.UserID, &kind, &at, &e.Modified, &originalAt, &createdAt, &updatedAt); err != nil {
		return record.Event{}, err
	}

	k, err := record.ParseKind(kind)
	if err != nil {
		return record.Event{}, err
	}
	e.Kind = k

	if e.At, err = parseInstant(at); err != nil {
		return record.Event{}, err
	}
	if originalAt.Valid {
		orig, err := parseInstant(originalAt.String)
		if err != nil {
			return record.Event{}, err
		}
		e.OriginalAt = &orig
	}
	if e.CreatedAt, err = parseInstant(createdAt); err != nil {
		return record.Event{}, err
	}
	if e.UpdatedAt, err = parseInstant(updatedAt); err != nil {
		return record.Event{}, err
	}
	return e, nil
}
