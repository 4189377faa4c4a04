package store

import (
	"context"
	"database/sql"
	"fmt"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// SessionView is the session half of the store. It exists as a separate
// type because the event log and the session view both list by day, and
// Store itself carries the event log methods.
type SessionView struct {
	s *Store
}

// Sessions returns the store's session view.
func (s *Store) Sessions() SessionView {
	return SessionView{s: s}
}

// Replace swaps the stored sessions for (user, day) inside a single
// transaction. If anything fails, the previous sessions stay in place.
func (v SessionView) Replace(ctx context.Context, userID string, day localtime.Date, sessions []record.Session) error {
	tx, err := v.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace sessions: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM sessions WHERE user_id = ? AND day = ?
	`, userID, day.String()); err != nil {
		return fmt.Errorf("replace sessions: delete: %w", err)
	}

	for _, sess := range sessions {
		var endAt, minutes any
		if sess.End != nil {
			endAt = formatInstant(*sess.End)
		}
		if sess.Minutes != nil {
			minutes = *sess.Minutes
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sessions (user_id, day, start_at, end_at, minutes, completed)
			VALUES (?, ?, ?, ?, ?, ?)
		`, userID, day.String(), formatInstant(sess.Start), endAt, minutes, sess.Completed); err != nil {
			return fmt.Errorf("replace sessions: insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace sessions: commit: %w", err)
	}
	return nil
}

// ListDay returns the stored sessions for one user-day, ordered by start.
func (v SessionView) ListDay(ctx context.Context, userID string, day localtime.Date) ([]record.Session, error) {
	return v.list(ctx, `
		SELECT day, start_at, end_at, minutes, completed
		FROM sessions
		WHERE user_id = ? AND day = ?
		ORDER BY start_at ASC
	`, userID, day.String())
}

// ListRange returns sessions for the inclusive day range [from, to],
// ordered by day then start.
func (v SessionView) ListRange(ctx context.Context, userID string, from, to localtime.Date) ([]record.Session, error) {
	return v.list(ctx, `
		SELECT day, start_at, end_at, minutes, completed
		FROM sessions
		WHERE user_id = ? AND day >= ? AND day <= ?
		ORDER BY day ASC, start_at ASC
	`, userID, from.String(), to.String())
}

func (v SessionView) list(ctx context.Context, query string, args ...any) ([]record.Session, error) {
	rows, err := v.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []record.Session
	for rows.Next() {
		var (
			sess    record.Session
			day     string
			startAt string
			endAt   sql.NullString
			minutes sql.NullInt64
		)
		if err := rows.Scan(&day, &startAt, &endAt, &minutes, &sess.Completed); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if sess.Day, err = localtime.ParseDate(day); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if sess.Start, err = parseInstant(startAt); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		if endAt.Valid {
			end, err := parseInstant(endAt.String)
			if err != nil {
				return nil, fmt.Errorf("list sessions: %w", err)
			}
			sess.End = &end
		}
		if minutes.Valid {
			m := int(minutes.Int64)
			sess.Minutes = &m
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
