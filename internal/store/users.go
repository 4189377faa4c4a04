package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EnsureUser creates the user row for handle if it does not exist and
// keeps the display name current. Safe to call on every command.
func (s *Store) EnsureUser(ctx context.Context, handle, displayName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (handle, display_name) VALUES (?, ?)
		ON CONFLICT(handle) DO UPDATE SET display_name = excluded.display_name
	`, handle, displayName)
	if err != nil {
		return fmt.Errorf("ensure user %s: %w", handle, err)
	}
	return nil
}

// DisplayName returns the user's display name, falling back to the
// handle when the user has never been registered.
func (s *Store) DisplayName(ctx context.Context, handle string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT display_name FROM users WHERE handle = ?`, handle).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return handle, nil
	}
	if err != nil {
		return "", fmt.Errorf("display name %s: %w", handle, err)
	}
	return name, nil
}
