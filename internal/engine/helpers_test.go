package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// memStore is an in-memory EventStore + SessionStore for engine tests.
// Replace is atomic: when failReplace is set it returns an error without
// touching the stored sessions, matching the contract the SQLite store
// provides with a transaction.
type memStore struct {
	mu       sync.Mutex
	nextID   int
	events   map[string]record.Event
	sessions map[string][]record.Session // keyed by user|day

	failReplace  bool
	replaceCalls []string // user|day, in call order
}

func newMemStore() *memStore {
	return &memStore{
		events:   make(map[string]record.Event),
		sessions: make(map[string][]record.Session),
	}
}

func (m *memStore) ListDay(_ context.Context, userID string, day localtime.Date) ([]record.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []record.Event
	for _, e := range m.events {
		if e.UserID == userID && localtime.DayOf(e.At, localtime.DefaultOffset) == day {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

func (m *memStore) Insert(_ context.Context, userID string, kind record.Kind, at time.Time) (record.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e := record.Event{
		ID:     fmt.Sprintf("ev-%d", m.nextID),
		UserID: userID,
		Kind:   kind,
		At:     at,
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *memStore) Get(_ context.Context, id string) (record.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return record.Event{}, fmt.Errorf("event %s not found", id)
	}
	return e, nil
}

func (m *memStore) UpdateAt(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return fmt.Errorf("event %s not found", id)
	}
	if !e.Modified {
		orig := e.At
		e.OriginalAt = &orig
		e.Modified = true
	}
	e.At = at
	m.events[id] = e
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return fmt.Errorf("event %s not found", id)
	}
	delete(m.events, id)
	return nil
}

func (m *memStore) DeleteDay(_ context.Context, userID string, day localtime.Date) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.events {
		if e.UserID == userID && localtime.DayOf(e.At, localtime.DefaultOffset) == day {
			delete(m.events, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) Replace(_ context.Context, userID string, day localtime.Date, sessions []record.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := userID + "|" + day.String()
	m.replaceCalls = append(m.replaceCalls, key)
	if m.failReplace {
		return fmt.Errorf("replace %s: injected failure", key)
	}
	m.sessions[key] = append([]record.Session(nil), sessions...)
	return nil
}

func (m *memStore) listDaySessions(_ context.Context, userID string, day localtime.Date) ([]record.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID+"|"+day.String()], nil
}

func (m *memStore) ListRange(_ context.Context, userID string, from, to localtime.Date) ([]record.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []record.Session
	for d := from; !d.After(to); d = d.AddDays(1) {
		out = append(out, m.sessions[userID+"|"+d.String()]...)
	}
	return out, nil
}

// sessionsFor reads the stored sessions for a user-day directly.
func (m *memStore) sessionsFor(userID string, day localtime.Date) []record.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID+"|"+day.String()]
}

// sessionStore adapts memStore to the SessionStore interface (its
// ListDay name collides with the EventStore method).
type sessionStore struct{ *memStore }

func (s sessionStore) ListDay(ctx context.Context, userID string, day localtime.Date) ([]record.Session, error) {
	return s.memStore.listDaySessions(ctx, userID, day)
}

// jst builds a UTC instant from JST wall-clock components.
func jst(year int, month time.Month, day, hour, min int) time.Time {
	d := localtime.Date{Year: year, Month: month, Day: day}
	t := localtime.TimeOfDay{Hour: hour, Minute: min}
	return localtime.Combine(d, t, 0, localtime.DefaultOffset)
}

// mkEvents builds an ordered event list from (kind, instant) pairs.
func mkEvents(userID string, pairs ...any) []record.Event {
	var out []record.Event
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, record.Event{
			ID:     fmt.Sprintf("ev-%d", i/2+1),
			UserID: userID,
			Kind:   pairs[i].(record.Kind),
			At:     pairs[i+1].(time.Time),
		})
	}
	return out
}
