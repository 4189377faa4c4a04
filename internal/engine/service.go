package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// Service is the mutation surface the command layer calls. Every
// accepted mutation follows the same shape: validate the candidate
// against the day's current events, persist it, then rebuild that day's
// sessions. Validation and insert run under the same per-day lock as the
// rebuild, so a concurrent writer cannot invalidate a check between the
// read and the write.
type Service struct {
	validator *Validator
	recalc    *Recalculator
	log       *slog.Logger
}

// NewService assembles the engine over its collaborators.
func NewService(events EventStore, sessions SessionStore, policy Policy, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		validator: NewValidator(policy),
		recalc:    NewRecalculator(events, sessions, log, policy.Offset),
		log:       log,
	}
}

// Validator exposes the validator, mainly so tests and callers can
// substitute the clock.
func (s *Service) Validator() *Validator { return s.validator }

// offset returns the fixed local offset all day grouping uses.
func (s *Service) offset() time.Duration { return s.validator.Policy.Offset }

// ClockIn records a clock-in at the current instant.
func (s *Service) ClockIn(ctx context.Context, userID string) (record.Event, error) {
	return s.clockNow(ctx, userID, record.ClockIn)
}

// ClockOut records a clock-out at the current instant.
func (s *Service) ClockOut(ctx context.Context, userID string) (record.Event, error) {
	return s.clockNow(ctx, userID, record.ClockOut)
}

func (s *Service) clockNow(ctx context.Context, userID string, kind record.Kind) (record.Event, error) {
	at := s.validator.Now().Truncate(time.Minute).UTC()
	day := localtime.DayOf(at, s.offset())
	return s.addLocked(ctx, userID, Candidate{Kind: kind, At: at, Day: day})
}

// AddEvent records a back-dated event. date is the day the user is
// filing against; timeInput accepts ordinary and night-shift forms, the
// latter landing the instant on the following day.
func (s *Service) AddEvent(ctx context.Context, userID string, kind record.Kind, date localtime.Date, timeInput string) (record.Event, error) {
	tod, dayOffset, err := localtime.Parse(timeInput)
	if err != nil {
		return record.Event{}, err
	}
	at := localtime.Combine(date, tod, dayOffset, s.offset())
	c := Candidate{
		Kind:       kind,
		At:         at,
		Day:        localtime.DayOf(at, s.offset()),
		NightShift: dayOffset > 0,
	}
	return s.addLocked(ctx, userID, c)
}

func (s *Service) addLocked(ctx context.Context, userID string, c Candidate) (record.Event, error) {
	key := dayKey(userID, c.Day)
	s.recalc.locks.Lock(key)
	defer s.recalc.locks.Unlock(key)

	existing, err := s.recalc.events.ListDay(ctx, userID, c.Day)
	if err != nil {
		return record.Event{}, fmt.Errorf("add event: list events: %w", err)
	}
	if err := s.validator.Validate(existing, c); err != nil {
		return record.Event{}, err
	}

	event, err := s.recalc.events.Insert(ctx, userID, c.Kind, c.At)
	if err != nil {
		return record.Event{}, fmt.Errorf("add event: %w", err)
	}

	// The event is already committed; a failed rebuild is an operator
	// problem, not a reason to reject the clock action.
	if err := s.recalc.recalculate(ctx, userID, c.Day); err != nil {
		s.log.Error("session recalculation failed after insert",
			"user", userID, "day", c.Day.String(), "error", err)
		return event, err
	}
	return event, nil
}

// EditEvent moves an existing event to a new instant. date overrides the
// day the event is filed against; pass the zero Date to keep the
// event's current day. When the move crosses a day boundary, both the
// old and the new day are rebuilt.
func (s *Service) EditEvent(ctx context.Context, userID, eventID string, date localtime.Date, timeInput string) (record.Event, error) {
	tod, dayOffset, err := localtime.Parse(timeInput)
	if err != nil {
		return record.Event{}, err
	}

	event, err := s.recalc.events.Get(ctx, eventID)
	if err != nil {
		return record.Event{}, fmt.Errorf("edit event: %w", err)
	}
	if event.UserID != userID {
		return record.Event{}, fmt.Errorf("edit event: %s does not belong to %s", eventID, userID)
	}

	oldDay := localtime.DayOf(event.At, s.offset())
	base := date
	if base == (localtime.Date{}) {
		base = oldDay
	}
	at := localtime.Combine(base, tod, dayOffset, s.offset())
	newDay := localtime.DayOf(at, s.offset())

	keys := lockOrder(dayKey(userID, oldDay), dayKey(userID, newDay))
	for _, k := range keys {
		s.recalc.locks.Lock(k)
	}
	defer func() {
		for _, k := range keys {
			s.recalc.locks.Unlock(k)
		}
	}()

	existing, err := s.recalc.events.ListDay(ctx, userID, newDay)
	if err != nil {
		return record.Event{}, fmt.Errorf("edit event: list events: %w", err)
	}
	c := Candidate{
		Kind:       event.Kind,
		At:         at,
		Day:        newDay,
		NightShift: dayOffset > 0,
		ExcludeID:  eventID,
	}
	if err := s.validator.Validate(existing, c); err != nil {
		return record.Event{}, err
	}

	if err := s.recalc.events.UpdateAt(ctx, eventID, at); err != nil {
		return record.Event{}, fmt.Errorf("edit event: %w", err)
	}

	if err := s.recalcDays(ctx, userID, oldDay, newDay); err != nil {
		return record.Event{}, err
	}
	return s.recalc.events.Get(ctx, eventID)
}

// DeleteEvent removes one event and rebuilds its day.
func (s *Service) DeleteEvent(ctx context.Context, userID, eventID string) error {
	event, err := s.recalc.events.Get(ctx, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if event.UserID != userID {
		return fmt.Errorf("delete event: %s does not belong to %s", eventID, userID)
	}
	day := localtime.DayOf(event.At, s.offset())

	key := dayKey(userID, day)
	s.recalc.locks.Lock(key)
	defer s.recalc.locks.Unlock(key)

	if err := s.recalc.events.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if err := s.recalc.recalculate(ctx, userID, day); err != nil {
		s.log.Error("session recalculation failed after delete",
			"user", userID, "day", day.String(), "error", err)
		return err
	}
	return nil
}

// DeleteDay removes all of the user's events for one day and rebuilds
// it (to an empty session set). Returns how many events were removed.
func (s *Service) DeleteDay(ctx context.Context, userID string, day localtime.Date) (int, error) {
	key := dayKey(userID, day)
	s.recalc.locks.Lock(key)
	defer s.recalc.locks.Unlock(key)

	n, err := s.recalc.events.DeleteDay(ctx, userID, day)
	if err != nil {
		return 0, fmt.Errorf("delete day: %w", err)
	}
	if err := s.recalc.recalculate(ctx, userID, day); err != nil {
		s.log.Error("session recalculation failed after bulk delete",
			"user", userID, "day", day.String(), "error", err)
		return n, err
	}
	return n, nil
}

// Recalculate rebuilds one user-day on demand.
func (s *Service) Recalculate(ctx context.Context, userID string, day localtime.Date) error {
	return s.recalc.Recalculate(ctx, userID, day)
}

// recalcDays rebuilds the given days, skipping duplicates. Callers hold
// the keys already.
func (s *Service) recalcDays(ctx context.Context, userID string, days ...localtime.Date) error {
	seen := make(map[localtime.Date]bool, len(days))
	for _, day := range days {
		if seen[day] {
			continue
		}
		seen[day] = true
		if err := s.recalc.recalculate(ctx, userID, day); err != nil {
			s.log.Error("session recalculation failed after edit",
				"user", userID, "day", day.String(), "error", err)
			return err
		}
	}
	return nil
}

// lockOrder deduplicates and orders keys so multi-key holders always
// acquire in the same sequence.
func lockOrder(keys ...string) []string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
