package record

import (
	"fmt"
	"time"

	"kintai/internal/localtime"
)

// Kind is the closed set of event kinds. Keeping it a two-variant enum
// (rather than a string tag) lets the alternation and reconstruction
// switches be exhaustive.
type Kind int

const (
	// ClockIn marks the start of a work interval.
	ClockIn Kind = iota
	// ClockOut marks the end of a work interval.
	ClockOut
)

// String returns the storage representation of the kind.
func (k Kind) String() string {
	switch k {
	case ClockIn:
		return "in"
	case ClockOut:
		return "out"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a storage or CLI token to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "in", "start":
		return ClockIn, nil
	case "out", "end":
		return ClockOut, nil
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event is one instantaneous clock action.
//
// At is immutable except through an explicit edit, which sets Modified
// and captures OriginalAt the first time only. Later edits keep the
// first captured original.
type Event struct {
	ID         string
	UserID     string
	Kind       Kind
	At         time.Time // UTC
	Modified   bool
	OriginalAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Session is a derived work interval for one user-day. End and Minutes
// are set together: a session either has both (completed) or neither
// (still open).
type Session struct {
	Start     time.Time // UTC
	End       *time.Time
	Minutes   *int
	Completed bool
	Day       localtime.Date
}

// CompletedSession builds a closed interval with its duration in whole
// minutes.
func CompletedSession(start, end time.Time, day localtime.Date) Session {
	minutes := int(end.Sub(start) / time.Minute)
	return Session{
		Start:     start,
		End:       &end,
		Minutes:   &minutes,
		Completed: true,
		Day:       day,
	}
}

// OpenSession builds an interval that has started but not yet ended.
func OpenSession(start time.Time, day localtime.Date) Session {
	return Session{Start: start, Day: day}
}
