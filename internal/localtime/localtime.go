package localtime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultOffset is the fixed local offset attendance is filed under
// when no configuration overrides it (UTC+9).
const DefaultOffset = 9 * time.Hour

// TimeOfDay is a wall-clock time with no date attached.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// String renders the time as HH:MM, or HH:MM:SS when seconds are present.
func (t TimeOfDay) String() string {
	if t.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	if t.Minute != other.Minute {
		return t.Minute < other.Minute
	}
	return t.Second < other.Second
}

// After reports whether t is later in the day than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return other.Before(t)
}

// ParseError reports malformed time or date input. It is always safe to
// show the message to the end user verbatim.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// Parse parses a wall-clock time in HH:MM or HH:MM:SS form.
//
// Hours 24-47 are accepted as night-shift input: "25:10" normalizes to
// 01:10 with a returned day offset of 1, meaning the instant belongs to
// the day after the date the user is filing against. Ordinary input
// returns a day offset of 0.
func Parse(input string) (TimeOfDay, int, error) {
	s := strings.TrimSpace(input)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, 0, &ParseError{Input: input, Reason: "expected HH:MM (00:00-47:59 for night shifts)"}
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, 0, &ParseError{Input: input, Reason: "hour is not a number"}
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, 0, &ParseError{Input: input, Reason: "minute is not a number"}
	}
	second := 0
	if len(parts) == 3 {
		second, err = strconv.Atoi(parts[2])
		if err != nil {
			return TimeOfDay{}, 0, &ParseError{Input: input, Reason: "second is not a number"}
		}
	}

	if minute < 0 || minute > 59 || second < 0 || second > 59 {
		return TimeOfDay{}, 0, &ParseError{Input: input, Reason: "minute and second must be 00-59"}
	}

	switch {
	case hour >= 0 && hour < 24:
		return TimeOfDay{Hour: hour, Minute: minute, Second: second}, 0, nil
	case hour >= 24 && hour < 48:
		// Night shift: 25:10 is 01:10 on the next day.
		return TimeOfDay{Hour: hour - 24, Minute: minute, Second: second}, 1, nil
	default:
		return TimeOfDay{}, 0, &ParseError{Input: input, Reason: "hour must be 00-47"}
	}
}

// Combine builds an absolute UTC instant from a date, a wall-clock time,
// a day offset from Parse, and the fixed local offset the date is
// expressed in.
func Combine(d Date, t TimeOfDay, dayOffset int, offset time.Duration) time.Time {
	d = d.AddDays(dayOffset)
	loc := fixedZone(offset)
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, t.Second, 0, loc).UTC()
}

// DayOf returns the calendar day the instant falls on under the fixed
// local offset. This is the single source of truth for day grouping;
// do not re-derive it elsewhere.
func DayOf(instant time.Time, offset time.Duration) Date {
	return DateOf(instant.In(fixedZone(offset)))
}

// TimeOfDayOf returns the wall-clock time of the instant under the fixed
// local offset.
func TimeOfDayOf(instant time.Time, offset time.Duration) TimeOfDay {
	local := instant.In(fixedZone(offset))
	return TimeOfDay{Hour: local.Hour(), Minute: local.Minute(), Second: local.Second()}
}

// Today returns the current day under the fixed offset.
func Today(offset time.Duration) Date {
	return DayOf(time.Now(), offset)
}

// FormatMinutes renders a duration in whole minutes as "7h30m", or "45m"
// when it is under an hour.
func FormatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatClock renders the instant as HH:MM under the fixed local offset.
func FormatClock(instant time.Time, offset time.Duration) string {
	local := instant.In(fixedZone(offset))
	return local.Format("15:04")
}

func fixedZone(offset time.Duration) *time.Location {
	return time.FixedZone("", int(offset/time.Second))
}
