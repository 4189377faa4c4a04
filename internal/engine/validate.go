package engine

import (
	"fmt"
	"sort"
	"time"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// Quiet-hours window rejected as implausible input, [start, end) in local
// wall-clock hours.
const (
	quietHourStart = 2
	quietHourEnd   = 5
)

// Policy is the configurable part of validation.
type Policy struct {
	// MaxPastDays is how far back-dated insertions may reach.
	MaxPastDays int

	// QuietHours rejects wall-clock times in [02:00, 05:00) unless the
	// candidate was entered as a night-shift time. Night-shift input is
	// the one legitimate way to land in that window, so it is exempt.
	QuietHours bool

	// Offset is the fixed local offset days are filed under.
	Offset time.Duration
}

// DefaultPolicy matches the observed deployment: UTC+9, one week of
// back-dating, quiet hours enforced.
func DefaultPolicy() Policy {
	return Policy{MaxPastDays: 7, QuietHours: true, Offset: localtime.DefaultOffset}
}

// Candidate is a proposed new or edited event.
type Candidate struct {
	Kind record.Kind

	// At is the absolute UTC instant being proposed.
	At time.Time

	// Day is the calendar day the event is filed against.
	Day localtime.Date

	// NightShift marks input entered in extended 24-47 hour form.
	NightShift bool

	// ExcludeID skips one existing event during the duplicate check.
	// Set when validating an edit against the event being edited.
	ExcludeID string
}

// Validator decides whether a candidate event may join an existing
// user-day. It performs no I/O; callers supply the current event list.
type Validator struct {
	Policy Policy

	// Now is injectable for tests. Defaults to time.Now.
	Now func() time.Time
}

// NewValidator creates a Validator with the given policy.
func NewValidator(policy Policy) *Validator {
	return &Validator{Policy: policy, Now: time.Now}
}

// Validate runs the three checks in order, stopping at the first
// failure: reasonableness of the instant, duplicate instants, and the
// alternation invariant over the would-be event sequence. A nil return
// means the candidate may be inserted.
func (v *Validator) Validate(existing []record.Event, c Candidate) error {
	if err := v.checkReasonable(c); err != nil {
		return err
	}
	if err := v.checkNoDuplicate(existing, c); err != nil {
		return err
	}
	return checkAlternation(existing, c)
}

func (v *Validator) checkReasonable(c Candidate) error {
	now := v.Now()
	today := localtime.DayOf(now, v.Policy.Offset)

	if c.Day.After(today) {
		return record.NewValidationError(record.ErrCodeFutureDate,
			"cannot record against a future date")
	}

	tod := localtime.TimeOfDayOf(c.At, v.Policy.Offset)
	if c.Day == today {
		if tod.After(localtime.TimeOfDayOf(now, v.Policy.Offset)) {
			return record.NewValidationError(record.ErrCodeFutureTimeToday,
				"cannot record a future time")
		}
	}

	if today.DaysSince(c.Day) > v.Policy.MaxPastDays {
		return record.NewValidationError(record.ErrCodeTooFarInPast,
			fmt.Sprintf("cannot record more than %d days in the past", v.Policy.MaxPastDays))
	}

	if v.Policy.QuietHours && !c.NightShift &&
		tod.Hour >= quietHourStart && tod.Hour < quietHourEnd {
		return record.NewValidationError(record.ErrCodeImplausibleHour,
			fmt.Sprintf("times between %02d:00 and %02d:00 need night-shift form (e.g. 27:30)",
				quietHourStart, quietHourEnd))
	}

	return nil
}

func (v *Validator) checkNoDuplicate(existing []record.Event, c Candidate) error {
	for _, e := range existing {
		if c.ExcludeID != "" && e.ID == c.ExcludeID {
			continue
		}
		if e.At.Equal(c.At) {
			return record.NewValidationError(record.ErrCodeDuplicateInstant,
				fmt.Sprintf("an event already exists at %s", localtime.FormatClock(c.At, v.Policy.Offset)))
		}
	}
	return nil
}

// checkAlternation inserts the candidate at its time-sorted position and
// verifies the full sequence strictly alternates in, out, in, ...
// starting with a clock-in.
//
// One exception: a night-shift clock-out that sorts to the front of its
// day is closing the previous day's open shift, not starting this one,
// so the leading-clock-out rejection does not apply to it. The same
// goes for an existing event leading the day with a clock-out: it can
// only have been accepted through this exemption, so later candidates
// must not trip over it. The rest of the sequence still has to
// alternate from a clock-in.
func checkAlternation(existing []record.Event, c Candidate) error {
	kinds := make([]record.Kind, 0, len(existing)+1)
	instants := make([]time.Time, 0, len(existing)+1)
	for _, e := range existing {
		if c.ExcludeID != "" && e.ID == c.ExcludeID {
			continue
		}
		kinds = append(kinds, e.Kind)
		instants = append(instants, e.At)
	}

	pos := sort.Search(len(instants), func(i int) bool {
		return instants[i].After(c.At)
	})
	kinds = append(kinds[:pos], append([]record.Kind{c.Kind}, kinds[pos:]...)...)

	start := 0
	if len(kinds) > 0 && kinds[0] == record.ClockOut {
		if pos != 0 || c.NightShift {
			start = 1
		}
	}

	if len(kinds) > start && kinds[start] == record.ClockOut {
		return record.NewAlternationError("clock-out with no preceding clock-in", start+1)
	}
	for i := start + 1; i < len(kinds); i++ {
		if kinds[i] != kinds[i-1] {
			continue
		}
		switch kinds[i] {
		case record.ClockIn:
			return record.NewAlternationError("clock-in follows clock-in with no clock-out between", i+1)
		case record.ClockOut:
			return record.NewAlternationError("clock-out follows clock-out with no clock-in between", i+1)
		}
	}
	return nil
}
