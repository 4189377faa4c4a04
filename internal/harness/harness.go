package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kintai/internal/engine"
	"kintai/internal/localtime"
	"kintai/internal/record"
	"kintai/internal/store"
)

// Result captures what a scenario run produced.
type Result struct {
	// Labels maps step labels to the IDs of the events they created.
	Labels map[string]string

	// Sessions holds the final session rows for every day the scenario
	// declares expectations about.
	Sessions map[string][]record.Session
}

// Run executes the scenario against a fresh sqlite database and a
// pinned clock. Steps whose Expect names a validation code must be
// rejected with exactly that code; all other steps must be accepted.
// Infrastructure failures abort the run.
func Run(sc *Scenario) (*Result, error) {
	offset := localtime.DefaultOffset
	now, err := time.ParseInLocation("2006-01-02 15:04", sc.Now, time.FixedZone("", int(offset/time.Second)))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: bad now: %w", sc.Name, err)
	}

	dir, err := os.MkdirTemp("", "kintai-harness-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(filepath.Join(dir, "kintai.db"), offset)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: open store: %w", sc.Name, err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.EnsureUser(ctx, sc.User, sc.User); err != nil {
		return nil, fmt.Errorf("scenario %s: ensure user: %w", sc.Name, err)
	}

	svc := engine.NewService(st, st.Sessions(), engine.DefaultPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.Validator().Now = func() time.Time { return now }

	res := &Result{
		Labels:   make(map[string]string),
		Sessions: make(map[string][]record.Session),
	}
	for i, step := range sc.Steps {
		event, err := runStep(ctx, svc, sc.User, step, res.Labels)
		if err := checkOutcome(step, err); err != nil {
			return nil, fmt.Errorf("scenario %s: steps[%d]: %w", sc.Name, i, err)
		}
		if step.Label != "" {
			res.Labels[step.Label] = event.ID
		}
	}

	for dayStr := range sc.Sessions {
		day, err := localtime.ParseDate(dayStr)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: bad sessions day %q: %w", sc.Name, dayStr, err)
		}
		sessions, err := st.Sessions().ListDay(ctx, sc.User, day)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: list sessions: %w", sc.Name, err)
		}
		res.Sessions[dayStr] = sessions
	}
	return res, nil
}

func runStep(ctx context.Context, svc *engine.Service, user string, step Step, labels map[string]string) (record.Event, error) {
	switch step.Op {
	case "in":
		return svc.ClockIn(ctx, user)
	case "out":
		return svc.ClockOut(ctx, user)
	case "add":
		kind, err := record.ParseKind(step.Kind)
		if err != nil {
			return record.Event{}, err
		}
		day, err := localtime.ParseDate(step.Date)
		if err != nil {
			return record.Event{}, err
		}
		return svc.AddEvent(ctx, user, kind, day, step.Time)
	case "edit":
		var day localtime.Date
		if step.Date != "" {
			var err error
			if day, err = localtime.ParseDate(step.Date); err != nil {
				return record.Event{}, err
			}
		}
		return svc.EditEvent(ctx, user, labels[step.Target], day, step.Time)
	case "delete":
		return record.Event{}, svc.DeleteEvent(ctx, user, labels[step.Target])
	case "delete_day":
		day, err := localtime.ParseDate(step.Date)
		if err != nil {
			return record.Event{}, err
		}
		_, err = svc.DeleteDay(ctx, user, day)
		return record.Event{}, err
	default:
		return record.Event{}, fmt.Errorf("unknown op %q", step.Op)
	}
}

// checkOutcome matches the step's actual result against its Expect
// clause. A rejection the scenario did not ask for, an acceptance where
// a rejection was expected, or a mismatched code all fail the run.
func checkOutcome(step Step, err error) error {
	var ve *record.ValidationError
	switch {
	case err == nil:
		if step.Expect != "" {
			return fmt.Errorf("expected rejection %s, step was accepted", step.Expect)
		}
		return nil
	case errors.As(err, &ve):
		if step.Expect == "" {
			return fmt.Errorf("unexpected rejection: %w", err)
		}
		if string(ve.Code) != step.Expect {
			return fmt.Errorf("expected rejection %s, got %s", step.Expect, ve.Code)
		}
		return nil
	default:
		return err
	}
}

// Verify compares the sessions a run produced against the scenario's
// expectations. Order matters: sessions are compared position by
// position within each day.
func Verify(sc *Scenario, res *Result) error {
	offset := localtime.DefaultOffset
	for dayStr, expected := range sc.Sessions {
		actual := res.Sessions[dayStr]
		if len(actual) != len(expected) {
			return fmt.Errorf("scenario %s: day %s: want %d sessions, got %d",
				sc.Name, dayStr, len(expected), len(actual))
		}
		for i, want := range expected {
			got := actual[i]
			if start := localtime.FormatClock(got.Start, offset); start != want.Start {
				return fmt.Errorf("scenario %s: day %s session %d: start %s, want %s",
					sc.Name, dayStr, i, start, want.Start)
			}
			if want.End == "" {
				if got.Completed || got.End != nil {
					return fmt.Errorf("scenario %s: day %s session %d: want open, got completed",
						sc.Name, dayStr, i)
				}
				continue
			}
			if !got.Completed || got.End == nil || got.Minutes == nil {
				return fmt.Errorf("scenario %s: day %s session %d: want completed, got open",
					sc.Name, dayStr, i)
			}
			if end := localtime.FormatClock(*got.End, offset); end != want.End {
				return fmt.Errorf("scenario %s: day %s session %d: end %s, want %s",
					sc.Name, dayStr, i, end, want.End)
			}
			if *got.Minutes != want.Minutes {
				return fmt.Errorf("scenario %s: day %s session %d: minutes %d, want %d",
					sc.Name, dayStr, i, *got.Minutes, want.Minutes)
			}
		}
	}
	return nil
}
