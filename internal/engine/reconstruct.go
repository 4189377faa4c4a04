package engine

import (
	"log/slog"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// Reconstructor rebuilds the session view for one user-day from its
// event list.
//
// Reconstruct is total: it never fails, whatever the input. Validation
// is the enforcement point for the alternation invariant; by the time
// events reach reconstruction they may still be malformed (direct edits,
// historical data), and the job here is to produce the best sessions the
// log supports while reporting anomalies as warnings.
type Reconstructor struct {
	log *slog.Logger
}

// NewReconstructor creates a Reconstructor that reports anomalies to log.
func NewReconstructor(log *slog.Logger) *Reconstructor {
	if log == nil {
		log = slog.Default()
	}
	return &Reconstructor{log: log}
}

// Reconstruct scans events in chronological order and pairs each
// clock-in with the next clock-out.
//
//   - A clock-in while a start is already open logs a warning and
//     overwrites the open start (last start wins).
//   - A clock-out with no open start logs a warning and emits nothing.
//   - An open start left at the end of the scan becomes the day's single
//     incomplete session.
//
// events must already be sorted by instant; day is the user-day the
// resulting sessions are filed under.
func (r *Reconstructor) Reconstruct(events []record.Event, day localtime.Date) []record.Session {
	var sessions []record.Session
	var open *record.Event

	for i := range events {
		e := &events[i]
		switch e.Kind {
		case record.ClockIn:
			if open != nil {
				r.log.Warn("clock-in while a start is already open, keeping the later start",
					"user", e.UserID, "event", e.ID, "dropped_start", open.ID)
			}
			open = e
		case record.ClockOut:
			if open == nil {
				r.log.Warn("clock-out with no open start, skipping",
					"user", e.UserID, "event", e.ID)
				continue
			}
			sessions = append(sessions, record.CompletedSession(open.At, e.At, day))
			open = nil
		}
	}

	if open != nil {
		sessions = append(sessions, record.OpenSession(open.At, day))
	}
	return sessions
}
