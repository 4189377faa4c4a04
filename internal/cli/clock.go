package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// eventResult is the command output for an accepted clock action.
type eventResult struct {
	EventID string `json:"event_id"`
	Kind    string `json:"kind"`
	Day     string `json:"day"`
	Time    string `json:"time"`
}

func newEventResult(e record.Event, offset time.Duration) eventResult {
	return eventResult{
		EventID: e.ID,
		Kind:    e.Kind.String(),
		Day:     localtime.DayOf(e.At, offset).String(),
		Time:    localtime.FormatClock(e.At, offset),
	}
}

func (r eventResult) String() string {
	verb := "clocked in"
	if r.Kind == "out" {
		verb = "clocked out"
	}
	return fmt.Sprintf("%s %s %s (%s)", verb, r.Day, r.Time, r.EventID)
}

// NewInCommand creates the in command.
func NewInCommand(rootOpts *RootOptions) *cobra.Command {
	return newClockCommand(rootOpts, record.ClockIn, "in [HH:MM]", "Clock in")
}

// NewOutCommand creates the out command.
func NewOutCommand(rootOpts *RootOptions) *cobra.Command {
	return newClockCommand(rootOpts, record.ClockOut, "out [HH:MM]", "Clock out")
}

// newClockCommand builds in/out, which differ only in the event kind.
// Without an argument the action is stamped now; with one it is filed
// against today at the given time (night-shift hours allowed).
func newClockCommand(rootOpts *RootOptions, kind record.Kind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if err := app.ensureUser(ctx); err != nil {
				return err
			}

			var event record.Event
			if len(args) == 1 {
				today := localtime.Today(app.Config.Offset())
				event, err = app.Service.AddEvent(ctx, app.User, kind, today, args[0])
			} else if kind == record.ClockIn {
				event, err = app.Service.ClockIn(ctx, app.User)
			} else {
				event, err = app.Service.ClockOut(ctx, app.User)
			}
			if err != nil {
				return app.report(err, "record event")
			}
			return app.Out.Success(newEventResult(event, app.Config.Offset()))
		},
	}
}
