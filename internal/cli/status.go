package cli

import (
	"time"

	"github.com/spf13/cobra"

	"kintai/internal/localtime"
	"kintai/internal/record"
	"kintai/internal/report"
)

// statusEntry is the JSON form of one logged event.
type statusEntry struct {
	EventID      string `json:"event_id"`
	Kind         string `json:"kind"`
	Time         string `json:"time"`
	Modified     bool   `json:"modified,omitempty"`
	OriginalTime string `json:"original_time,omitempty"`
}

func statusEntries(events []record.Event, offset time.Duration) []statusEntry {
	entries := make([]statusEntry, len(events))
	for i, e := range events {
		entries[i] = statusEntry{
			EventID:  e.ID,
			Kind:     e.Kind.String(),
			Time:     localtime.FormatClock(e.At, offset),
			Modified: e.Modified,
		}
		if e.OriginalAt != nil {
			entries[i].OriginalTime = localtime.FormatClock(*e.OriginalAt, offset)
		}
	}
	return entries
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status [YYYY-MM-DD]",
		Short:         "Show the day's clock actions and running total",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			offset := app.Config.Offset()
			day := localtime.Today(offset)
			if len(args) == 1 {
				if day, err = localtime.ParseDate(args[0]); err != nil {
					return WrapExitError(ExitCommandError, "status", err)
				}
			}

			ctx := cmd.Context()
			events, err := app.Store.ListDay(ctx, app.User, day)
			if err != nil {
				return WrapExitError(ExitCommandError, "list events", err)
			}

			if app.Out.Format == "json" {
				return app.Out.Success(map[string]any{
					"day":    day.String(),
					"events": statusEntries(events, offset),
				})
			}

			name, err := app.Store.DisplayName(ctx, app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "status", err)
			}
			return report.RenderStatus(cmd.OutOrStdout(), day, name, events, offset)
		},
	}
}
