package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kintai/internal/localtime"
	"kintai/internal/record"
	"kintai/internal/report"
)

// sessionEntry is the JSON form of one session row.
type sessionEntry struct {
	Day     string `json:"day"`
	Start   string `json:"start"`
	End     string `json:"end,omitempty"`
	Minutes int    `json:"minutes,omitempty"`
	Open    bool   `json:"open,omitempty"`
}

func sessionEntries(sessions []record.Session, offset time.Duration) []sessionEntry {
	entries := make([]sessionEntry, len(sessions))
	for i, s := range sessions {
		entries[i] = sessionEntry{
			Day:   s.Day.String(),
			Start: localtime.FormatClock(s.Start, offset),
			Open:  !s.Completed,
		}
		if s.End != nil {
			entries[i].End = localtime.FormatClock(*s.End, offset)
		}
		if s.Minutes != nil {
			entries[i].Minutes = *s.Minutes
		}
	}
	return entries
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report <daily|weekly|monthly>",
		Short: "Summarize work sessions over a period",
		Long: `Summarize work sessions. daily covers today, weekly the current week
starting Monday, monthly the current month starting on the 1st.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			offset := app.Config.Offset()
			today := localtime.Today(offset)

			var r report.Range
			switch args[0] {
			case "daily":
				r = report.DailyRange(today)
			case "weekly":
				r = report.WeeklyRange(today)
			case "monthly":
				r = report.MonthlyRange(today)
			default:
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("unknown period %q: must be daily, weekly, or monthly", args[0]), nil)
			}

			ctx := cmd.Context()
			sessions, err := app.Store.Sessions().ListRange(ctx, app.User, r.From, r.To)
			if err != nil {
				return WrapExitError(ExitCommandError, "list sessions", err)
			}

			if app.Out.Format == "json" {
				totals := report.Summarize(sessions)
				return app.Out.Success(map[string]any{
					"from":          r.From.String(),
					"to":            r.To.String(),
					"total_minutes": totals.Minutes,
					"completed":     totals.Completed,
					"open":          totals.Open,
					"sessions":      sessionEntries(sessions, offset),
				})
			}

			name, err := app.Store.DisplayName(ctx, app.User)
			if err != nil {
				return WrapExitError(ExitCommandError, "report", err)
			}
			return report.Render(cmd.OutOrStdout(), r, name, sessions, offset)
		},
	}
}
