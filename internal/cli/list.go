package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kintai/internal/localtime"
)

// NewListCommand creates the list command. Unlike status it shows raw
// event IDs, which is what edit and delete take.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list [YYYY-MM-DD]",
		Short:         "List the day's events with their IDs",
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
					return WrapExitError(ExitCommandError, "list", err)
				}
			}

			events, err := app.Store.ListDay(cmd.Context(), app.User, day)
			if err != nil {
				return WrapExitError(ExitCommandError, "list events", err)
			}

			if app.Out.Format == "json" {
				return app.Out.Success(map[string]any{
					"day":    day.String(),
					"events": statusEntries(events, offset),
				})
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintf(out, "no events on %s\n", day)
				return nil
			}
			for _, e := range events {
				mark := ""
				if e.Modified {
					mark = " *"
				}
				fmt.Fprintf(out, "%s  %-3s  %s%s\n",
					e.ID, e.Kind, localtime.FormatClock(e.At, offset), mark)
			}
			return nil
		},
	}
}
