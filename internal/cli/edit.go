package cli

import (
	"github.com/spf13/cobra"

	"kintai/internal/localtime"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Date string
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <event-id> <HH:MM>",
		Short: "Move an event to a new time",
		Long: `Move an existing event to a new time. The event keeps its day unless
--date moves it; either way the affected days' sessions are rebuilt and
the event is marked as modified, keeping its first recorded time.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var day localtime.Date
			if opts.Date != "" {
				var err error
				if day, err = localtime.ParseDate(opts.Date); err != nil {
					return WrapExitError(ExitCommandError, "edit", err)
				}
			}

			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			event, err := app.Service.EditEvent(cmd.Context(), app.User, args[0], day, args[1])
			if err != nil {
				return app.report(err, "edit event")
			}
			return app.Out.Success(newEventResult(event, app.Config.Offset()))
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "move the event to this day (YYYY-MM-DD)")

	return cmd
}
