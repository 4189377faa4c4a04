package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kintai/internal/localtime"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	All  bool
	Date string
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete [event-id]",
		Short: "Delete an event, or a whole day with --all",
		Long: `Delete one event by ID, or every event on one day with --all --date.
The affected day's sessions are rebuilt afterwards.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.All == (len(args) == 1) {
				return WrapExitError(ExitCommandError, "delete takes either an event ID or --all --date, not both", nil)
			}

			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx := cmd.Context()

			if opts.All {
				if opts.Date == "" {
					return WrapExitError(ExitCommandError, "--all requires --date", nil)
				}
				day, err := localtime.ParseDate(opts.Date)
				if err != nil {
					return WrapExitError(ExitCommandError, "delete", err)
				}
				n, err := app.Service.DeleteDay(ctx, app.User, day)
				if err != nil {
					return app.report(err, "delete day")
				}
				return app.Out.Success(fmt.Sprintf("deleted %d events on %s", n, day))
			}

			if err := app.Service.DeleteEvent(ctx, app.User, args[0]); err != nil {
				return app.report(err, "delete event")
			}
			return app.Out.Success(fmt.Sprintf("deleted %s", args[0]))
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "delete every event on --date")
	cmd.Flags().StringVar(&opts.Date, "date", "", "day to delete (YYYY-MM-DD), with --all")

	return cmd
}
