package cli

import (
	"github.com/spf13/cobra"

	"kintai/internal/localtime"
	"kintai/internal/record"
)

// NewAddCommand creates the add command for back-dated events.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <in|out> <YYYY-MM-DD> <HH:MM>",
		Short: "Record a back-dated clock action",
		Long: `Record a clock action against an earlier day. Hours 24:00-47:59 file
a night shift: "26:30" on 2024-03-15 means 02:30 the following morning.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := record.ParseKind(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "add", err)
			}
			day, err := localtime.ParseDate(args[1])
			if err != nil {
				return WrapExitError(ExitCommandError, "add", err)
			}

			app, err := openApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			if err := app.ensureUser(ctx); err != nil {
				return err
			}

			event, err := app.Service.AddEvent(ctx, app.User, kind, day, args[2])
			if err != nil {
				return app.report(err, "add event")
			}
			return app.Out.Success(newEventResult(event, app.Config.Offset()))
		},
	}
}
