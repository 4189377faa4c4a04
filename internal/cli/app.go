package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"kintai/internal/config"
	"kintai/internal/engine"
	"kintai/internal/record"
	"kintai/internal/store"
)

// App bundles the wiring every command needs: configuration, the open
// store, the engine service, the acting user, and the output formatter.
type App struct {
	Config  *config.Config
	Store   *store.Store
	Service *engine.Service
	User    string
	Out     *Formatter
}

// openApp loads configuration, opens the database, and assembles the
// engine. Callers must Close the returned App.
func openApp(cmd *cobra.Command, opts *RootOptions) (*App, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	user := opts.User
	if user == "" {
		user = os.Getenv("USER")
	}
	if user == "" {
		return nil, WrapExitError(ExitCommandError, "no user: set --user or $USER", nil)
	}

	st, err := store.Open(cfg.Database, cfg.Offset())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}

	policy := engine.Policy{
		MaxPastDays: cfg.Policy.MaxPastDays,
		QuietHours:  cfg.Policy.QuietHours,
		Offset:      cfg.Offset(),
	}
	return &App{
		Config:  cfg,
		Store:   st,
		Service: engine.NewService(st, st.Sessions(), policy, slog.Default()),
		User:    user,
		Out:     &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout()},
	}, nil
}

// Close releases the database.
func (a *App) Close() error { return a.Store.Close() }

// ensureUser registers the acting user before a mutation so the event's
// foreign key has a row to point at.
func (a *App) ensureUser(ctx context.Context) error {
	if err := a.Store.EnsureUser(ctx, a.User, a.User); err != nil {
		return WrapExitError(ExitCommandError, "ensure user", err)
	}
	return nil
}

// report is the common tail for mutating commands: validation
// rejections are rendered for the user and keep their exit code,
// everything else surfaces as a command error with a generic message.
func (a *App) report(err error, message string) error {
	var ve *record.ValidationError
	if errors.As(err, &ve) {
		if werr := a.Out.Reject(ve); werr != nil {
			return werr
		}
		return &ExitError{Code: ExitRejected, Message: ve.Message, Quiet: true}
	}
	return WrapExitError(ExitCommandError, message, err)
}
