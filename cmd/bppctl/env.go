package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/bootstrap"
	"github.com/matheus3301/bpp/internal/profile"
)

// env is what a command needs once the fx graph is built.
type env struct {
	client  *beeper.Client
	session *bootstrap.Session
	logger  *zap.Logger
	out     *printer

	app *fx.App
}

func (o *rootOptions) params(overrides profile.Overrides) bootstrap.Params {
	return bootstrap.Params{
		Tool:      toolName,
		Profile:   o.profile,
		Overrides: overrides,
		LogLevel:  o.logLevel,
		Stderr:    o.logLevel != "",
	}
}

func (o *rootOptions) newEnv(cmd *cobra.Command, overrides profile.Overrides) (*env, error) {
	e := &env{out: newPrinter(cmd.OutOrStdout(), o.output)}
	e.app = fx.New(
		fx.WithLogger(bootstrap.FxLogger),
		bootstrap.Module(o.params(overrides)),
		fx.Populate(&e.client, &e.session, &e.logger),
	)
	if err := e.app.Err(); err != nil {
		return nil, dig.RootCause(err)
	}
	if err := e.app.Start(cmd.Context()); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *env) close() {
	_ = e.app.Stop(context.Background())
}

type runFunc func(ctx context.Context, e *env, args []string) error

// run adapts fn into a cobra RunE: it builds the env from the flag overrides
// and bounds fn by --timeout.
func (o *rootOptions) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := o.newEnv(cmd, profile.Overrides{Token: o.token, BaseURL: o.apiURL})
		if err != nil {
			return err
		}
		defer e.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
		defer cancel()
		if err := fn(ctx, e, args); err != nil {
			e.logger.Warn("command failed", zap.String("command", cmd.CommandPath()), zap.Error(err))
			return err
		}
		return nil
	}
}
