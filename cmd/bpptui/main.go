// Command bpptui is an interactive terminal client for Beeper Desktop.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/dig"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/bootstrap"
	"github.com/matheus3301/bpp/internal/bus"
	"github.com/matheus3301/bpp/internal/profile"
	"github.com/matheus3301/bpp/internal/status"
	"github.com/matheus3301/bpp/internal/tui"
	"github.com/matheus3301/bpp/internal/tui/model"
)

type options struct {
	profile  string
	token    string
	apiURL   string
	logLevel string
	refresh  time.Duration
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("bpptui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.profile, "profile", "", "profile name (overrides config default)")
	fs.StringVar(&o.token, "token", "", "API token (overrides BEEPER_TOKEN and the profile)")
	fs.StringVar(&o.apiURL, "api-url", "", "API base URL (overrides BEEPER_API_URL and the profile)")
	fs.StringVar(&o.logLevel, "log-level", "", "log level for ~/.bpp/logs/bpptui.log")
	fs.DurationVar(&o.refresh, "refresh", tui.DefaultRefreshInterval, "how often to refresh the chat list")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.refresh <= 0 {
		return nil, fmt.Errorf("invalid --refresh %s: must be positive", o.refresh)
	}
	return &o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	var (
		client  *beeper.Client
		session *bootstrap.Session
		machine *status.Machine
		events  *bus.Bus
		logger  *zap.Logger
	)
	app := fx.New(
		fx.WithLogger(bootstrap.FxLogger),
		bootstrap.Module(bootstrap.Params{
			Tool:      "bpptui",
			Profile:   opts.profile,
			Overrides: profile.Overrides{Token: opts.token, BaseURL: opts.apiURL},
			LogLevel:  opts.logLevel,
		}),
		fx.Populate(&client, &session, &machine, &events, &logger),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", dig.RootCause(err))
		os.Exit(1)
	}

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ui := tui.NewApp(model.NewViewModel(client, machine, events), machine, events, logger, tui.Options{
		Profile:         session.Name,
		BaseURL:         session.Credentials.BaseURL,
		RefreshInterval: opts.refresh,
	})
	runErr := ui.Run()
	_ = app.Stop(ctx)
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
