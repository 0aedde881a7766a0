// Package bootstrap wires configuration, logging and the API client together
// for the command-line tools.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/bus"
	"github.com/matheus3301/bpp/internal/config"
	"github.com/matheus3301/bpp/internal/logging"
	"github.com/matheus3301/bpp/internal/profile"
	"github.com/matheus3301/bpp/internal/status"
)

// Params holds what the command line decided before the graph is built.
type Params struct {
	Tool      string
	Profile   string
	Overrides profile.Overrides
	LogLevel  string
	// Stderr mirrors logs to stderr. Off for the TUI.
	Stderr bool

	// Optional overrides for testing; empty = use defaults under ~/.bpp.
	ConfigPath string
	LogPath    string
	EnvFiles   []string
}

// Session is the resolved profile and the credentials it runs with.
type Session struct {
	Name        string
	Credentials config.Profile
}

// Module returns the fx module shared by bppctl and bpptui.
func Module(p Params) fx.Option {
	return fx.Module("bpp",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideSession,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideClient,
		),
		fx.Invoke(registerLifecycle),
	)
}

// FxLogger routes fx's own events into the application log at debug level.
func FxLogger(logger *zap.Logger) fxevent.Logger {
	l := &fxevent.ZapLogger{Logger: logger.Named("fx")}
	l.UseLogLevel(zapcore.DebugLevel)
	return l
}

func (p Params) configPath() string {
	if p.ConfigPath != "" {
		return p.ConfigPath
	}
	return profile.ConfigPath()
}

func provideConfig(p Params) (*config.Config, error) {
	if err := config.LoadEnv(p.EnvFiles...); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadOrEmpty(p.configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideSession(p Params, cfg *config.Config) (*Session, error) {
	name := profile.Resolve(cfg, p.Profile)
	if err := profile.ValidateName(name); err != nil {
		return nil, err
	}
	creds, err := profile.Credentials(cfg, name, p.Overrides, config.Env())
	if err != nil {
		return nil, fmt.Errorf("profile %q has no API token (run `bppctl login` or set %s): %w", name, config.EnvToken, err)
	}
	return &Session{Name: name, Credentials: creds}, nil
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	level := p.LogLevel
	if level == "" {
		level = cfg.LogLevel
	}
	path := p.LogPath
	if path == "" {
		if err := profile.EnsureDir(); err != nil {
			return nil, fmt.Errorf("create %s: %w", profile.BaseDir(), err)
		}
		path = profile.LogPath(p.Tool)
	}
	return logging.New(logging.Options{
		Path:    path,
		Profile: profile.Resolve(cfg, p.Profile),
		Level:   level,
		Stderr:  p.Stderr,
	})
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideClient(p Params, s *Session, logger *zap.Logger) *beeper.Client {
	logger.Info("using Beeper API",
		zap.String("profile", s.Name),
		zap.String("base_url", s.Credentials.BaseURL),
	)
	return beeper.New(s.Credentials.Token, s.Credentials.BaseURL,
		beeper.WithLogger(logger.Named("beeper")),
		beeper.WithUserAgent(p.Tool),
	)
}

func registerLifecycle(lc fx.Lifecycle, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
}
