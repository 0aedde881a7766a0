package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matheus3301/bpp/internal/lock"
)

// Environment variables read by Env.
const (
	EnvToken   = "BEEPER_TOKEN"
	EnvBaseURL = "BEEPER_API_URL"
)

// Config represents the global ~/.bpp/config.toml.
type Config struct {
	DefaultProfile string             `toml:"default_profile"`
	LogLevel       string             `toml:"log_level,omitempty"`
	Profiles       map[string]Profile `toml:"profiles,omitempty"`
}

// Profile is one named set of API credentials.
type Profile struct {
	Token   string `toml:"token,omitempty"`
	BaseURL string `toml:"base_url,omitempty"`
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrEmpty is Load, except that a missing file yields an empty config.
func LoadOrEmpty(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return cfg, err
}

// Save writes config to the given path, creating parent dirs as needed. The
// file is replaced by rename so readers never see a partial write.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := f.Chmod(0600); err != nil {
		_ = f.Close()
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Update loads the config at path (empty if missing), applies fn and saves
// the result, holding path+".lock" throughout so concurrent writers do not
// lose each other's changes.
func Update(ctx context.Context, path string, fn func(*Config) error) error {
	lk, err := lock.Wait(ctx, path+".lock", 50*time.Millisecond)
	if err != nil {
		return err
	}
	defer func() { _ = lk.Release() }()

	cfg, err := LoadOrEmpty(path)
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return Save(path, cfg)
}

// Profile returns the named profile and whether it exists.
func (c *Config) Profile(name string) (Profile, bool) {
	p, ok := c.Profiles[name]
	return p, ok
}

// SetProfile adds or replaces a profile.
func (c *Config) SetProfile(name string, p Profile) {
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
	c.Profiles[name] = p
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Env returns credentials taken from BEEPER_TOKEN and BEEPER_API_URL.
func Env() Profile {
	return Profile{
		Token:   os.Getenv(EnvToken),
		BaseURL: os.Getenv(EnvBaseURL),
	}
}
