package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{DefaultProfile: "work", LogLevel: "debug"}
	cfg.SetProfile("work", Profile{Token: "tok", BaseURL: "http://127.0.0.1:23373"})
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultProfile != "work" {
		t.Errorf("DefaultProfile = %q, want %q", loaded.DefaultProfile, "work")
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", loaded.LogLevel, "debug")
	}
	p, ok := loaded.Profile("work")
	if !ok {
		t.Fatal("Profile(work) missing after round trip")
	}
	if p.Token != "tok" || p.BaseURL != "http://127.0.0.1:23373" {
		t.Errorf("Profile(work) = %+v", p)
	}
}

func TestLoadProfilesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `default_profile = "main"

[profiles.main]
token = "abc"

[profiles.remote]
token = "def"
base_url = "http://desktop.lan:23373"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Profiles) != 2 {
		t.Fatalf("len(Profiles) = %d, want 2", len(cfg.Profiles))
	}
	if p, _ := cfg.Profile("main"); p.BaseURL != "" {
		t.Errorf("main BaseURL = %q, want empty", p.BaseURL)
	}
	if _, ok := cfg.Profile("missing"); ok {
		t.Error("Profile(missing) reported ok")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}

	cfg, err := LoadOrEmpty("/nonexistent/config.toml")
	if err != nil {
		t.Fatalf("LoadOrEmpty() error = %v", err)
	}
	if cfg.DefaultProfile != "" || cfg.Profiles != nil {
		t.Errorf("LoadOrEmpty() = %+v, want zero config", cfg)
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.toml")

	if err := Save(path, &Config{DefaultProfile: "main"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("BEEPER_TOKEN=from-file\nBEEPER_API_URL=http://file:1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "")
	os.Unsetenv(EnvToken)
	t.Setenv(EnvBaseURL, "http://already-set:2")

	if err := LoadEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	got := Env()
	if got.Token != "from-file" {
		t.Errorf("Token = %q, want %q", got.Token, "from-file")
	}
	if got.BaseURL != "http://already-set:2" {
		t.Errorf("BaseURL = %q, existing variable must win", got.BaseURL)
	}
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	ctx := context.Background()

	err := Update(ctx, path, func(c *Config) error {
		c.SetProfile("main", Profile{Token: "one"})
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	err = Update(ctx, path, func(c *Config) error {
		c.DefaultProfile = "work"
		c.SetProfile("work", Profile{Token: "two"})
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Profiles) != 2 || cfg.DefaultProfile != "work" {
		t.Errorf("config after updates = %+v", cfg)
	}
	if _, err := os.Stat(path + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file left behind: %v", err)
	}
}

func TestUpdateAbortsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	boom := errors.New("boom")

	err := Update(context.Background(), path, func(c *Config) error {
		c.DefaultProfile = "never"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("config written despite callback error")
	}
}

func TestConcurrentUpdatesKeepEveryProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	const writers = 40

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("p%02d", i)
			errs <- Update(context.Background(), path, func(c *Config) error {
				c.SetProfile(name, Profile{Token: name})
				return nil
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Profiles) != writers {
		t.Errorf("len(Profiles) = %d, want %d", len(cfg.Profiles), writers)
	}
	leftovers, _ := filepath.Glob(path + ".tmp-*")
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}
