package profile

import (
	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/config"
)

const DefaultProfileName = "main"

// Resolve determines the active profile name using precedence:
// 1. flagOverride (--profile flag)
// 2. config.toml default_profile
// 3. "main"
func Resolve(cfg *config.Config, flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	if cfg != nil && cfg.DefaultProfile != "" {
		return cfg.DefaultProfile
	}
	return DefaultProfileName
}

// Overrides are credentials given on the command line.
type Overrides struct {
	Token   string
	BaseURL string
}

// Credentials picks the token and base URL for a profile. Each value comes
// from the first non-empty source: flag, environment, the profile in cfg,
// and for the base URL finally beeper.DefaultBaseURL. A missing token is a
// *beeper.MissingFieldError for "token".
func Credentials(cfg *config.Config, name string, flags Overrides, env config.Profile) (config.Profile, error) {
	var stored config.Profile
	if cfg != nil {
		stored, _ = cfg.Profile(name)
	}
	creds := config.Profile{
		Token:   firstNonEmpty(flags.Token, env.Token, stored.Token),
		BaseURL: firstNonEmpty(flags.BaseURL, env.BaseURL, stored.BaseURL, beeper.DefaultBaseURL),
	}
	if creds.Token == "" {
		return creds, &beeper.MissingFieldError{Field: "token"}
	}
	return creds, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
