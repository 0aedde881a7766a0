package main

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/config"
	"github.com/matheus3301/bpp/internal/profile"
)

func newProfilesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "Manage stored profiles",
	}
	cmd.AddCommand(newProfilesListCmd(o), newProfilesUseCmd())
	return cmd
}

// profileEntry is one row of `profiles list`. Tokens are always masked.
type profileEntry struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
	BaseURL string `json:"baseURL"`
	Token   string `json:"token"`
}

func newProfilesListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles in ~/.bpp/config.toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadOrEmpty(profile.ConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			active := profile.Resolve(cfg, "")
			entries := []profileEntry{}
			for name, p := range cfg.Profiles {
				baseURL := p.BaseURL
				if baseURL == "" {
					baseURL = beeper.DefaultBaseURL
				}
				entries = append(entries, profileEntry{
					Name:    name,
					Default: name == active,
					BaseURL: baseURL,
					Token:   maskToken(p.Token),
				})
			}
			slices.SortFunc(entries, func(a, b profileEntry) int {
				return cmp.Compare(a.Name, b.Name)
			})

			out := newPrinter(cmd.OutOrStdout(), o.output)
			return out.emit(entries, func() error {
				if len(entries) == 0 {
					return out.line("No profiles yet; run `bppctl login`")
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					mark := ""
					if e.Default {
						mark = "*"
					}
					rows = append(rows, []string{mark, e.Name, e.BaseURL, e.Token})
				}
				return out.table([]string{"", "PROFILE", "API", "TOKEN"}, rows)
			})
		},
	}
}

func newProfilesUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := profile.ValidateName(name); err != nil {
				return err
			}
			err := config.Update(cmd.Context(), profile.ConfigPath(), func(cfg *config.Config) error {
				if _, ok := cfg.Profile(name); !ok {
					return fmt.Errorf("profile %q not found", name)
				}
				cfg.DefaultProfile = name
				return nil
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Default profile is now %q\n", name)
			return err
		},
	}
}

// maskToken keeps just enough of a token to tell profiles apart.
func maskToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 8:
		return "****"
	default:
		return token[:4] + "…" + token[len(token)-4:]
	}
}
