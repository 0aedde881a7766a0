package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/config"
	"github.com/matheus3301/bpp/internal/profile"
)

func newLoginCmd(o *rootOptions) *cobra.Command {
	var makeDefault bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify an API token and store it in a profile",
		Long: "Verify an API token and store it in a profile of ~/.bpp/config.toml.\n" +
			"Create the token in Beeper Desktop under Settings > Developers. It is read\n" +
			"from --token, else prompted for on a terminal, else read from stdin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token := o.token
			if token == "" {
				var err error
				if token, err = readToken(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			e, err := o.newEnv(cmd, profile.Overrides{Token: token, BaseURL: o.apiURL})
			if err != nil {
				return err
			}
			defer e.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()
			accounts, err := e.client.GetAccounts(ctx)
			if err != nil {
				return fmt.Errorf("verify token: %w", err)
			}

			name := e.session.Name
			err = config.Update(ctx, profile.ConfigPath(), func(cfg *config.Config) error {
				stored, _ := cfg.Profile(name)
				stored.Token = token
				// Keep the URL the token was verified against, wherever it came from.
				if base := e.session.Credentials.BaseURL; base != beeper.DefaultBaseURL || stored.BaseURL != "" {
					stored.BaseURL = base
				}
				cfg.SetProfile(name, stored)
				if cfg.DefaultProfile == "" || makeDefault {
					cfg.DefaultProfile = name
				}
				return nil
			})
			if err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			e.logger.Info("stored token", zap.String("profile", name), zap.Int("accounts", len(accounts)))
			return e.out.line("Logged in to profile %q (%d accounts)", name, len(accounts))
		},
	}
	cmd.Flags().BoolVar(&makeDefault, "default", false, "make this the default profile")
	return cmd
}

// readToken prompts without echo when in is a terminal and otherwise reads
// the first line of in.
func readToken(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Beeper API token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return nonEmptyToken(string(b))
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}
	return nonEmptyToken(line)
}

func nonEmptyToken(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("no token given")
	}
	return s, nil
}
