// Command bppctl is a scriptable client for the Beeper Desktop API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheus3301/bpp/beeper"
)

const toolName = "bppctl"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintf(stderr, "hint: %s\n", hint)
		}
		return 1
	}
	return 0
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	profile  string
	token    string
	apiURL   string
	output   string
	logLevel string
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	root := &cobra.Command{
		Use:           toolName,
		Short:         "Talk to Beeper Desktop from the command line",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch o.output {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("invalid --output %q: want text, json or yaml", o.output)
			}
			if o.timeout <= 0 {
				return fmt.Errorf("invalid --timeout %s: must be positive", o.timeout)
			}
			return nil
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&o.profile, "profile", "p", "", "profile name (default from config, else \"main\")")
	f.StringVar(&o.token, "token", "", "API token (overrides BEEPER_TOKEN and the profile)")
	f.StringVar(&o.apiURL, "api-url", "", "API base URL (overrides BEEPER_API_URL and the profile)")
	f.StringVarP(&o.output, "output", "o", formatText, "output format: text, json or yaml")
	f.StringVar(&o.logLevel, "log-level", "", "log level; also mirrors logs to stderr")
	f.DurationVar(&o.timeout, "timeout", 30*time.Second, "deadline for each command")

	root.AddCommand(
		newAccountsCmd(o),
		newChatsCmd(o),
		newMessagesCmd(o),
		newFocusCmd(o),
		newDownloadCmd(o),
		newOverviewCmd(o),
		newLoginCmd(o),
		newProfilesCmd(o),
	)
	return root
}

// hintFor suggests a fix for the errors users can do something about.
func hintFor(err error) string {
	var unreachable *beeper.NotReachableError
	var missing *beeper.MissingFieldError
	switch {
	case errors.As(err, &unreachable):
		return "is Beeper Desktop running? Enable the API under Settings > Developers"
	case errors.Is(err, beeper.ErrUnauthorized):
		return "the token was rejected; run `bppctl login` to store a new one"
	case errors.As(err, &missing) && missing.Field == "token":
		return "run `bppctl login` or set BEEPER_TOKEN"
	case errors.Is(err, context.DeadlineExceeded):
		return "raise --timeout if Beeper Desktop is slow to answer"
	}
	return ""
}
