package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matheus3301/bpp/beeper"
)

func newAccountsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the accounts connected to Beeper Desktop",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, e *env, _ []string) error {
			accounts, err := e.client.GetAccounts(ctx)
			if err != nil {
				return err
			}
			return e.out.emit(accounts, func() error {
				rows := make([][]string, 0, len(accounts))
				for _, a := range accounts {
					rows = append(rows, []string{a.AccountID, a.Network, userName(&a.User)})
				}
				return e.out.table([]string{"ACCOUNT", "NETWORK", "USER"}, rows)
			})
		}),
	}
}

// userName picks the most readable identifier a user has.
func userName(u *beeper.User) string {
	for _, s := range []*string{u.FullName, u.Username, u.PhoneNumber, u.Email} {
		if s != nil && *s != "" {
			return *s
		}
	}
	return u.ID
}
