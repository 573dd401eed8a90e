package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/tillpoint/internal/auth"
)

func tokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer tokens for development and scripts",
	}

	var (
		companyID int64
		userID    int64
		role      string
	)

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Print a signed token for a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := auth.Role(role)

			switch r {
			case auth.RoleCashier, auth.RoleManager, auth.RoleOwner:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			tokens := auth.NewTokens(a.cfg.Auth.Secret, a.cfg.Auth.Issuer, a.cfg.Auth.TokenTTL)

			raw, err := tokens.Issue(companyID, userID, r)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), raw)

			return nil
		},
	}

	issue.Flags().Int64Var(&companyID, "company", 0, "company the token is scoped to")
	issue.Flags().Int64Var(&userID, "user", 0, "user id recorded in the token")
	issue.Flags().StringVar(&role, "role", string(auth.RoleManager), "cashier, manager or owner")
	_ = issue.MarkFlagRequired("company")

	cmd.AddCommand(issue)

	return cmd
}
