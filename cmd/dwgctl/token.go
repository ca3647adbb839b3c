package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dwg-dashboard/internal/adapters/driven/auth"
	"github.com/custodia-labs/dwg-dashboard/internal/core/services"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     int64
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API bearer token",
		Long:  `Signs a token with JWT_SECRET for use against a server started with the same secret.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			authService := services.NewAuthService(auth.NewAdapter(secret))
			token, err := authService.IssueToken(cmd.Context(), subject, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "dashboard", "Token subject")
	cmd.Flags().Int64Var(&ttl, "ttl", 86400, "Lifetime in seconds; 0 for no expiry")
	return cmd
}
