package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/swipefolio/landing-api/pkg/auth"
)

func newAdminTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Mint a bearer token for GET /api/waitlist",
		Long:  "Signs an admin token with ADMIN_JWT_SECRET and prints it to stdout.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ttl <= 0 {
				return errors.New("--ttl must be positive")
			}

			issuer := auth.NewTokenIssuer(os.Getenv("ADMIN_JWT_SECRET"))
			token, err := issuer.CreateAccessToken(subject, auth.RoleAdmin, ttl)
			if err != nil {
				return fmt.Errorf("mint admin token: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "admin", "subject (sub claim) recorded in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
