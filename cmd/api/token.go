package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	pkgconfig "github.com/zenirmoveis/assistant/pkg/config"
	"github.com/zenirmoveis/assistant/pkg/tokens"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token for the /api routes",
		Long: `Signs an HS256 access token with JWT_SECRET.

Operators hand the token to internal callers, which send it as
"Authorization: Bearer <token>".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pkgconfig.Load()
			if err := pkgconfig.NonEmpty(string(cfg.JWTSecret), "JWT_SECRET"); err != nil {
				return err
			}
			if subject == "" {
				return fmt.Errorf("--subject must not be empty")
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}

			token, err := tokens.CreateAccessToken(subject, time.Now().Add(ttl), cfg.JWTSecret)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject (sub claim)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
