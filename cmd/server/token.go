package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mathieu-neron/vixtube/internal/config"
	"github.com/mathieu-neron/vixtube/internal/middleware"
)

var (
	tokenUser     string
	tokenUsername string
	tokenTTL      time.Duration
)

// tokenCmd mints a bearer token with the configured secret. Accounts are
// managed by an external identity provider; this is for local development.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed development bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.IsProduction() {
			return fmt.Errorf("refusing to mint tokens in production")
		}
		if tokenUser == "" {
			tokenUser = uuid.NewString()
		} else if _, err := uuid.Parse(tokenUser); err != nil {
			return fmt.Errorf("--user must be a UUID: %w", err)
		}
		tok, err := middleware.NewAuth(cfg.Auth.JWTSecret, nil).Issue(tokenUser, tokenUsername, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "actor UUID (random when empty)")
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "username claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
