package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/venture-profile/internal/config"
	"github.com/jonathan/venture-profile/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for the protected API routes",
	Long: "Signs a token with JWT_SECRET, and JWT_ISSUER when set, that the API accepts on the " +
		"email and profile management routes. The token expires after JWT_EXPIRATION_HOURS.",
	RunE: runToken,
}

var tokenSubject string

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "User ID to issue the token for (default: a new random ID)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	logger := loggerFromContext(cmd.Context())

	subject := uuid.New()
	if tokenSubject != "" {
		var err error
		if subject, err = uuid.Parse(tokenSubject); err != nil {
			return fmt.Errorf("invalid subject %q: %w", tokenSubject, err)
		}
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, err := server.NewJWTService(jwtConfig).GenerateToken(subject)
	if err != nil {
		return err
	}

	logger.Info("issued token", "subject", subject, "expires_in", time.Duration(jwtConfig.ExpirationHours)*time.Hour)
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
