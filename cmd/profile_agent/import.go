package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/venture-profile/internal/db"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a business profile in the database",
	Long: "Reads a profile JSON file, either a bare profile or a {\"profile\", \"rounds\"} envelope, " +
		"and stores it in the database. With --company-id the stored profile is replaced; funding " +
		"rounds are always appended. Prints the company ID.",
	RunE: runImport,
}

var (
	importProfileFile string
	importRoundsFile  string
	importCompanyID   string
)

func init() {
	importCmd.Flags().StringVarP(&importProfileFile, "profile", "p", "", "Path to company profile JSON file (required)")
	importCmd.Flags().StringVarP(&importRoundsFile, "rounds", "r", "", "Path to funding rounds JSON file (optional)")
	importCmd.Flags().StringVar(&importCompanyID, "company-id", "", "Replace the profile of this company instead of creating one")

	_ = importCmd.MarkFlagRequired("profile")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	companyID := uuid.Nil
	if importCompanyID != "" {
		if companyID, err = uuid.Parse(importCompanyID); err != nil {
			return fmt.Errorf("invalid company ID %q: %w", importCompanyID, err)
		}
	}

	loaded, err := loadProfileFiles(importProfileFile, importRoundsFile)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL (or database_url in config) is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	companyID, err = database.UpsertCompanyProfile(ctx, companyID, loaded.profile)
	if err != nil {
		return err
	}
	if len(loaded.rounds) > 0 {
		if _, err := database.AddFundingRounds(ctx, companyID, loaded.rounds); err != nil {
			return err
		}
	}

	logger.Info("imported profile", "company_id", companyID, "name", loaded.profile.Name, "rounds", len(loaded.rounds))
	fmt.Fprintln(cmd.OutOrStdout(), companyID)
	return nil
}
