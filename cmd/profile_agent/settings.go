package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jonathan/venture-profile/internal/config"
	"github.com/jonathan/venture-profile/internal/db"
	"github.com/jonathan/venture-profile/internal/export"
	"github.com/jonathan/venture-profile/internal/rendering"
	"github.com/jonathan/venture-profile/internal/schemas"
	"github.com/jonathan/venture-profile/internal/types"
)

// loadSettings resolves configuration. Values from --config take precedence
// over the environment; command flags are applied by each command on top.
// A verbose config raises the context logger to debug level.
func loadSettings(ctx context.Context) (config.Config, error) {
	env := config.FromEnv()

	cfg := config.Config{}
	if configFile != "" {
		fileCfg, err := config.LoadConfig(configFile)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *fileCfg
	}
	cfg = cfg.MergeWithDefaults(env)
	if verbose {
		cfg.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Verbose {
		loggerFromContext(ctx).SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

// newMailer picks the HTTP relay when one is configured and logs deliveries otherwise.
func newMailer(cfg config.Config, logger *log.Logger) export.Mailer {
	if cfg.MailEndpoint != "" {
		return export.NewHTTPMailer(cfg.MailEndpoint, cfg.MailFrom)
	}
	logger.Warn("no mail endpoint configured, deliveries will only be logged")
	return &export.LogMailer{Logger: logger}
}

func newExporter(cfg config.Config, mailer export.Mailer, logger *log.Logger) *export.Exporter {
	engine := rendering.NewEngine(rendering.WithAuthor(cfg.GeneratedBy))
	return export.New(engine, mailer, logger)
}

// profileSource selects where a command reads its profile from: a JSON
// file (optionally with a separate rounds file) or the database.
type profileSource struct {
	profilePath string
	roundsPath  string
	companyID   string
}

func (s profileSource) validate() error {
	switch {
	case s.profilePath == "" && s.companyID == "":
		return fmt.Errorf("either --profile or --company-id is required")
	case s.profilePath != "" && s.companyID != "":
		return fmt.Errorf("--profile and --company-id cannot be used together")
	case s.roundsPath != "" && s.profilePath == "":
		return fmt.Errorf("--rounds can only be used with --profile")
	}
	return nil
}

// loadedProfile is a profile ready to export. database is set when the
// profile came from the store so the export can be logged.
type loadedProfile struct {
	profile   *types.CompanyProfile
	rounds    []types.FundingRound
	companyID uuid.UUID
	database  *db.DB
}

func (l *loadedProfile) close() {
	if l.database != nil {
		l.database.Close()
	}
}

// record logs the export when the profile came from the database. Failures
// are reported but do not fail the command.
func (l *loadedProfile) record(ctx context.Context, input db.ExportInput) {
	if l.database == nil {
		return
	}
	input.CompanyID = l.companyID
	if _, err := l.database.RecordExport(ctx, input); err != nil {
		loggerFromContext(ctx).Warn("failed to record export", "err", err)
	}
}

func loadProfile(ctx context.Context, src profileSource, cfg config.Config) (*loadedProfile, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	if src.profilePath != "" {
		return loadProfileFiles(src.profilePath, src.roundsPath)
	}
	return loadProfileFromDB(ctx, src.companyID, cfg.DatabaseURL)
}

// loadProfileFiles reads a profile document, which may be a bare profile or
// a {"profile", "rounds"} envelope. A rounds file replaces embedded rounds.
func loadProfileFiles(profilePath, roundsPath string) (*loadedProfile, error) {
	data, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	req, err := schemas.DecodeRenderRequest(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", profilePath, err)
	}

	if roundsPath != "" {
		roundsData, err := os.ReadFile(roundsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read rounds file: %w", err)
		}
		rounds, err := schemas.DecodeRounds(roundsData)
		if err != nil {
			return nil, fmt.Errorf("invalid rounds %s: %w", roundsPath, err)
		}
		req.Rounds = rounds
	}

	return &loadedProfile{profile: req.Profile, rounds: req.Rounds}, nil
}

func loadProfileFromDB(ctx context.Context, rawID, databaseURL string) (*loadedProfile, error) {
	companyID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid company ID %q: %w", rawID, err)
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL (or database_url in config) is required with --company-id")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	profile, err := database.GetCompanyProfile(ctx, companyID)
	if err != nil {
		database.Close()
		return nil, err
	}
	if profile == nil {
		database.Close()
		return nil, fmt.Errorf("company profile not found: %s", companyID)
	}

	rounds, err := database.ListFundingRoundsByCompany(ctx, companyID)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &loadedProfile{profile: profile, rounds: rounds, companyID: companyID, database: database}, nil
}
