package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/venture-profile/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: "Start an HTTP server that stores business profiles and funding rounds, serves them " +
		"as JSON and PDF, emails them on request and renders inline profiles. " +
		"Requires DATABASE_URL and JWT_SECRET.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	srv, err := server.New(server.Config{
		Port:         servePort,
		DatabaseURL:  cfg.DatabaseURL,
		MailEndpoint: cfg.MailEndpoint,
		MailFrom:     cfg.MailFrom,
		GeneratedBy:  cfg.GeneratedBy,
		Logger:       loggerFromContext(ctx),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
