// Package main provides the profile_agent CLI, which exports business
// profiles as PDF files, emails them and serves the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "profile_agent",
	Short: "Business profile PDF exporter",
	Long: "profile_agent renders company business profiles as branded PDF documents, " +
		"saves or emails them, and exposes the same operations over a REST API.",
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and detailed summaries")
}

// setupLogging attaches a logger to the command context. --verbose enables
// debug output here; loadSettings raises the level for "verbose": true in
// the config file.
func setupLogging(cmd *cobra.Command, _ []string) error {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, newLogger(cmd.ErrOrStderr(), level)))
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
