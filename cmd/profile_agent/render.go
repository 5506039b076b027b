package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/venture-profile/internal/db"
	"github.com/jonathan/venture-profile/internal/observability"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a business profile to a PDF file",
	Long: "Renders a company's business profile as a PDF named <company>_business_profile.pdf " +
		"in the output directory. The profile is read from a JSON file or loaded from the database.",
	RunE: runRender,
}

var (
	renderProfileFile string
	renderRoundsFile  string
	renderCompanyID   string
	renderOutputDir   string
)

func init() {
	renderCmd.Flags().StringVarP(&renderProfileFile, "profile", "p", "", "Path to company profile JSON file")
	renderCmd.Flags().StringVarP(&renderRoundsFile, "rounds", "r", "", "Path to funding rounds JSON file (optional, with --profile)")
	renderCmd.Flags().StringVar(&renderCompanyID, "company-id", "", "Company ID to load from the database")
	renderCmd.Flags().StringVarP(&renderOutputDir, "out-dir", "o", "", "Output directory (default: output_dir from config or current directory)")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if renderOutputDir != "" {
		cfg.OutputDir = renderOutputDir
	}

	src := profileSource{profilePath: renderProfileFile, roundsPath: renderRoundsFile, companyID: renderCompanyID}
	loaded, err := loadProfile(ctx, src, cfg)
	if err != nil {
		return err
	}
	defer loaded.close()

	exporter := newExporter(cfg, nil, logger)
	doc, data, err := exporter.Render(loaded.profile, loaded.rounds)
	if err != nil {
		return err
	}
	path, err := exporter.WriteFile(cfg.OutputDir, loaded.profile.Name, data)
	if err != nil {
		return err
	}
	loaded.record(ctx, db.ExportInput{FileName: filepath.Base(path), Channel: db.ChannelFile, ByteSize: len(data)})

	if cfg.Verbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		printer.PrintProfile(loaded.profile, loaded.rounds)
		printer.PrintDocument(doc, len(data))
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
