package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/venture-profile/internal/export"
	"github.com/jonathan/venture-profile/internal/observability"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render every profile in a directory",
	Long: "Renders each *.json profile document in the input directory to a PDF in the output " +
		"directory. Profiles are rendered concurrently; invalid files are reported and skipped.",
	RunE: runBatch,
}

var (
	batchInputDir    string
	batchOutputDir   string
	batchConcurrency int
)

func init() {
	batchCmd.Flags().StringVarP(&batchInputDir, "dir", "d", "", "Directory of profile JSON files (required)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "out-dir", "o", "", "Output directory (default: output_dir from config or current directory)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "Number of profiles rendered at once (default: concurrency from config or 4)")

	_ = batchCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadSettings(ctx)
	if err != nil {
		return err
	}
	if batchOutputDir != "" {
		cfg.OutputDir = batchOutputDir
	}
	if batchConcurrency < 0 {
		return fmt.Errorf("--concurrency must be non-negative")
	}
	if batchConcurrency > 0 {
		cfg.Concurrency = batchConcurrency
	}

	files, err := profileFiles(batchInputDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no profile JSON files found in %s", batchInputDir)
	}

	// Files that fail to decode are reported alongside the rendered ones.
	var jobs []export.Job
	var invalid []export.Result
	for _, path := range files {
		loaded, err := loadProfileFiles(path, "")
		if err != nil {
			invalid = append(invalid, export.Result{Source: path, Err: err})
			continue
		}
		jobs = append(jobs, export.Job{Source: path, Profile: loaded.profile, Rounds: loaded.rounds})
	}

	logger.Debug("starting batch", "files", len(files), "jobs", len(jobs), "concurrency", cfg.Concurrency)
	prog := newProgress(logger)
	exporter := newExporter(cfg, nil, logger)
	results, err := exporter.Batch(ctx, cfg.OutputDir, jobs, cfg.Concurrency)
	if err != nil {
		return fmt.Errorf("batch cancelled: %w", err)
	}
	results = append(results, invalid...)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	prog.done(fmt.Sprintf("Exported %d of %d profiles", len(results)-failed, len(results)))

	if cfg.Verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintBatchResults(results)
	} else {
		for _, r := range results {
			if r.Err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), r.Path)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d profiles failed", failed, len(results))
	}
	return nil
}

// profileFiles lists the *.json files directly inside dir, sorted by name.
func profileFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
