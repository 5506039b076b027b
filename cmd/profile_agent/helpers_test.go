package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the CLI in-process with fresh flag values and returns
// what it wrote to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	isolateEnv(t)

	resetFlags(rootCmd)
	for _, c := range rootCmd.Commands() {
		resetFlags(c)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
}

// isolateEnv clears the variables the CLI reads so a developer's
// environment cannot leak into tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "MAIL_ENDPOINT", "MAIL_FROM", "OUTPUT_DIR"} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleProfile = `{
  "name": "Shamba Fresh",
  "sector": "Agritech",
  "stage": "Early Revenue",
  "foundedAt": "2021-04-12",
  "location": "Nairobi, Kenya",
  "description": "Cold-chain logistics for smallholder farmers.",
  "founderName": "Wanjiru Kamau",
  "amountRaised": 120000,
  "isWomanLed": true,
  "isInnovative": true,
  "innovationExplanation": "Solar-powered storage hubs."
}`

const sampleRounds = `[
  {"roundType": "Seed", "amount": 100000, "date": "2023-06-01", "status": "Closed"},
  {"roundType": "Grant", "amount": 20000, "date": "2022-02-15", "status": "Closed"}
]`
