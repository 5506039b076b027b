package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"output_dir": "out",
		"database_url": "postgres://localhost/profiles",
		"mail_endpoint": "https://mail.example.com/send",
		"mail_from": "noreply@example.com",
		"generated_by": "Incubator Portal",
		"verbose": true,
		"concurrency": 8
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "postgres://localhost/profiles", cfg.DatabaseURL)
	assert.Equal(t, "https://mail.example.com/send", cfg.MailEndpoint)
	assert.Equal(t, "noreply@example.com", cfg.MailFrom)
	assert.Equal(t, "Incubator Portal", cfg.GeneratedBy)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 8, cfg.Concurrency)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	notADir := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty is valid", cfg: Config{}},
		{name: "full", cfg: Config{MailEndpoint: "https://mail.example.com/send", Concurrency: 2, OutputDir: t.TempDir()}},
		{name: "missing output dir is created later", cfg: Config{OutputDir: filepath.Join(t.TempDir(), "new")}},
		{name: "negative concurrency", cfg: Config{Concurrency: -1}, wantErr: "concurrency"},
		{name: "relative endpoint", cfg: Config{MailEndpoint: "/send"}, wantErr: "not a valid URL"},
		{name: "unsupported scheme", cfg: Config{MailEndpoint: "smtp://mail.example.com"}, wantErr: "http or https"},
		{name: "output dir is a file", cfg: Config{OutputDir: notADir}, wantErr: "not a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{OutputDir: "cli-out"}
	merged := cfg.MergeWithDefaults(Config{
		OutputDir:    "file-out",
		DatabaseURL:  "postgres://db",
		MailEndpoint: "https://mail",
		MailFrom:     "a@b.co",
		Concurrency:  6,
	})

	assert.Equal(t, "cli-out", merged.OutputDir)
	assert.Equal(t, "postgres://db", merged.DatabaseURL)
	assert.Equal(t, "https://mail", merged.MailEndpoint)
	assert.Equal(t, "a@b.co", merged.MailFrom)
	assert.Equal(t, DefaultGeneratedBy, merged.GeneratedBy)
	assert.Equal(t, 6, merged.Concurrency)
}

func TestMergeWithDefaults_FallsBackToDefaultConcurrency(t *testing.T) {
	merged := (&Config{}).MergeWithDefaults(Config{})
	assert.Equal(t, DefaultConcurrency, merged.Concurrency)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("MAIL_ENDPOINT", "https://relay")
	t.Setenv("MAIL_FROM", "ops@example.com")
	t.Setenv("OUTPUT_DIR", "/tmp/pdfs")

	cfg := FromEnv()
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "https://relay", cfg.MailEndpoint)
	assert.Equal(t, "ops@example.com", cfg.MailFrom)
	assert.Equal(t, "/tmp/pdfs", cfg.OutputDir)
}
