package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/venture-profile/internal/types"
)

func TestExporter_Batch(t *testing.T) {
	dir := t.TempDir()
	exp := newTestExporter(nil)

	jobs := []Job{
		{Source: "a.json", Profile: &types.CompanyProfile{Name: "Alpha"}},
		{Source: "b.json", Profile: &types.CompanyProfile{Name: "Beta"}},
		{Source: "c.json", Profile: &types.CompanyProfile{Name: "Gamma"}, Rounds: []types.FundingRound{{RoundType: "Seed"}}},
	}

	results, err := exp.Batch(context.Background(), dir, jobs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, jobs[i].Source, r.Source)
		require.NoError(t, r.Err)
		_, statErr := os.Stat(r.Path)
		assert.NoError(t, statErr)
	}
	assert.Equal(t, filepath.Join(dir, "beta_business_profile.pdf"), results[1].Path)
}

func TestExporter_BatchReportsPerJobFailures(t *testing.T) {
	// A regular file where the output directory should be makes every save fail.
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	exp := newTestExporter(nil)
	jobs := []Job{
		{Source: "a.json", Profile: &types.CompanyProfile{Name: "Alpha"}},
		{Source: "b.json", Profile: &types.CompanyProfile{Name: "Beta"}},
	}

	results, err := exp.Batch(context.Background(), blocker, jobs, 0)
	require.NoError(t, err)
	for _, r := range results {
		assert.Error(t, r.Err)
		assert.Empty(t, r.Path)
	}
}

func TestExporter_BatchDuplicateNamesLastJobWins(t *testing.T) {
	dir := t.TempDir()
	exp := newTestExporter(nil)

	first := &types.CompanyProfile{Name: "Acme", Sector: "Retail"}
	second := &types.CompanyProfile{Name: "ACME", Sector: "Logistics", FounderName: "Wanjiru Kamau"}
	jobs := []Job{
		{Source: "first.json", Profile: first},
		{Source: "other.json", Profile: &types.CompanyProfile{Name: "Other"}},
		{Source: "second.json", Profile: second},
	}

	results, err := exp.Batch(context.Background(), dir, jobs, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, results[0].Path, results[2].Path)

	_, want, err := exp.Render(second, nil)
	require.NoError(t, err)
	got, err := os.ReadFile(results[2].Path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestGroupByFileName(t *testing.T) {
	jobs := []Job{
		{Profile: &types.CompanyProfile{Name: "Acme"}},
		{Profile: &types.CompanyProfile{Name: "Beta"}},
		{Profile: &types.CompanyProfile{Name: "acme"}},
		{Profile: nil},
		{Profile: &types.CompanyProfile{Name: ""}},
	}
	assert.Equal(t, [][]int{{0, 2}, {1}, {3, 4}}, groupByFileName(jobs))
}

func TestExporter_BatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := newTestExporter(nil)
	_, err := exp.Batch(ctx, t.TempDir(), []Job{{Source: "a.json", Profile: &types.CompanyProfile{Name: "A"}}}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
