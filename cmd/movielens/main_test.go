package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"ratings.csv": "userId,movieId,rating,timestamp\n1,1,4.0,964982703\n2,1,3.5,964981247\n",
		"movies.csv":  "movieId,title,genres\n1,Toy Story (1995),Adventure|Animation\n",
		"tags.csv":    "userId,movieId,tag,timestamp\n",
		"links.csv":   "movieId,imdbId,tmdbId\n1,0114709,862\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MOVIELENS_DATA_DIR", "MOVIELENS_OUTPUT", "MOVIELENS_REPORT_FORMAT", "MOVIELENS_REPORT_OUT",
		"MOVIELENS_LOG_MODE", "MOVIELENS_HIGH_RATING", "MOVIELENS_HEAVY_USER",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"--version"}, &stdout, &stderr))
	assert.Equal(t, "movielens "+version+"\n", stdout.String())
}

func TestRunTextReport(t *testing.T) {
	clearEnv(t)
	out := filepath.Join(t.TempDir(), "enriched.csv")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", "", "--data-dir", dataDir(t), "--out", out, "--log-mode", "nop"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "INSIGHT 2 - MOVIE POPULARITY DISTRIBUTION:\n- Most popular movie: 'Toy Story (1995)' with 2 ratings")
	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "userId,movieId,rating,timestamp,title,genres,datetime,"))
}

func TestRunReportFile(t *testing.T) {
	clearEnv(t)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{
		"--config", "", "--data-dir", dataDir(t), "--out", "",
		"--report-format", "json", "--report-out", reportPath, "--log-mode", "nop",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Empty(t, stdout.String())
	body, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"topTitle": "Toy Story (1995)"`)
}

func TestRunMissingDataDir(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", "", "--data-dir", filepath.Join(t.TempDir(), "absent"), "--log-mode", "nop"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "ratings.csv")
}

func TestRunBadFormat(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", "", "--data-dir", dataDir(t), "--report-format", "pdf"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "report.format")
}
