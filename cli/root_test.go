package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-insights/services"
)

const fixtureCSV = "../services/testdata/jobs.csv"

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"run", "report", "chart", "split", "schema"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	for _, name := range []string{"db", "driver", "env-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitFailure},
		{"command", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"wrapped", WrapExitError(ExitFailure, "run", &services.NotFoundError{Path: "x.csv"}), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "schema", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunThenInspect(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "jobs.db")
	report := filepath.Join(dir, "job_output.txt")

	out, err := execute(t, "run", fixtureCSV, "--db", db, "--report", report, "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored 10 rows")

	got, err := os.ReadFile(report)
	require.NoError(t, err)
	want, err := os.ReadFile("../services/testdata/report.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	t.Run("schema yaml", func(t *testing.T) {
		out, err := execute(t, "schema", "--db", db, "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "name: clean_salary")
		assert.Contains(t, out, "type: REAL")
		assert.NotContains(t, out, "referral")
	})

	t.Run("report yaml", func(t *testing.T) {
		out, err := execute(t, "report", "--db", db, "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "title: Job count by location")
	})

	t.Run("split export", func(t *testing.T) {
		outDir := filepath.Join(dir, "split")
		out, err := execute(t, "split", "location", "--db", db, "--out", outDir)
		require.NoError(t, err)
		assert.Contains(t, out, "Berlin")

		data, err := os.ReadFile(filepath.Join(outDir, "location=Berlin.csv"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "ML Engineer")
		assert.NotContains(t, string(data), "Paris")
	})

	t.Run("split unknown column", func(t *testing.T) {
		_, err := execute(t, "split", "salary; DROP TABLE jobs", "--db", db)
		var missing *services.MissingColumnsError
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, ExitFailure, GetExitCode(err))
	})

	t.Run("terminal charts", func(t *testing.T) {
		out, err := execute(t, "chart", "location-counts", "salary-box-by-seniority",
			"--db", db, "--surface", "terminal", "--top", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Top-2 locations by number of postings")
		assert.Contains(t, out, "Salary spread by seniority level")
	})

	t.Run("png charts", func(t *testing.T) {
		chartDir := filepath.Join(dir, "charts")
		_, err := execute(t, "chart", "salary-histogram", "--db", db, "--dir", chartDir, "--surface", "png")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(chartDir, "salary-histogram.png"))
	})

	t.Run("unknown chart", func(t *testing.T) {
		_, err := execute(t, "chart", "radar", "--db", db)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "job_output.txt")

	_, err := execute(t, "run", filepath.Join(dir, "nope.csv"), "--db", filepath.Join(dir, "jobs.db"), "--report", report, "--no-progress")
	var notFound *services.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.NoFileExists(t, report)
}

func TestChartListNeedsNoStore(t *testing.T) {
	out, err := execute(t, "chart", "--list", "--db", "/nonexistent/dir/jobs.db")
	require.NoError(t, err)
	assert.Contains(t, out, "salary-heatmap")
}

func TestSplitFileName(t *testing.T) {
	assert.Equal(t, "location=Sao_Paulo_BR.csv", SplitFileName("location", "Sao Paulo/BR"))
	assert.Equal(t, "seniority_level=NULL.csv", SplitFileName("seniority_level", services.NullKey))
}

func TestFileNamerKeepsNamesUnique(t *testing.T) {
	names := newFileNamer()
	assert.Equal(t, "location=a_b.csv", names.next("location", "a b"))
	assert.Equal(t, "location=a_b-2.csv", names.next("location", "a/b"))
	assert.Equal(t, "location=a_b-3.csv", names.next("location", "a?b"))
	assert.Equal(t, "location=NULL.csv", names.next("location", "NULL"))
	assert.Equal(t, "location=NULL-2.csv", names.next("location", services.NullKey))
}

func TestSplitExportWritesEveryPart(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "jobs.db")
	csvPath := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"salary,seniority_level,location\n"+
			"€50000,junior,a b\n"+
			"€60000,senior,a/b\n"+
			"€70000,senior,\n"+
			"€90000,lead,Berlin\n"), 0o644))

	_, err := execute(t, "run", csvPath, "--db", db, "--report", filepath.Join(dir, "out.txt"), "--no-progress")
	require.NoError(t, err)

	outDir := filepath.Join(dir, "split")
	out, err := execute(t, "split", "location", "--db", db, "--out", outDir, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "null: true")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.FileExists(t, filepath.Join(outDir, "location=a_b.csv"))
	assert.FileExists(t, filepath.Join(outDir, "location=a_b-2.csv"))
	assert.FileExists(t, filepath.Join(outDir, "location=NULL.csv"))
}
