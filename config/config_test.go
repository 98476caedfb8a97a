package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"JOBS_CSV_PATH", "REPORT_PATH", "STORE_DRIVER", "STORE_DSN", "TOP_N", "MISSING_THRESHOLD", "LOG_LEVEL", "CHART_DIR"} {
		t.Setenv(k, "")
	}

	cfg := Load(filepath.Join(t.TempDir(), "absent.env"))

	if cfg.ReportPath != "job_output.txt" {
		t.Errorf("ReportPath: got %q, want job_output.txt", cfg.ReportPath)
	}
	if cfg.StoreDriver != "sqlite3" {
		t.Errorf("StoreDriver: got %q, want sqlite3", cfg.StoreDriver)
	}
	if cfg.ChartDir != "./output/charts" {
		t.Errorf("ChartDir: got %q, want ./output/charts", cfg.ChartDir)
	}
	if cfg.TopN != 10 {
		t.Errorf("TopN: got %d, want 10", cfg.TopN)
	}
	if cfg.MissingThreshold != 0.9 {
		t.Errorf("MissingThreshold: got %v, want 0.9", cfg.MissingThreshold)
	}
	if cfg.Verbose() {
		t.Error("Verbose should be false by default")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	t.Setenv("STORE_DSN", "")
	t.Setenv("TOP_N", "")
	t.Setenv("LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORE_DSN=/tmp/other.db\nTOP_N=3\nLOG_LEVEL=DEBUG\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	// godotenv never overrides variables that are already set, so unset
	// the ones Setenv registered before loading.
	os.Unsetenv("STORE_DSN")
	os.Unsetenv("TOP_N")
	os.Unsetenv("LOG_LEVEL")
	t.Cleanup(func() {
		os.Unsetenv("STORE_DSN")
		os.Unsetenv("TOP_N")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg := Load(path)

	if cfg.StoreDSN != "/tmp/other.db" {
		t.Errorf("StoreDSN: got %q", cfg.StoreDSN)
	}
	if cfg.TopN != 3 {
		t.Errorf("TopN: got %d, want 3", cfg.TopN)
	}
	if !cfg.Verbose() {
		t.Error("LOG_LEVEL=DEBUG should enable verbose")
	}
}

func TestGetEnvIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("TOP_N", "many")
	if got := getEnvInt("TOP_N", 7); got != 7 {
		t.Errorf("getEnvInt: got %d, want 7", got)
	}
}
