package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	CSVPath    string
	ReportPath string

	StoreDriver string
	StoreDSN    string

	ChartDir     string
	ChartSurface string
	CurrencyUnit string
	TopN         int

	MissingThreshold float64
	LogLevel         string
}

// Load reads the .env file (if any) and returns a populated Config struct.
// Additional env files may be passed; missing ones are skipped.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		CSVPath:    getEnv("JOBS_CSV_PATH", "./data/jobs.csv"),
		ReportPath: getEnv("REPORT_PATH", "job_output.txt"),

		StoreDriver: getEnv("STORE_DRIVER", "sqlite3"),
		StoreDSN:    getEnv("STORE_DSN", "jobs.db"),

		ChartDir:     getEnv("CHART_DIR", "./output/charts"),
		ChartSurface: getEnv("CHART_SURFACE", "png"),
		CurrencyUnit: getEnv("CURRENCY_UNIT", "€"),
		TopN:         getEnvInt("TOP_N", 10),

		MissingThreshold: getEnvFloat("MISSING_THRESHOLD", 0.9),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// Verbose reports whether debug logging was requested.
func (c *Config) Verbose() bool {
	return c.LogLevel == "debug"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}
