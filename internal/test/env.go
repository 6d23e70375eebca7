package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

func setTestEnvVariable(t testing.TB) {
	// Values from .env.test take precedence over the defaults below but not
	// over variables already set in the environment.
	if path := findEnvFile(".env.test"); path != "" {
		if err := godotenv.Load(path); err != nil {
			t.Logf("could not load %s: %v", path, err)
		}
	}

	envVars := map[string]string{
		"DIAMOND_DEBUG":            "false",
		"DIAMOND_ENV":              "test",
		"DIAMOND_META_FILE":        "meta.txt",
		"DIAMOND_PAGE_SIZE":        "100",
		"DIAMOND_PERSIST_INTERVAL": "50ms",
		"DIAMOND_SCAN_CONCURRENCY": "4",
		"DIAMOND_SCAN_RETRIES":     "2",
		"DIAMOND_STORAGE_BUCKET":   "diamond-test",
		"DIAMOND_STORAGE_MODE":     "local",
	}

	for key, value := range envVars {
		if os.Getenv(key) == "" {
			t.Setenv(key, value)
		}
	}
}

// Walk up from the working directory to find the named file next to go.mod.
func findEnvFile(name string) string {
	dir, err := os.Getwd()

	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			path := filepath.Join(dir, name)

			if _, err := os.Stat(path); err == nil {
				return path
			}

			return ""
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			return ""
		}

		dir = parent
	}
}
