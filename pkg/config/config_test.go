package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/diamonddb/diamond-node/pkg/config"
)

func TestNewConfig(t *testing.T) {
	c := config.NewConfig()

	if c == nil {
		t.Fatalf("The config instance was not created")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("DIAMOND_DATA_PATH", "")
	t.Setenv("DIAMOND_PAGE_SIZE", "")
	t.Setenv("DIAMOND_SCAN_RETRIES", "")
	t.Setenv("DIAMOND_STORAGE_MODE", "")
	t.Setenv("DIAMOND_META_FILE", "")

	c := config.NewConfig()

	if c.DataPath != "./data" {
		t.Errorf("expected default data path, got %s", c.DataPath)
	}

	if c.MetaFileName != "meta.txt" {
		t.Errorf("expected meta.txt, got %s", c.MetaFileName)
	}

	if c.PageSize != 100 {
		t.Errorf("expected page size 100, got %d", c.PageSize)
	}

	if c.ScanRetries != 2 {
		t.Errorf("expected 2 scan retries, got %d", c.ScanRetries)
	}

	if c.StorageMode != config.StorageModeLocal {
		t.Errorf("expected local storage mode, got %s", c.StorageMode)
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("DIAMOND_PAGE_SIZE", "2")
	t.Setenv("DIAMOND_PERSIST_INTERVAL", "2s")
	t.Setenv("DIAMOND_SCAN_CONCURRENCY", "not-a-number")
	t.Setenv("DIAMOND_DEBUG", "true")

	c := config.NewConfig()

	if c.PageSize != 2 {
		t.Errorf("expected page size 2, got %d", c.PageSize)
	}

	if c.PersistInterval != 2*time.Second {
		t.Errorf("expected 2s persist interval, got %s", c.PersistInterval)
	}

	if c.ScanConcurrency != 8 {
		t.Errorf("expected invalid concurrency to fall back to 8, got %d", c.ScanConcurrency)
	}

	if c.LogLevel() != slog.LevelDebug {
		t.Errorf("expected debug log level")
	}
}

func TestNewConfigRejectsEmptyPages(t *testing.T) {
	t.Setenv("DIAMOND_PAGE_SIZE", "0")

	if c := config.NewConfig(); c.PageSize != 100 {
		t.Errorf("expected the default page size, got %d", c.PageSize)
	}
}
