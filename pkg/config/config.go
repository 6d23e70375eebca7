package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"

	StorageModeLocal  = "local"
	StorageModeObject = "object"
	StorageModeTiered = "tiered"
)

type Config struct {
	DataPath               string
	Debug                  bool
	Env                    string
	FakeObjectStorage      bool
	MetaFileName           string
	PageSize               int64
	PersistInterval        time.Duration
	ScanConcurrency        int
	ScanRetries            int
	StorageAccessKeyId     string
	StorageBucket          string
	StorageEndpoint        string
	StorageMode            string
	StorageRegion          string
	StorageSecretAccessKey string
}

func env(key string, defaultValue string) any {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}

	return defaultValue
}

func envInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(env(key, strconv.Itoa(defaultValue)).(string))

	if err != nil {
		slog.Warn("Invalid integer in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(env(key, defaultValue.String()).(string))

	if err != nil {
		slog.Warn("Invalid duration in environment, using default", "key", key, "default", defaultValue)
		return defaultValue
	}

	return value
}

func NewConfig() *Config {
	c := &Config{
		DataPath:               env("DIAMOND_DATA_PATH", "./data").(string),
		Debug:                  env("DIAMOND_DEBUG", "false") == "true",
		Env:                    env("DIAMOND_ENV", EnvProduction).(string),
		FakeObjectStorage:      env("DIAMOND_FAKE_OBJECT_STORAGE", "false") == "true",
		MetaFileName:           env("DIAMOND_META_FILE", "meta.txt").(string),
		PageSize:               int64(envInt("DIAMOND_PAGE_SIZE", 100)),
		PersistInterval:        envDuration("DIAMOND_PERSIST_INTERVAL", 500*time.Millisecond),
		ScanConcurrency:        envInt("DIAMOND_SCAN_CONCURRENCY", 8),
		ScanRetries:            envInt("DIAMOND_SCAN_RETRIES", 2),
		StorageAccessKeyId:     env("DIAMOND_STORAGE_ACCESS_KEY_ID", "").(string),
		StorageBucket:          env("DIAMOND_STORAGE_BUCKET", "").(string),
		StorageEndpoint:        env("DIAMOND_STORAGE_ENDPOINT", "").(string),
		StorageMode:            env("DIAMOND_STORAGE_MODE", StorageModeLocal).(string),
		StorageRegion:          env("DIAMOND_STORAGE_REGION", "auto").(string),
		StorageSecretAccessKey: env("DIAMOND_STORAGE_SECRET_ACCESS_KEY", "").(string),
	}

	// Pages must hold at least one record.
	if c.PageSize <= 0 {
		slog.Warn("Invalid page size in environment, using default", "key", "DIAMOND_PAGE_SIZE", "default", 100)
		c.PageSize = 100
	}

	return c
}

// Return the slog level matching the debug setting.
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}

	return slog.LevelInfo
}
