package config

import (
	"fmt"
)

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address must not be empty")
	}

	if cfg.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be non-negative")
	}

	if !isValidStorageBackend(cfg.Storage.Backend) {
		return fmt.Errorf("invalid storage.backend: %s (must be memory, sqlite, redis or postgres)", cfg.Storage.Backend)
	}

	if (cfg.Storage.Backend == StorageRedis || cfg.Storage.Backend == StoragePostgres) && cfg.Storage.URL == "" {
		return fmt.Errorf("storage.url is required for the %s backend", cfg.Storage.Backend)
	}

	if cfg.Activity.InactiveDays < 0 {
		return fmt.Errorf("activity.inactive_days must be non-negative")
	}

	// Validate color mode
	if !isValidColorMode(cfg.Display.Colors) {
		return fmt.Errorf("invalid display.colors: %s (must be auto, always, or never)", cfg.Display.Colors)
	}

	// Validate timezone mode
	if !isValidTimezoneMode(cfg.Display.Timezone) {
		return fmt.Errorf("invalid display.timezone: %s (must be local or utc)", cfg.Display.Timezone)
	}

	return nil
}

// isValidStorageBackend returns true if the given backend is valid.
func isValidStorageBackend(backend StorageBackend) bool {
	switch backend {
	case StorageMemory, StorageSQLite, StorageRedis, StoragePostgres:
		return true
	default:
		return false
	}
}

// isValidColorMode returns true if the given mode is valid.
func isValidColorMode(mode ColorMode) bool {
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// isValidTimezoneMode returns true if the given mode is valid.
func isValidTimezoneMode(mode TimezoneMode) bool {
	switch mode {
	case TimezoneLocal, TimezoneUTC:
		return true
	default:
		return false
	}
}
