package config

import (
	"github.com/spf13/viper"
)

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":7000")
	v.SetDefault("server.rate_limit", 0)

	// Storage defaults
	v.SetDefault("storage.backend", string(StorageSQLite))
	v.SetDefault("storage.path", "") // Empty means use platform default
	v.SetDefault("storage.url", "")

	// Activity defaults
	v.SetDefault("activity.inactive_days", 30)

	// Display defaults
	v.SetDefault("display.colors", "auto")
	v.SetDefault("display.timezone", "local")
}
