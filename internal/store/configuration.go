package store

import "strings"

const (
	defaultDriverNameConstant         = "sqlite3"
	defaultDataSourceNameConstant     = "wordpress.db"
	defaultTablePrefixConstant        = "wp_"
	configurationDriverKeyConstant    = "driver"
	configurationDSNKeyConstant       = "dsn"
	configurationPrefixKeyConstant    = "table_prefix"
	configurationKeySeparatorConstant = "."
)

// Configuration captures persisted database connection settings.
type Configuration struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	TablePrefix string `mapstructure:"table_prefix"`
}

// DefaultConfiguration returns baseline database settings for local installations.
func DefaultConfiguration() Configuration {
	return Configuration{
		Driver:      defaultDriverNameConstant,
		DSN:         defaultDataSourceNameConstant,
		TablePrefix: defaultTablePrefixConstant,
	}
}

// Sanitize trims configured values and restores defaults for blank entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{
		Driver:      strings.TrimSpace(configuration.Driver),
		DSN:         strings.TrimSpace(configuration.DSN),
		TablePrefix: strings.TrimSpace(configuration.TablePrefix),
	}

	defaults := DefaultConfiguration()
	if len(sanitized.Driver) == 0 {
		sanitized.Driver = defaults.Driver
	}
	if len(sanitized.DSN) == 0 {
		sanitized.DSN = defaults.DSN
	}
	if len(sanitized.TablePrefix) == 0 {
		sanitized.TablePrefix = defaults.TablePrefix
	}

	return sanitized
}

// DefaultConfigurationValues exposes configuration defaults keyed beneath the provided prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + configurationDriverKeyConstant: defaults.Driver,
		configurationPrefix + configurationKeySeparatorConstant + configurationDSNKeyConstant:    defaults.DSN,
		configurationPrefix + configurationKeySeparatorConstant + configurationPrefixKeyConstant: defaults.TablePrefix,
	}
}
