package cache

import "strings"

const (
	defaultRedisAddressConstant       = "localhost:6379"
	defaultKeyPrefixConstant          = "wp:"
	configurationEnabledKeyConstant   = "enabled"
	configurationAddressKeyConstant   = "redis_address"
	configurationPasswordKeyConstant  = "redis_password"
	configurationDatabaseKeyConstant  = "redis_db"
	configurationKeyPrefixKeyConstant = "key_prefix"
	configurationKeySeparatorConstant = "."
)

// Configuration captures persisted cache backend settings.
type Configuration struct {
	Enabled       bool   `mapstructure:"enabled"`
	RedisAddress  string `mapstructure:"redis_address"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDatabase int    `mapstructure:"redis_db"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// DefaultConfiguration returns baseline cache settings with the backend disabled.
func DefaultConfiguration() Configuration {
	return Configuration{
		Enabled:       false,
		RedisAddress:  defaultRedisAddressConstant,
		RedisPassword: "",
		RedisDatabase: 0,
		KeyPrefix:     defaultKeyPrefixConstant,
	}
}

// Sanitize trims configured values and restores defaults for blank entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.RedisAddress = strings.TrimSpace(configuration.RedisAddress)
	sanitized.KeyPrefix = strings.TrimSpace(configuration.KeyPrefix)

	defaults := DefaultConfiguration()
	if len(sanitized.RedisAddress) == 0 {
		sanitized.RedisAddress = defaults.RedisAddress
	}
	if len(sanitized.KeyPrefix) == 0 {
		sanitized.KeyPrefix = defaults.KeyPrefix
	}

	return sanitized
}

// DefaultConfigurationValues exposes configuration defaults keyed beneath the provided prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + configurationEnabledKeyConstant:   defaults.Enabled,
		configurationPrefix + configurationKeySeparatorConstant + configurationAddressKeyConstant:   defaults.RedisAddress,
		configurationPrefix + configurationKeySeparatorConstant + configurationPasswordKeyConstant:  defaults.RedisPassword,
		configurationPrefix + configurationKeySeparatorConstant + configurationDatabaseKeyConstant:  defaults.RedisDatabase,
		configurationPrefix + configurationKeySeparatorConstant + configurationKeyPrefixKeyConstant: defaults.KeyPrefix,
	}
}
