package posttype

import (
	"strings"

	"github.com/pressctl/pressctl/internal/store"
)

const (
	unboundedLimitSentinelConstant            = -1
	configurationStatusKeyConstant            = "status"
	configurationLimitKeyConstant             = "limit"
	configurationIncludeTaxonomiesKeyConstant = "include_taxonomies"
	configurationTypesFileKeyConstant         = "types_file"
	configurationDebugKeyConstant             = "debug"
	configurationKeySeparatorConstant         = "."
)

// CommandConfiguration captures persisted configuration for the post-type-switch command.
type CommandConfiguration struct {
	Status             string `mapstructure:"status"`
	Limit              int    `mapstructure:"limit"`
	IncludeTaxonomies  bool   `mapstructure:"include_taxonomies"`
	TypesFilePath      string `mapstructure:"types_file"`
	EnableDebugLogging bool   `mapstructure:"debug"`
}

// DefaultCommandConfiguration returns baseline configuration values for post type conversion.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Status:             store.StatusAny,
		Limit:              unboundedLimitSentinelConstant,
		IncludeTaxonomies:  false,
		TypesFilePath:      "",
		EnableDebugLogging: false,
	}
}

// Sanitize trims configured values and restores defaults for blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Status = strings.TrimSpace(configuration.Status)
	sanitized.TypesFilePath = strings.TrimSpace(configuration.TypesFilePath)

	if len(sanitized.Status) == 0 {
		sanitized.Status = store.StatusAny
	}

	return sanitized
}

// DefaultConfigurationValues exposes configuration defaults keyed beneath the provided prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + configurationStatusKeyConstant:            defaults.Status,
		configurationPrefix + configurationKeySeparatorConstant + configurationLimitKeyConstant:             defaults.Limit,
		configurationPrefix + configurationKeySeparatorConstant + configurationIncludeTaxonomiesKeyConstant: defaults.IncludeTaxonomies,
		configurationPrefix + configurationKeySeparatorConstant + configurationTypesFileKeyConstant:         defaults.TypesFilePath,
		configurationPrefix + configurationKeySeparatorConstant + configurationDebugKeyConstant:             defaults.EnableDebugLogging,
	}
}
