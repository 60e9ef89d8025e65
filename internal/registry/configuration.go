package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	definitionsFilePathRequiredMessageConstant = "post type definitions path must be provided"
	definitionsFileReadErrorTemplateConstant   = "failed to load post type definitions: %w"
	definitionsFileParseErrorTemplateConstant  = "failed to parse post type definitions: %w"
	configurationTypesFileKeyConstant          = "types_file"
	configurationKeySeparatorConstant          = "."
)

// DefinitionsFile models the YAML document declaring custom post types.
type DefinitionsFile struct {
	Types []TypeDefinition `yaml:"types"`
}

// LoadDefinitionsFile reads custom post type definitions from a YAML document.
func LoadDefinitionsFile(definitionsFilePath string) ([]TypeDefinition, error) {
	trimmedPath := strings.TrimSpace(definitionsFilePath)
	if len(trimmedPath) == 0 {
		return nil, fmt.Errorf(definitionsFilePathRequiredMessageConstant)
	}

	definitionsContent, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return nil, fmt.Errorf(definitionsFileReadErrorTemplateConstant, readError)
	}

	var definitionsFile DefinitionsFile
	if parseError := yaml.Unmarshal(definitionsContent, &definitionsFile); parseError != nil {
		return nil, fmt.Errorf(definitionsFileParseErrorTemplateConstant, parseError)
	}

	return definitionsFile.Types, nil
}

// CommandConfiguration captures persisted configuration for the post-types command.
type CommandConfiguration struct {
	TypesFilePath string `mapstructure:"types_file"`
}

// DefaultCommandConfiguration returns baseline configuration values for the post-types command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{TypesFilePath: ""}
}

// Sanitize trims configured values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.TypesFilePath = strings.TrimSpace(configuration.TypesFilePath)
	return sanitized
}

// DefaultConfigurationValues exposes configuration defaults keyed beneath the provided prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationPrefix + configurationKeySeparatorConstant + configurationTypesFileKeyConstant: defaults.TypesFilePath,
	}
}
