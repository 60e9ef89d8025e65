package registry

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	commandUseConstant                      = "post-types"
	commandShortDescriptionConstant         = "List registered post types"
	commandLongDescriptionConstant          = "post-types prints every registered post type alongside the taxonomies it supports, merging custom definitions from an optional YAML file over the builtin WordPress set."
	typesFileFlagNameConstant               = "types-file"
	typesFileFlagUsageConstant              = "Optional YAML file declaring custom post type definitions."
	outputFlagNameConstant                  = "output"
	outputFlagUsageConstant                 = "Output format (text or yaml)."
	outputFormatTextConstant                = "text"
	outputFormatYAMLConstant                = "yaml"
	unsupportedOutputFormatTemplateConstant = "unsupported output format: %s"
	registryConstructionErrorTemplate       = "unable to construct post type registry: %w"
	definitionsEncodeErrorTemplateConstant  = "unable to encode post type definitions: %w"
	textOutputLineTemplateConstant          = "%s: %s\n"
	textOutputNoTaxonomiesPlaceholderConst  = "-"
	taxonomyListJoinSeparatorConstant       = ", "
	logMessageDefinitionsListedConstant     = "Post type definitions listed"
	logFieldDefinitionCountConstant         = "definition_count"
	logFieldDefinitionsFileConstant         = "types_file"
)

// CommandLoggerProvider supplies a zap logger instance.
type CommandLoggerProvider func() *zap.Logger

// CommandBuilder assembles the post-types Cobra command.
type CommandBuilder struct {
	LoggerProvider        CommandLoggerProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the post-types command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runList,
	}

	command.Flags().String(typesFileFlagNameConstant, "", typesFileFlagUsageConstant)
	command.Flags().String(outputFlagNameConstant, outputFormatTextConstant, outputFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runList(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()

	typesFilePath := configuration.TypesFilePath
	if command.Flags().Changed(typesFileFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(typesFileFlagNameConstant)
		typesFilePath = strings.TrimSpace(flagValue)
	}

	outputFormat, _ := command.Flags().GetString(outputFlagNameConstant)
	outputFormat = strings.TrimSpace(strings.ToLower(outputFormat))

	typeRegistry, registryError := builder.buildRegistry(typesFilePath)
	if registryError != nil {
		return registryError
	}

	definitions := typeRegistry.Definitions()

	switch outputFormat {
	case outputFormatTextConstant:
		for _, definition := range definitions {
			taxonomyList := textOutputNoTaxonomiesPlaceholderConst
			if len(definition.SupportedTaxonomies) > 0 {
				taxonomyList = strings.Join(definition.SupportedTaxonomies, taxonomyListJoinSeparatorConstant)
			}
			fmt.Fprintf(command.OutOrStdout(), textOutputLineTemplateConstant, definition.Name, taxonomyList)
		}
	case outputFormatYAMLConstant:
		encodedDefinitions, encodeError := yaml.Marshal(DefinitionsFile{Types: definitions})
		if encodeError != nil {
			return fmt.Errorf(definitionsEncodeErrorTemplateConstant, encodeError)
		}
		fmt.Fprint(command.OutOrStdout(), string(encodedDefinitions))
	default:
		return fmt.Errorf(unsupportedOutputFormatTemplateConstant, outputFormat)
	}

	builder.logListing(typesFilePath, len(definitions))

	return nil
}

func (builder *CommandBuilder) buildRegistry(typesFilePath string) (*Registry, error) {
	if len(typesFilePath) == 0 {
		return NewBuiltinRegistry(), nil
	}

	customDefinitions, loadError := LoadDefinitionsFile(typesFilePath)
	if loadError != nil {
		return nil, loadError
	}

	mergedRegistry, mergeError := NewMergedRegistry(customDefinitions)
	if mergeError != nil {
		return nil, fmt.Errorf(registryConstructionErrorTemplate, mergeError)
	}

	return mergedRegistry, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) logListing(typesFilePath string, definitionCount int) {
	if builder.LoggerProvider == nil {
		return
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return
	}

	logger.Debug(
		logMessageDefinitionsListedConstant,
		zap.String(logFieldDefinitionsFileConstant, typesFilePath),
		zap.Int(logFieldDefinitionCountConstant, definitionCount),
	)
}
