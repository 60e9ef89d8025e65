package posttype

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pressctl/pressctl/internal/cache"
	"github.com/pressctl/pressctl/internal/registry"
	"github.com/pressctl/pressctl/internal/store"
)

const (
	commandUseConstant                    = "post-type-switch"
	commandShortDescriptionConstant       = "Convert records between post types"
	commandLongDescriptionConstant        = "post-type-switch rewrites the post type of every record matching the source type and status filter, optionally migrating taxonomy relationships, and invalidates affected cache entries when the batch completes."
	sourceTypeFlagNameConstant            = "from"
	sourceTypeFlagUsageConstant           = "Source post type to convert records from."
	targetTypeFlagNameConstant            = "to"
	targetTypeFlagUsageConstant           = "Target post type to convert records to."
	statusFlagNameConstant                = "status"
	statusFlagUsageConstant               = "Restrict the selection to records with this status (any disables filtering)."
	limitFlagNameConstant                 = "limit"
	limitFlagUsageConstant                = "Cap the number of records selected (-1 selects every match)."
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagUsageConstant               = "Report what would be converted without modifying any record."
	includeTaxonomiesFlagNameConstant     = "include-taxonomies"
	includeTaxonomiesFlagUsageConstant    = "Migrate taxonomy relationships alongside the type change."
	assumeYesFlagNameConstant             = "yes"
	assumeYesFlagUsageConstant            = "Skip the interactive confirmation prompt."
	conversionFailedErrorTemplateConstant = "post type conversion failed: %w"
	storeCreationErrorTemplateConstant    = "unable to open record store: %w"
	registryCreationErrorTemplateConstant = "unable to construct post type registry: %w"
	serviceCreationErrorTemplateConstant  = "unable to construct conversion service: %w"
	summaryMessageConstant                = "Conversion summary"
	dryRunMarkerMessageConstant           = "Dry run: no changes made"
	conversionErrorsMessageConstant       = "Some records failed to convert"
	logFieldSharedTaxonomiesConstant      = "shared_taxonomies"
	logFieldRemovedTaxonomiesConstant     = "removed_taxonomies"
	logFieldTargetOnlyTaxonomiesConstant  = "target_only_taxonomies"
	logFieldRemainingSourceRecordsConst   = "remaining_source_records"
	remainingCountUnknownConstant         = -1
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// StoreProvider supplies the record store the command should mutate.
type StoreProvider func() (RecordStore, func() error, error)

// RegistryProvider supplies the post type registry used for validation.
type RegistryProvider func() (TypeRegistry, error)

// InvalidatorProvider supplies the cache invalidator run after conversion
// along with a release function for its backing connection.
type InvalidatorProvider func() (cache.Invalidator, func() error)

// CommandBuilder assembles the post-type-switch Cobra command.
type CommandBuilder struct {
	LoggerProvider                LoggerProvider
	StoreProvider                 StoreProvider
	RegistryProvider              RegistryProvider
	InvalidatorProvider           InvalidatorProvider
	Prompter                      ConfirmationPrompter
	Progress                      ProgressReporter
	ConfigurationProvider         func() CommandConfiguration
	DatabaseConfigurationProvider func() store.Configuration
	CacheConfigurationProvider    func() cache.Configuration
}

type commandOptions struct {
	sourceType          string
	targetType          string
	statusFilter        string
	recordLimit         int
	dryRun              bool
	includeTaxonomies   bool
	confirmed           bool
	debugLoggingEnabled bool
}

// Build constructs the post-type-switch command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runSwitch,
	}

	defaults := builder.resolveConfiguration()

	command.Flags().String(sourceTypeFlagNameConstant, "", sourceTypeFlagUsageConstant)
	command.Flags().String(targetTypeFlagNameConstant, "", targetTypeFlagUsageConstant)
	command.Flags().String(statusFlagNameConstant, defaults.Status, statusFlagUsageConstant)
	command.Flags().Int(limitFlagNameConstant, defaults.Limit, limitFlagUsageConstant)
	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagUsageConstant)
	command.Flags().Bool(includeTaxonomiesFlagNameConstant, defaults.IncludeTaxonomies, includeTaxonomiesFlagUsageConstant)
	command.Flags().Bool(assumeYesFlagNameConstant, false, assumeYesFlagUsageConstant)

	if markError := command.MarkFlagRequired(sourceTypeFlagNameConstant); markError != nil {
		return nil, markError
	}
	if markError := command.MarkFlagRequired(targetTypeFlagNameConstant); markError != nil {
		return nil, markError
	}

	return command, nil
}

func (builder *CommandBuilder) runSwitch(command *cobra.Command, _ []string) error {
	options := builder.parseOptions(command)
	logger := builder.resolveLogger(options.debugLoggingEnabled)

	recordStore, closeStore, storeError := builder.resolveStore()
	if storeError != nil {
		return fmt.Errorf(storeCreationErrorTemplateConstant, storeError)
	}
	defer func() {
		_ = closeStore()
	}()

	typeRegistry, registryError := builder.resolveRegistry()
	if registryError != nil {
		return fmt.Errorf(registryCreationErrorTemplateConstant, registryError)
	}

	invalidator, closeInvalidator := builder.resolveInvalidator()
	defer func() {
		_ = closeInvalidator()
	}()

	service, serviceError := NewService(Dependencies{
		Logger:      logger,
		Store:       recordStore,
		Registry:    typeRegistry,
		Invalidator: invalidator,
		Prompter:    builder.resolvePrompter(command),
		Progress:    builder.Progress,
	})
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	report, conversionError := service.Execute(command.Context(), Options{
		SourceType:        options.sourceType,
		TargetType:        options.targetType,
		Status:            options.statusFilter,
		Limit:             options.recordLimit,
		DryRun:            options.dryRun,
		IncludeTaxonomies: options.includeTaxonomies,
		Confirmed:         options.confirmed,
	})
	if conversionError != nil {
		if errors.Is(conversionError, ErrConversionCancelled) {
			return conversionError
		}
		return fmt.Errorf(conversionFailedErrorTemplateConstant, conversionError)
	}

	remainingSourceRecords := remainingCountUnknownConstant
	if !report.DryRun {
		if remainingCount, countError := recordStore.CountRecords(command.Context(), options.sourceType); countError == nil {
			remainingSourceRecords = remainingCount
		}
	}

	builder.logSummary(logger, options, report, remainingSourceRecords)

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) commandOptions {
	configuration := builder.resolveConfiguration()

	sourceType, _ := command.Flags().GetString(sourceTypeFlagNameConstant)
	targetType, _ := command.Flags().GetString(targetTypeFlagNameConstant)
	statusFilter, _ := command.Flags().GetString(statusFlagNameConstant)
	recordLimit, _ := command.Flags().GetInt(limitFlagNameConstant)
	dryRun, _ := command.Flags().GetBool(dryRunFlagNameConstant)
	includeTaxonomies, _ := command.Flags().GetBool(includeTaxonomiesFlagNameConstant)
	confirmed, _ := command.Flags().GetBool(assumeYesFlagNameConstant)

	return commandOptions{
		sourceType:          strings.TrimSpace(sourceType),
		targetType:          strings.TrimSpace(targetType),
		statusFilter:        strings.TrimSpace(statusFilter),
		recordLimit:         recordLimit,
		dryRun:              dryRun,
		includeTaxonomies:   includeTaxonomies,
		confirmed:           confirmed,
		debugLoggingEnabled: configuration.EnableDebugLogging,
	}
}

func (builder *CommandBuilder) resolveLogger(enableDebug bool) *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if enableDebug {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.DebugLevel))
	}
	return logger
}

func (builder *CommandBuilder) resolveStore() (RecordStore, func() error, error) {
	if builder.StoreProvider != nil {
		return builder.StoreProvider()
	}

	databaseConfiguration := store.DefaultConfiguration()
	if builder.DatabaseConfigurationProvider != nil {
		databaseConfiguration = builder.DatabaseConfigurationProvider()
	}

	sqlStore, openError := store.Open(databaseConfiguration)
	if openError != nil {
		return nil, nil, openError
	}

	return sqlStore, sqlStore.Close, nil
}

func (builder *CommandBuilder) resolveRegistry() (TypeRegistry, error) {
	if builder.RegistryProvider != nil {
		return builder.RegistryProvider()
	}

	configuration := builder.resolveConfiguration()
	if len(configuration.TypesFilePath) == 0 {
		return registry.NewBuiltinRegistry(), nil
	}

	customDefinitions, loadError := registry.LoadDefinitionsFile(configuration.TypesFilePath)
	if loadError != nil {
		return nil, loadError
	}

	return registry.NewMergedRegistry(customDefinitions)
}

func (builder *CommandBuilder) resolveInvalidator() (cache.Invalidator, func() error) {
	if builder.InvalidatorProvider != nil {
		if invalidator, closeInvalidator := builder.InvalidatorProvider(); invalidator != nil {
			if closeInvalidator == nil {
				closeInvalidator = noopCloseFunction
			}
			return invalidator, closeInvalidator
		}
	}

	cacheConfiguration := cache.DefaultConfiguration()
	if builder.CacheConfigurationProvider != nil {
		cacheConfiguration = builder.CacheConfigurationProvider().Sanitize()
	}
	if !cacheConfiguration.Enabled {
		return cache.NoopInvalidator{}, noopCloseFunction
	}

	redisInvalidator := cache.NewRedisInvalidator(cacheConfiguration)
	return redisInvalidator, redisInvalidator.Close
}

func noopCloseFunction() error {
	return nil
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) logSummary(logger *zap.Logger, options commandOptions, report ConversionReport, remainingSourceRecords int) {
	summaryFields := []zap.Field{
		zap.String(logFieldRunIdentifierConstant, report.RunIdentifier),
		zap.String(logFieldSourceTypeConstant, options.sourceType),
		zap.String(logFieldTargetTypeConstant, options.targetType),
		zap.Int(logFieldTotalSelectedConstant, report.TotalSelected),
		zap.Int(logFieldConvertedCountConstant, report.ConvertedCount),
		zap.Int(logFieldErrorCountConstant, report.ErrorCount),
		zap.Bool(logFieldDryRunConstant, report.DryRun),
	}
	if remainingSourceRecords != remainingCountUnknownConstant {
		summaryFields = append(summaryFields, zap.Int(logFieldRemainingSourceRecordsConst, remainingSourceRecords))
	}
	if options.includeTaxonomies {
		summaryFields = append(summaryFields,
			zap.Strings(logFieldSharedTaxonomiesConstant, report.Taxonomies.Shared),
			zap.Strings(logFieldRemovedTaxonomiesConstant, report.Taxonomies.SourceOnly),
			zap.Strings(logFieldTargetOnlyTaxonomiesConstant, report.Taxonomies.TargetOnly),
		)
	}

	logger.Info(summaryMessageConstant, summaryFields...)

	if report.DryRun {
		logger.Info(dryRunMarkerMessageConstant, zap.String(logFieldRunIdentifierConstant, report.RunIdentifier))
	}
	if report.ErrorCount > 0 {
		logger.Warn(
			conversionErrorsMessageConstant,
			zap.String(logFieldRunIdentifierConstant, report.RunIdentifier),
			zap.Int(logFieldErrorCountConstant, report.ErrorCount),
		)
	}
}
