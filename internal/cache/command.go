package cache

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant                  = "flush-cache"
	commandShortDescriptionConstant     = "Invalidate cached records and routes"
	commandLongDescriptionConstant      = "flush-cache drops cached record lookups for the supplied post identifiers and invalidates the cached rewrite-route table."
	postFlagNameConstant                = "post"
	postFlagUsageConstant               = "Post identifier whose cached lookup should be invalidated (repeatable)."
	routesFlagNameConstant              = "routes"
	routesFlagUsageConstant             = "Invalidate the cached rewrite-route table."
	logMessageCacheFlushedConstant      = "Cache flush completed"
	logMessageRecordFlushFailedConstant = "Record cache invalidation failed"
	logMessageRoutesFlushFailedConstant = "Route cache invalidation failed"
	logFieldRecordIdentifierConstant    = "record_id"
	logFieldFlushedRecordCountConstant  = "flushed_records"
	logFieldRoutesFlushedConstant       = "routes_flushed"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// InvalidatorProvider supplies the cache invalidator the command should use.
type InvalidatorProvider func() Invalidator

// CommandBuilder assembles the flush-cache Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	InvalidatorProvider   InvalidatorProvider
	ConfigurationProvider func() Configuration
}

// Build constructs the flush-cache command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runFlush,
	}

	command.Flags().Int64Slice(postFlagNameConstant, nil, postFlagUsageConstant)
	command.Flags().Bool(routesFlagNameConstant, true, routesFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runFlush(command *cobra.Command, _ []string) error {
	logger := builder.resolveLogger()
	invalidator, closeInvalidator := builder.resolveInvalidator()
	defer func() {
		_ = closeInvalidator()
	}()

	recordIdentifiers, _ := command.Flags().GetInt64Slice(postFlagNameConstant)
	flushRoutes, _ := command.Flags().GetBool(routesFlagNameConstant)

	flushedRecordCount := 0
	for _, recordIdentifier := range recordIdentifiers {
		if invalidationError := invalidator.InvalidateRecord(command.Context(), recordIdentifier); invalidationError != nil {
			logger.Warn(
				logMessageRecordFlushFailedConstant,
				zap.Int64(logFieldRecordIdentifierConstant, recordIdentifier),
				zap.Error(invalidationError),
			)
			continue
		}
		flushedRecordCount++
	}

	routesFlushed := false
	if flushRoutes {
		if invalidationError := invalidator.InvalidateRoutes(command.Context()); invalidationError != nil {
			logger.Warn(logMessageRoutesFlushFailedConstant, zap.Error(invalidationError))
		} else {
			routesFlushed = true
		}
	}

	logger.Info(
		logMessageCacheFlushedConstant,
		zap.Int(logFieldFlushedRecordCountConstant, flushedRecordCount),
		zap.Bool(logFieldRoutesFlushedConstant, routesFlushed),
	)

	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveInvalidator() (Invalidator, func() error) {
	noopClose := func() error { return nil }

	if builder.InvalidatorProvider != nil {
		if invalidator := builder.InvalidatorProvider(); invalidator != nil {
			return invalidator, noopClose
		}
	}

	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider().Sanitize()
	}
	if !configuration.Enabled {
		return NoopInvalidator{}, noopClose
	}

	redisInvalidator := NewRedisInvalidator(configuration)
	return redisInvalidator, redisInvalidator.Close
}
