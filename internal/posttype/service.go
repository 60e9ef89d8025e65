package posttype

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pressctl/pressctl/internal/cache"
	"github.com/pressctl/pressctl/internal/store"
)

const (
	sourceTypeFieldNameConstant              = "from"
	targetTypeFieldNameConstant              = "to"
	requiredValueMessageConstant             = "value is required"
	unregisteredTypeMessageConstant          = "post type is not registered"
	identicalTypesMessageConstant            = "source and target types must differ"
	recordStoreMissingMessageConstant        = "record store not configured"
	typeRegistryMissingMessageConstant       = "type registry not configured"
	conversionCancelledMessageConstant       = "conversion cancelled before any record was modified"
	confirmationFailedErrorTemplateConstant  = "unable to obtain confirmation: %w"
	selectionFailedErrorTemplateConstant     = "unable to enumerate records: %w"
	confirmationPromptTemplateConstant       = "Convert %d record(s) from %q to %q? [y/N] "
	taxonomyRemovalPromptTemplateConstant    = "Relationships under these taxonomies will be deleted: %s\n"
	taxonomyPromptJoinSeparatorConstant      = ", "
	logMessageConversionStartedConstant      = "Post type conversion started"
	logMessageConversionCompletedConstant    = "Post type conversion completed"
	logMessageRecordConversionFailedConstant = "Record conversion failed"
	logMessageRelationshipPruneFailedConst   = "Taxonomy relationship prune failed"
	logMessageRecordInvalidationFailedConst  = "Record cache invalidation failed"
	logMessageRouteInvalidationFailedConst   = "Route cache invalidation failed"
	logFieldRunIdentifierConstant            = "run_id"
	logFieldSourceTypeConstant               = "from"
	logFieldTargetTypeConstant               = "to"
	logFieldStatusFilterConstant             = "status"
	logFieldRecordIdentifierConstant         = "record_id"
	logFieldTaxonomyNameConstant             = "taxonomy"
	logFieldTotalSelectedConstant            = "total_selected"
	logFieldConvertedCountConstant           = "converted"
	logFieldErrorCountConstant               = "errors"
	logFieldDryRunConstant                   = "dry_run"
)

// InvalidInputError describes conversion option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", inputError.FieldName, inputError.Message)
}

var (
	errRecordStoreMissing  = errors.New(recordStoreMissingMessageConstant)
	errTypeRegistryMissing = errors.New(typeRegistryMissingMessageConstant)

	// ErrConversionCancelled reports a declined or unavailable confirmation; nothing was modified.
	ErrConversionCancelled = errors.New(conversionCancelledMessageConstant)
)

// RecordStore is the narrow persistence surface the engine mutates records through.
type RecordStore interface {
	SelectRecords(executionContext context.Context, selection store.RecordSelection) ([]store.Record, error)
	UpdateRecordType(executionContext context.Context, recordIdentifier int64, newType string) error
	DeleteRelationships(executionContext context.Context, recordIdentifier int64, taxonomyName string) error
	CountRecords(executionContext context.Context, recordType string) (int, error)
}

// TypeRegistry answers post type lookups during validation and taxonomy classification.
type TypeRegistry interface {
	Exists(typeName string) bool
	SupportedTaxonomies(typeName string) ([]string, bool)
}

// ProgressReporter receives a tick after each processed record.
type ProgressReporter func(completedCount int, totalCount int)

// Dependencies describes required collaborators for conversion.
type Dependencies struct {
	Logger      *zap.Logger
	Store       RecordStore
	Registry    TypeRegistry
	Invalidator cache.Invalidator
	Prompter    ConfirmationPrompter
	Progress    ProgressReporter
}

// Options configures a single conversion run.
type Options struct {
	SourceType        string
	TargetType        string
	Status            string
	Limit             int
	DryRun            bool
	IncludeTaxonomies bool
	Confirmed         bool
}

// ConversionReport captures the aggregate outcome of a conversion run.
type ConversionReport struct {
	RunIdentifier  string
	TotalSelected  int
	ConvertedCount int
	ErrorCount     int
	DryRun         bool
	Taxonomies     TaxonomyClassification
}

// Service orchestrates the post type conversion pipeline.
type Service struct {
	logger      *zap.Logger
	recordStore RecordStore
	registry    TypeRegistry
	invalidator cache.Invalidator
	prompter    ConfirmationPrompter
	progress    ProgressReporter
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, errRecordStoreMissing
	}
	if dependencies.Registry == nil {
		return nil, errTypeRegistryMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	invalidator := dependencies.Invalidator
	if invalidator == nil {
		invalidator = cache.NoopInvalidator{}
	}

	service := &Service{
		logger:      logger,
		recordStore: dependencies.Store,
		registry:    dependencies.Registry,
		invalidator: invalidator,
		prompter:    dependencies.Prompter,
		progress:    dependencies.Progress,
	}

	return service, nil
}

// Execute performs the conversion pipeline: validation, snapshot selection,
// confirmation, per-record conversion, and cache cleanup.
func (service *Service) Execute(executionContext context.Context, options Options) (ConversionReport, error) {
	options.SourceType = strings.TrimSpace(options.SourceType)
	options.TargetType = strings.TrimSpace(options.TargetType)

	if validationError := service.validateOptions(options); validationError != nil {
		return ConversionReport{}, validationError
	}

	report := ConversionReport{
		RunIdentifier: uuid.NewString(),
		DryRun:        options.DryRun,
	}

	statusFilter := strings.TrimSpace(options.Status)
	if len(statusFilter) == 0 {
		statusFilter = store.StatusAny
	}

	service.logger.Info(
		logMessageConversionStartedConstant,
		zap.String(logFieldRunIdentifierConstant, report.RunIdentifier),
		zap.String(logFieldSourceTypeConstant, options.SourceType),
		zap.String(logFieldTargetTypeConstant, options.TargetType),
		zap.String(logFieldStatusFilterConstant, statusFilter),
		zap.Bool(logFieldDryRunConstant, options.DryRun),
	)

	snapshot, selectionError := service.recordStore.SelectRecords(executionContext, store.RecordSelection{
		Type:   options.SourceType,
		Status: statusFilter,
		Limit:  options.Limit,
	})
	if selectionError != nil {
		return ConversionReport{}, fmt.Errorf(selectionFailedErrorTemplateConstant, selectionError)
	}

	report.TotalSelected = len(snapshot)
	if len(snapshot) == 0 {
		return report, nil
	}

	if options.IncludeTaxonomies {
		report.Taxonomies = service.classifyTaxonomies(options)
	}

	if !options.DryRun {
		if confirmationError := service.confirmConversion(options, report); confirmationError != nil {
			return ConversionReport{}, confirmationError
		}
	}

	convertedIdentifiers := make([]int64, 0, len(snapshot))
	for recordIndex, selectedRecord := range snapshot {
		if options.DryRun {
			report.ConvertedCount++
			service.reportProgress(recordIndex+1, len(snapshot))
			continue
		}

		if updateError := service.recordStore.UpdateRecordType(executionContext, selectedRecord.ID, options.TargetType); updateError != nil {
			report.ErrorCount++
			service.logger.Warn(
				logMessageRecordConversionFailedConstant,
				zap.String(logFieldRunIdentifierConstant, report.RunIdentifier),
				zap.Int64(logFieldRecordIdentifierConstant, selectedRecord.ID),
				zap.Error(updateError),
			)
			service.reportProgress(recordIndex+1, len(snapshot))
			continue
		}

		report.ConvertedCount++
		convertedIdentifiers = append(convertedIdentifiers, selectedRecord.ID)

		if options.IncludeTaxonomies {
			service.pruneSourceOnlyRelationships(executionContext, report, selectedRecord.ID)
		}

		service.reportProgress(recordIndex+1, len(snapshot))
	}

	if !options.DryRun && len(convertedIdentifiers) > 0 {
		service.invalidateConvertedRecords(executionContext, report.RunIdentifier, convertedIdentifiers)
	}

	service.logger.Info(
		logMessageConversionCompletedConstant,
		zap.String(logFieldRunIdentifierConstant, report.RunIdentifier),
		zap.Int(logFieldTotalSelectedConstant, report.TotalSelected),
		zap.Int(logFieldConvertedCountConstant, report.ConvertedCount),
		zap.Int(logFieldErrorCountConstant, report.ErrorCount),
		zap.Bool(logFieldDryRunConstant, report.DryRun),
	)

	return report, nil
}

func (service *Service) validateOptions(options Options) error {
	trimmedSourceType := strings.TrimSpace(options.SourceType)
	if len(trimmedSourceType) == 0 {
		return InvalidInputError{FieldName: sourceTypeFieldNameConstant, Message: requiredValueMessageConstant}
	}

	trimmedTargetType := strings.TrimSpace(options.TargetType)
	if len(trimmedTargetType) == 0 {
		return InvalidInputError{FieldName: targetTypeFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if !service.registry.Exists(trimmedSourceType) {
		return InvalidInputError{FieldName: sourceTypeFieldNameConstant, Message: unregisteredTypeMessageConstant}
	}
	if !service.registry.Exists(trimmedTargetType) {
		return InvalidInputError{FieldName: targetTypeFieldNameConstant, Message: unregisteredTypeMessageConstant}
	}

	if trimmedSourceType == trimmedTargetType {
		return InvalidInputError{FieldName: targetTypeFieldNameConstant, Message: identicalTypesMessageConstant}
	}

	return nil
}

func (service *Service) classifyTaxonomies(options Options) TaxonomyClassification {
	sourceTaxonomies, _ := service.registry.SupportedTaxonomies(options.SourceType)
	targetTaxonomies, _ := service.registry.SupportedTaxonomies(options.TargetType)
	return ClassifyTaxonomies(sourceTaxonomies, targetTaxonomies)
}

func (service *Service) confirmConversion(options Options, report ConversionReport) error {
	if options.Confirmed {
		return nil
	}
	if service.prompter == nil {
		return ErrConversionCancelled
	}

	prompt := fmt.Sprintf(confirmationPromptTemplateConstant, report.TotalSelected, options.SourceType, options.TargetType)
	if options.IncludeTaxonomies && len(report.Taxonomies.SourceOnly) > 0 {
		prompt = fmt.Sprintf(taxonomyRemovalPromptTemplateConstant, strings.Join(report.Taxonomies.SourceOnly, taxonomyPromptJoinSeparatorConstant)) + prompt
	}

	confirmed, promptError := service.prompter.Confirm(prompt)
	if promptError != nil {
		return fmt.Errorf(confirmationFailedErrorTemplateConstant, promptError)
	}
	if !confirmed {
		return ErrConversionCancelled
	}

	return nil
}

func (service *Service) pruneSourceOnlyRelationships(executionContext context.Context, report ConversionReport, recordIdentifier int64) {
	for _, taxonomyName := range report.Taxonomies.SourceOnly {
		if pruneError := service.recordStore.DeleteRelationships(executionContext, recordIdentifier, taxonomyName); pruneError != nil {
			service.logger.Warn(
				logMessageRelationshipPruneFailedConst,
				zap.String(logFieldRunIdentifierConstant, report.RunIdentifier),
				zap.Int64(logFieldRecordIdentifierConstant, recordIdentifier),
				zap.String(logFieldTaxonomyNameConstant, taxonomyName),
				zap.Error(pruneError),
			)
		}
	}
}

func (service *Service) invalidateConvertedRecords(executionContext context.Context, runIdentifier string, convertedIdentifiers []int64) {
	for _, recordIdentifier := range convertedIdentifiers {
		if invalidationError := service.invalidator.InvalidateRecord(executionContext, recordIdentifier); invalidationError != nil {
			service.logger.Warn(
				logMessageRecordInvalidationFailedConst,
				zap.String(logFieldRunIdentifierConstant, runIdentifier),
				zap.Int64(logFieldRecordIdentifierConstant, recordIdentifier),
				zap.Error(invalidationError),
			)
		}
	}

	if invalidationError := service.invalidator.InvalidateRoutes(executionContext); invalidationError != nil {
		service.logger.Warn(
			logMessageRouteInvalidationFailedConst,
			zap.String(logFieldRunIdentifierConstant, runIdentifier),
			zap.Error(invalidationError),
		)
	}
}

func (service *Service) reportProgress(completedCount int, totalCount int) {
	if service.progress == nil {
		return
	}
	service.progress(completedCount, totalCount)
}
