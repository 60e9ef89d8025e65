package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	databaseHandleMissingMessageConstant = "database handle not configured"
	databaseConnectErrorTemplateConstant = "unable to connect to database: %w"
	selectRecordsErrorTemplateConstant   = "unable to select records: %w"
	updateTypeErrorTemplateConstant      = "unable to update record %d: %w"
	recordNotUpdatedTemplateConstant     = "record %d no longer exists"
	deleteRelationshipsErrorTemplate     = "unable to delete %s relationships for record %d: %w"
	countRecordsErrorTemplateConstant    = "unable to count records: %w"
	postsTableSuffixConstant             = "posts"
	termTaxonomyTableSuffixConstant      = "term_taxonomy"
	termRelationshipsTableSuffixConstant = "term_relationships"
	recordIdentifierColumnConstant       = "ID"
	postTypeColumnConstant               = "post_type"
	postStatusColumnConstant             = "post_status"
	taxonomyColumnConstant               = "taxonomy"
	termTaxonomyIdentifierColumnConstant = "term_taxonomy_id"
	objectIdentifierColumnConstant       = "object_id"
	countExpressionConstant              = "COUNT(*)"
)

// StatusAny disables status filtering during record selection.
const StatusAny = "any"

// Record is a persisted content item with a mutable post type classification.
type Record struct {
	ID     int64  `db:"ID"`
	Type   string `db:"post_type"`
	Status string `db:"post_status"`
}

// RecordSelection describes the predicate for enumerating records.
type RecordSelection struct {
	Type   string
	Status string
	Limit  int
}

var errDatabaseHandleMissing = errors.New(databaseHandleMissingMessageConstant)

// SQLStore executes record operations against a WordPress database schema.
type SQLStore struct {
	databaseHandle *sqlx.DB
	tablePrefix    string
}

// NewSQLStore wraps an open database handle with the configured table prefix.
func NewSQLStore(databaseHandle *sqlx.DB, tablePrefix string) (*SQLStore, error) {
	if databaseHandle == nil {
		return nil, errDatabaseHandleMissing
	}

	return &SQLStore{databaseHandle: databaseHandle, tablePrefix: tablePrefix}, nil
}

// Open connects to the configured database and wraps it in an SQLStore.
func Open(configuration Configuration) (*SQLStore, error) {
	sanitized := configuration.Sanitize()

	databaseHandle, connectError := sqlx.Connect(sanitized.Driver, sanitized.DSN)
	if connectError != nil {
		return nil, fmt.Errorf(databaseConnectErrorTemplateConstant, connectError)
	}

	return NewSQLStore(databaseHandle, sanitized.TablePrefix)
}

// Close releases the underlying database handle.
func (sqlStore *SQLStore) Close() error {
	return sqlStore.databaseHandle.Close()
}

// SelectRecords enumerates records matching the selection in stable identifier order.
func (sqlStore *SQLStore) SelectRecords(executionContext context.Context, selection RecordSelection) ([]Record, error) {
	selectBuilder := sqlbuilder.MySQL.NewSelectBuilder()
	selectBuilder.Select(recordIdentifierColumnConstant, postTypeColumnConstant, postStatusColumnConstant)
	selectBuilder.From(sqlStore.postsTable())
	selectBuilder.Where(selectBuilder.Equal(postTypeColumnConstant, selection.Type))
	if selection.Status != StatusAny && len(selection.Status) > 0 {
		selectBuilder.Where(selectBuilder.Equal(postStatusColumnConstant, selection.Status))
	}
	selectBuilder.OrderBy(recordIdentifierColumnConstant).Asc()
	if selection.Limit >= 0 {
		selectBuilder.Limit(selection.Limit)
	}

	query, arguments := selectBuilder.Build()

	records := []Record{}
	if selectError := sqlStore.databaseHandle.SelectContext(executionContext, &records, query, arguments...); selectError != nil {
		return nil, fmt.Errorf(selectRecordsErrorTemplateConstant, selectError)
	}

	return records, nil
}

// UpdateRecordType atomically rewrites the post type of a single record.
func (sqlStore *SQLStore) UpdateRecordType(executionContext context.Context, recordIdentifier int64, newType string) error {
	updateBuilder := sqlbuilder.MySQL.NewUpdateBuilder()
	updateBuilder.Update(sqlStore.postsTable())
	updateBuilder.Set(updateBuilder.Assign(postTypeColumnConstant, newType))
	updateBuilder.Where(updateBuilder.Equal(recordIdentifierColumnConstant, recordIdentifier))

	query, arguments := updateBuilder.Build()

	executionResult, updateError := sqlStore.databaseHandle.ExecContext(executionContext, query, arguments...)
	if updateError != nil {
		return fmt.Errorf(updateTypeErrorTemplateConstant, recordIdentifier, updateError)
	}

	affectedRows, affectedError := executionResult.RowsAffected()
	if affectedError != nil {
		return fmt.Errorf(updateTypeErrorTemplateConstant, recordIdentifier, affectedError)
	}
	if affectedRows == 0 {
		return fmt.Errorf(recordNotUpdatedTemplateConstant, recordIdentifier)
	}

	return nil
}

// DeleteRelationships removes the record's term relationships under the named taxonomy.
func (sqlStore *SQLStore) DeleteRelationships(executionContext context.Context, recordIdentifier int64, taxonomyName string) error {
	termTaxonomyIdentifiers, lookupError := sqlStore.termTaxonomyIdentifiers(executionContext, taxonomyName)
	if lookupError != nil {
		return fmt.Errorf(deleteRelationshipsErrorTemplate, taxonomyName, recordIdentifier, lookupError)
	}
	if len(termTaxonomyIdentifiers) == 0 {
		return nil
	}

	deleteBuilder := sqlbuilder.MySQL.NewDeleteBuilder()
	deleteBuilder.DeleteFrom(sqlStore.termRelationshipsTable())
	deleteBuilder.Where(
		deleteBuilder.Equal(objectIdentifierColumnConstant, recordIdentifier),
		deleteBuilder.In(termTaxonomyIdentifierColumnConstant, termTaxonomyIdentifiers...),
	)

	query, arguments := deleteBuilder.Build()

	if _, deleteError := sqlStore.databaseHandle.ExecContext(executionContext, query, arguments...); deleteError != nil {
		return fmt.Errorf(deleteRelationshipsErrorTemplate, taxonomyName, recordIdentifier, deleteError)
	}

	return nil
}

// CountRecords reports how many records currently carry the given post type.
func (sqlStore *SQLStore) CountRecords(executionContext context.Context, recordType string) (int, error) {
	selectBuilder := sqlbuilder.MySQL.NewSelectBuilder()
	selectBuilder.Select(countExpressionConstant)
	selectBuilder.From(sqlStore.postsTable())
	selectBuilder.Where(selectBuilder.Equal(postTypeColumnConstant, recordType))

	query, arguments := selectBuilder.Build()

	recordCount := 0
	if countError := sqlStore.databaseHandle.GetContext(executionContext, &recordCount, query, arguments...); countError != nil {
		return 0, fmt.Errorf(countRecordsErrorTemplateConstant, countError)
	}

	return recordCount, nil
}

func (sqlStore *SQLStore) termTaxonomyIdentifiers(executionContext context.Context, taxonomyName string) ([]any, error) {
	selectBuilder := sqlbuilder.MySQL.NewSelectBuilder()
	selectBuilder.Select(termTaxonomyIdentifierColumnConstant)
	selectBuilder.From(sqlStore.termTaxonomyTable())
	selectBuilder.Where(selectBuilder.Equal(taxonomyColumnConstant, taxonomyName))

	query, arguments := selectBuilder.Build()

	identifiers := []int64{}
	if selectError := sqlStore.databaseHandle.SelectContext(executionContext, &identifiers, query, arguments...); selectError != nil {
		return nil, selectError
	}

	builderValues := make([]any, 0, len(identifiers))
	for _, identifier := range identifiers {
		builderValues = append(builderValues, identifier)
	}

	return builderValues, nil
}

func (sqlStore *SQLStore) postsTable() string {
	return sqlStore.tablePrefix + postsTableSuffixConstant
}

func (sqlStore *SQLStore) termTaxonomyTable() string {
	return sqlStore.tablePrefix + termTaxonomyTableSuffixConstant
}

func (sqlStore *SQLStore) termRelationshipsTable() string {
	return sqlStore.tablePrefix + termRelationshipsTableSuffixConstant
}
