package store_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/pressctl/pressctl/internal/store"
)

const (
	testSQLiteDriverNameConstant   = "sqlite3"
	testInMemoryDataSourceConstant = ":memory:"
	testTablePrefixConstant        = "wp_"
	testPostTypeNameConstant       = "post"
	testPageTypeNameConstant       = "page"
	testArticleTypeNameConstant    = "article"
	testPublishStatusConstant      = "publish"
	testDraftStatusConstant        = "draft"
	testCategoryTaxonomyConstant   = "category"
	testTagTaxonomyConstant        = "post_tag"
)

const testSchemaStatementsConstant = `
CREATE TABLE wp_posts (
	ID INTEGER PRIMARY KEY,
	post_type TEXT NOT NULL,
	post_status TEXT NOT NULL
);
CREATE TABLE wp_term_taxonomy (
	term_taxonomy_id INTEGER PRIMARY KEY,
	term_id INTEGER NOT NULL,
	taxonomy TEXT NOT NULL
);
CREATE TABLE wp_term_relationships (
	object_id INTEGER NOT NULL,
	term_taxonomy_id INTEGER NOT NULL
);
`

func newTestStore(testInstance *testing.T) (*store.SQLStore, *sqlx.DB) {
	testInstance.Helper()

	databaseHandle, openError := sqlx.Connect(testSQLiteDriverNameConstant, testInMemoryDataSourceConstant)
	require.NoError(testInstance, openError)
	testInstance.Cleanup(func() { _ = databaseHandle.Close() })

	_, schemaError := databaseHandle.Exec(testSchemaStatementsConstant)
	require.NoError(testInstance, schemaError)

	sqlStore, storeError := store.NewSQLStore(databaseHandle, testTablePrefixConstant)
	require.NoError(testInstance, storeError)

	return sqlStore, databaseHandle
}

func seedRecord(testInstance *testing.T, databaseHandle *sqlx.DB, recordIdentifier int64, postType string, postStatus string) {
	testInstance.Helper()
	_, insertError := databaseHandle.Exec(
		"INSERT INTO wp_posts (ID, post_type, post_status) VALUES (?, ?, ?)",
		recordIdentifier, postType, postStatus,
	)
	require.NoError(testInstance, insertError)
}

func seedTaxonomyTerm(testInstance *testing.T, databaseHandle *sqlx.DB, termTaxonomyIdentifier int64, taxonomyName string) {
	testInstance.Helper()
	_, insertError := databaseHandle.Exec(
		"INSERT INTO wp_term_taxonomy (term_taxonomy_id, term_id, taxonomy) VALUES (?, ?, ?)",
		termTaxonomyIdentifier, termTaxonomyIdentifier, taxonomyName,
	)
	require.NoError(testInstance, insertError)
}

func seedRelationship(testInstance *testing.T, databaseHandle *sqlx.DB, recordIdentifier int64, termTaxonomyIdentifier int64) {
	testInstance.Helper()
	_, insertError := databaseHandle.Exec(
		"INSERT INTO wp_term_relationships (object_id, term_taxonomy_id) VALUES (?, ?)",
		recordIdentifier, termTaxonomyIdentifier,
	)
	require.NoError(testInstance, insertError)
}

func relationshipCount(testInstance *testing.T, databaseHandle *sqlx.DB, recordIdentifier int64) int {
	testInstance.Helper()
	recordedCount := 0
	require.NoError(testInstance, databaseHandle.Get(&recordedCount,
		"SELECT COUNT(*) FROM wp_term_relationships WHERE object_id = ?", recordIdentifier))
	return recordedCount
}

func TestNewSQLStoreRequiresDatabaseHandle(testInstance *testing.T) {
	sqlStore, storeError := store.NewSQLStore(nil, testTablePrefixConstant)
	require.Error(testInstance, storeError)
	require.Nil(testInstance, sqlStore)
}

func TestSelectRecordsOrdersAndFilters(testInstance *testing.T) {
	sqlStore, databaseHandle := newTestStore(testInstance)

	seedRecord(testInstance, databaseHandle, 30, testPostTypeNameConstant, testDraftStatusConstant)
	seedRecord(testInstance, databaseHandle, 10, testPostTypeNameConstant, testPublishStatusConstant)
	seedRecord(testInstance, databaseHandle, 20, testPostTypeNameConstant, testPublishStatusConstant)
	seedRecord(testInstance, databaseHandle, 40, testPageTypeNameConstant, testPublishStatusConstant)

	allRecords, selectError := sqlStore.SelectRecords(context.Background(), store.RecordSelection{
		Type:   testPostTypeNameConstant,
		Status: store.StatusAny,
		Limit:  -1,
	})
	require.NoError(testInstance, selectError)
	require.Len(testInstance, allRecords, 3)
	require.Equal(testInstance, int64(10), allRecords[0].ID)
	require.Equal(testInstance, int64(20), allRecords[1].ID)
	require.Equal(testInstance, int64(30), allRecords[2].ID)

	publishedRecords, publishedError := sqlStore.SelectRecords(context.Background(), store.RecordSelection{
		Type:   testPostTypeNameConstant,
		Status: testPublishStatusConstant,
		Limit:  -1,
	})
	require.NoError(testInstance, publishedError)
	require.Len(testInstance, publishedRecords, 2)

	limitedRecords, limitedError := sqlStore.SelectRecords(context.Background(), store.RecordSelection{
		Type:   testPostTypeNameConstant,
		Status: store.StatusAny,
		Limit:  1,
	})
	require.NoError(testInstance, limitedError)
	require.Len(testInstance, limitedRecords, 1)
	require.Equal(testInstance, int64(10), limitedRecords[0].ID)
}

func TestUpdateRecordType(testInstance *testing.T) {
	sqlStore, databaseHandle := newTestStore(testInstance)
	seedRecord(testInstance, databaseHandle, 1, testPostTypeNameConstant, testPublishStatusConstant)

	require.NoError(testInstance, sqlStore.UpdateRecordType(context.Background(), 1, testArticleTypeNameConstant))

	updatedType := ""
	require.NoError(testInstance, databaseHandle.Get(&updatedType, "SELECT post_type FROM wp_posts WHERE ID = 1"))
	require.Equal(testInstance, testArticleTypeNameConstant, updatedType)

	require.Error(testInstance, sqlStore.UpdateRecordType(context.Background(), 99, testArticleTypeNameConstant))
}

func TestDeleteRelationshipsScopedToTaxonomy(testInstance *testing.T) {
	sqlStore, databaseHandle := newTestStore(testInstance)

	seedRecord(testInstance, databaseHandle, 1, testPostTypeNameConstant, testPublishStatusConstant)
	seedRecord(testInstance, databaseHandle, 2, testPostTypeNameConstant, testPublishStatusConstant)
	seedTaxonomyTerm(testInstance, databaseHandle, 100, testCategoryTaxonomyConstant)
	seedTaxonomyTerm(testInstance, databaseHandle, 200, testTagTaxonomyConstant)
	seedRelationship(testInstance, databaseHandle, 1, 100)
	seedRelationship(testInstance, databaseHandle, 1, 200)
	seedRelationship(testInstance, databaseHandle, 2, 200)

	require.NoError(testInstance, sqlStore.DeleteRelationships(context.Background(), 1, testTagTaxonomyConstant))

	require.Equal(testInstance, 1, relationshipCount(testInstance, databaseHandle, 1))
	require.Equal(testInstance, 1, relationshipCount(testInstance, databaseHandle, 2))

	// Deleting under a taxonomy with no registered terms is a no-op.
	require.NoError(testInstance, sqlStore.DeleteRelationships(context.Background(), 1, "missing_taxonomy"))
	require.Equal(testInstance, 1, relationshipCount(testInstance, databaseHandle, 1))
}

func TestCountRecords(testInstance *testing.T) {
	sqlStore, databaseHandle := newTestStore(testInstance)

	seedRecord(testInstance, databaseHandle, 1, testPostTypeNameConstant, testPublishStatusConstant)
	seedRecord(testInstance, databaseHandle, 2, testPostTypeNameConstant, testDraftStatusConstant)
	seedRecord(testInstance, databaseHandle, 3, testPageTypeNameConstant, testPublishStatusConstant)

	postCount, countError := sqlStore.CountRecords(context.Background(), testPostTypeNameConstant)
	require.NoError(testInstance, countError)
	require.Equal(testInstance, 2, postCount)
}

func TestConfigurationSanitizeRestoresDefaults(testInstance *testing.T) {
	sanitized := store.Configuration{Driver: "  ", DSN: "", TablePrefix: " custom_ "}.Sanitize()
	require.Equal(testInstance, "sqlite3", sanitized.Driver)
	require.Equal(testInstance, "wordpress.db", sanitized.DSN)
	require.Equal(testInstance, "custom_", sanitized.TablePrefix)
}
