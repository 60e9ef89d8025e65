package registry_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pressctl/pressctl/internal/registry"
)

const (
	registrySubtestNameTemplateConstant  = "%d_%s"
	testCustomTypeNameConstant           = "article"
	testCustomTaxonomyNameConstant       = "category"
	testSecondCustomTaxonomyNameConstant = "series"
	testCaseBlankNameConstant            = "blank_name_rejected"
	testCaseDuplicateNameConstant        = "duplicate_name_rejected"
	testCaseWhitespaceTrimmedConstant    = "whitespace_trimmed"
	testUnregisteredTypeNameConstant     = "missing_type"
	testBuiltinPostTypeNameConstant      = "post"
	testBuiltinPageTypeNameConstant      = "page"
)

func TestNewRegistryValidatesDefinitions(testInstance *testing.T) {
	testCases := []struct {
		name        string
		definitions []registry.TypeDefinition
		expectError bool
	}{
		{
			name:        testCaseBlankNameConstant,
			definitions: []registry.TypeDefinition{{Name: "   "}},
			expectError: true,
		},
		{
			name: testCaseDuplicateNameConstant,
			definitions: []registry.TypeDefinition{
				{Name: testCustomTypeNameConstant},
				{Name: testCustomTypeNameConstant},
			},
			expectError: true,
		},
		{
			name: testCaseWhitespaceTrimmedConstant,
			definitions: []registry.TypeDefinition{
				{Name: "  " + testCustomTypeNameConstant + "  ", SupportedTaxonomies: []string{" " + testCustomTaxonomyNameConstant + " "}},
			},
			expectError: false,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(registrySubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			typeRegistry, registryError := registry.NewRegistry(testCase.definitions)
			if testCase.expectError {
				require.Error(testInstance, registryError)
				require.Nil(testInstance, typeRegistry)
				return
			}

			require.NoError(testInstance, registryError)
			require.True(testInstance, typeRegistry.Exists(testCustomTypeNameConstant))

			taxonomies, registered := typeRegistry.SupportedTaxonomies(testCustomTypeNameConstant)
			require.True(testInstance, registered)
			require.Equal(testInstance, []string{testCustomTaxonomyNameConstant}, taxonomies)
		})
	}
}

func TestBuiltinRegistryLookups(testInstance *testing.T) {
	typeRegistry := registry.NewBuiltinRegistry()

	require.True(testInstance, typeRegistry.Exists(testBuiltinPostTypeNameConstant))
	require.True(testInstance, typeRegistry.Exists(testBuiltinPageTypeNameConstant))
	require.False(testInstance, typeRegistry.Exists(testUnregisteredTypeNameConstant))

	postTaxonomies, registered := typeRegistry.SupportedTaxonomies(testBuiltinPostTypeNameConstant)
	require.True(testInstance, registered)
	require.Equal(testInstance, []string{"category", "post_format", "post_tag"}, postTaxonomies)

	pageTaxonomies, pageRegistered := typeRegistry.SupportedTaxonomies(testBuiltinPageTypeNameConstant)
	require.True(testInstance, pageRegistered)
	require.Empty(testInstance, pageTaxonomies)

	_, missingRegistered := typeRegistry.SupportedTaxonomies(testUnregisteredTypeNameConstant)
	require.False(testInstance, missingRegistered)
}

func TestMergedRegistryOverlaysBuiltins(testInstance *testing.T) {
	customDefinitions := []registry.TypeDefinition{
		{Name: testCustomTypeNameConstant, SupportedTaxonomies: []string{testCustomTaxonomyNameConstant}},
		{Name: testBuiltinPostTypeNameConstant, SupportedTaxonomies: []string{testSecondCustomTaxonomyNameConstant}},
	}

	mergedRegistry, mergeError := registry.NewMergedRegistry(customDefinitions)
	require.NoError(testInstance, mergeError)

	require.True(testInstance, mergedRegistry.Exists(testCustomTypeNameConstant))
	require.True(testInstance, mergedRegistry.Exists(testBuiltinPageTypeNameConstant))

	overriddenTaxonomies, registered := mergedRegistry.SupportedTaxonomies(testBuiltinPostTypeNameConstant)
	require.True(testInstance, registered)
	require.Equal(testInstance, []string{testSecondCustomTaxonomyNameConstant}, overriddenTaxonomies)
}

func TestDefinitionsReturnsSortedCopies(testInstance *testing.T) {
	typeRegistry, registryError := registry.NewRegistry([]registry.TypeDefinition{
		{Name: "zeta"},
		{Name: "alpha", SupportedTaxonomies: []string{testCustomTaxonomyNameConstant}},
	})
	require.NoError(testInstance, registryError)

	definitions := typeRegistry.Definitions()
	require.Len(testInstance, definitions, 2)
	require.Equal(testInstance, "alpha", definitions[0].Name)
	require.Equal(testInstance, "zeta", definitions[1].Name)

	definitions[0].SupportedTaxonomies[0] = "mutated"
	refreshedTaxonomies, _ := typeRegistry.SupportedTaxonomies("alpha")
	require.Equal(testInstance, []string{testCustomTaxonomyNameConstant}, refreshedTaxonomies)
}
