package registry

import (
	"fmt"
	"sort"
	"strings"
)

const (
	blankTypeNameMessageConstant          = "post type definitions must carry a non-empty name"
	duplicateTypeNameTemplateConstant     = "duplicate post type definition: %s"
	builtinPostTypeNameConstant           = "post"
	builtinPageTypeNameConstant           = "page"
	builtinAttachmentTypeNameConstant     = "attachment"
	builtinNavigationItemTypeNameConstant = "nav_menu_item"
	categoryTaxonomyNameConstant          = "category"
	postTagTaxonomyNameConstant           = "post_tag"
	postFormatTaxonomyNameConstant        = "post_format"
)

// TypeDefinition describes a registered post type and the taxonomies legally associable with it.
type TypeDefinition struct {
	Name                string   `yaml:"name"`
	SupportedTaxonomies []string `yaml:"taxonomies"`
}

// Registry answers post type lookups for a fixed set of definitions.
type Registry struct {
	definitionsByName map[string]TypeDefinition
}

// BuiltinDefinitions returns the post types every WordPress installation registers.
func BuiltinDefinitions() []TypeDefinition {
	return []TypeDefinition{
		{Name: builtinPostTypeNameConstant, SupportedTaxonomies: []string{categoryTaxonomyNameConstant, postTagTaxonomyNameConstant, postFormatTaxonomyNameConstant}},
		{Name: builtinPageTypeNameConstant},
		{Name: builtinAttachmentTypeNameConstant},
		{Name: builtinNavigationItemTypeNameConstant},
	}
}

// NewRegistry constructs a Registry from the provided definitions.
func NewRegistry(definitions []TypeDefinition) (*Registry, error) {
	definitionsByName := make(map[string]TypeDefinition, len(definitions))
	for _, definition := range definitions {
		trimmedName := strings.TrimSpace(definition.Name)
		if len(trimmedName) == 0 {
			return nil, fmt.Errorf(blankTypeNameMessageConstant)
		}
		if _, alreadyRegistered := definitionsByName[trimmedName]; alreadyRegistered {
			return nil, fmt.Errorf(duplicateTypeNameTemplateConstant, trimmedName)
		}

		definitionsByName[trimmedName] = TypeDefinition{
			Name:                trimmedName,
			SupportedTaxonomies: normalizeTaxonomies(definition.SupportedTaxonomies),
		}
	}

	return &Registry{definitionsByName: definitionsByName}, nil
}

// NewBuiltinRegistry constructs a Registry holding only the builtin definitions.
func NewBuiltinRegistry() *Registry {
	builtinRegistry, _ := NewRegistry(BuiltinDefinitions())
	return builtinRegistry
}

// NewMergedRegistry overlays custom definitions over the builtin set; custom definitions win on name collision.
func NewMergedRegistry(customDefinitions []TypeDefinition) (*Registry, error) {
	customRegistry, customError := NewRegistry(customDefinitions)
	if customError != nil {
		return nil, customError
	}

	mergedDefinitions := customRegistry.Definitions()
	for _, builtinDefinition := range BuiltinDefinitions() {
		if _, overridden := customRegistry.definitionsByName[builtinDefinition.Name]; overridden {
			continue
		}
		mergedDefinitions = append(mergedDefinitions, builtinDefinition)
	}

	return NewRegistry(mergedDefinitions)
}

// Exists reports whether the named post type is registered.
func (typeRegistry *Registry) Exists(typeName string) bool {
	_, registered := typeRegistry.definitionsByName[strings.TrimSpace(typeName)]
	return registered
}

// SupportedTaxonomies returns a sorted copy of the taxonomies supported by the named post type.
func (typeRegistry *Registry) SupportedTaxonomies(typeName string) ([]string, bool) {
	definition, registered := typeRegistry.definitionsByName[strings.TrimSpace(typeName)]
	if !registered {
		return nil, false
	}

	taxonomies := make([]string, len(definition.SupportedTaxonomies))
	copy(taxonomies, definition.SupportedTaxonomies)
	return taxonomies, true
}

// Definitions returns name-sorted copies of every registered definition.
func (typeRegistry *Registry) Definitions() []TypeDefinition {
	definitions := make([]TypeDefinition, 0, len(typeRegistry.definitionsByName))
	for _, definition := range typeRegistry.definitionsByName {
		taxonomies := make([]string, len(definition.SupportedTaxonomies))
		copy(taxonomies, definition.SupportedTaxonomies)
		definitions = append(definitions, TypeDefinition{Name: definition.Name, SupportedTaxonomies: taxonomies})
	}

	sort.Slice(definitions, func(firstIndex, secondIndex int) bool {
		return definitions[firstIndex].Name < definitions[secondIndex].Name
	})

	return definitions
}

func normalizeTaxonomies(taxonomies []string) []string {
	normalized := make([]string, 0, len(taxonomies))
	seenTaxonomies := make(map[string]struct{}, len(taxonomies))
	for _, taxonomyName := range taxonomies {
		trimmedTaxonomy := strings.TrimSpace(taxonomyName)
		if len(trimmedTaxonomy) == 0 {
			continue
		}
		if _, alreadySeen := seenTaxonomies[trimmedTaxonomy]; alreadySeen {
			continue
		}
		seenTaxonomies[trimmedTaxonomy] = struct{}{}
		normalized = append(normalized, trimmedTaxonomy)
	}

	sort.Strings(normalized)
	return normalized
}
