package posttype

import "sort"

// TaxonomyClassification partitions the source and target taxonomy sets.
// Shared taxonomies survive conversion unchanged, source-only relationships
// are deleted for every converted record, and target-only taxonomies start
// empty under the new type.
type TaxonomyClassification struct {
	Shared     []string
	SourceOnly []string
	TargetOnly []string
}

// ClassifyTaxonomies computes the three-way classification between the taxonomies of two post types.
func ClassifyTaxonomies(sourceTaxonomies []string, targetTaxonomies []string) TaxonomyClassification {
	targetTaxonomySet := make(map[string]struct{}, len(targetTaxonomies))
	for _, taxonomyName := range targetTaxonomies {
		targetTaxonomySet[taxonomyName] = struct{}{}
	}

	sourceTaxonomySet := make(map[string]struct{}, len(sourceTaxonomies))
	classification := TaxonomyClassification{}
	for _, taxonomyName := range sourceTaxonomies {
		if _, alreadySeen := sourceTaxonomySet[taxonomyName]; alreadySeen {
			continue
		}
		sourceTaxonomySet[taxonomyName] = struct{}{}

		if _, sharedWithTarget := targetTaxonomySet[taxonomyName]; sharedWithTarget {
			classification.Shared = append(classification.Shared, taxonomyName)
		} else {
			classification.SourceOnly = append(classification.SourceOnly, taxonomyName)
		}
	}

	targetOnlySet := make(map[string]struct{}, len(targetTaxonomies))
	for _, taxonomyName := range targetTaxonomies {
		if _, sharedWithSource := sourceTaxonomySet[taxonomyName]; sharedWithSource {
			continue
		}
		if _, alreadySeen := targetOnlySet[taxonomyName]; alreadySeen {
			continue
		}
		targetOnlySet[taxonomyName] = struct{}{}
		classification.TargetOnly = append(classification.TargetOnly, taxonomyName)
	}

	sort.Strings(classification.Shared)
	sort.Strings(classification.SourceOnly)
	sort.Strings(classification.TargetOnly)

	return classification
}
