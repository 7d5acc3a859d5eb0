package analyzer

import (
	"fmt"
	"strings"
)

// Recommendations derives the ordered list of actionable fixes from the
// metric scores and the observed schema types. Rule order is fixed; each
// rule appends at most one entry except the quality and completeness
// rules, which each contribute a pair.
func (r *Rubric) Recommendations(schemaTypes []string, coverageScore, qualityScore, completenessScore float64) []string {
	recommendations := []string{}

	if coverageScore < 60 {
		recommendations = append(recommendations,
			"Add more important schema types like Organization, WebSite, and WebPage")
	}

	var missingCritical []string
	for _, t := range r.SEOCriticalSchemas {
		if !containsType(schemaTypes, t) {
			missingCritical = append(missingCritical, t)
		}
	}
	if len(missingCritical) > 0 {
		recommendations = append(recommendations,
			fmt.Sprintf("Consider adding these SEO-critical schemas: %s", strings.Join(missingCritical, ", ")))
	}

	if qualityScore < 80 {
		recommendations = append(recommendations,
			"Fix validation errors in existing structured data",
			"Ensure all schemas have required properties")
	}

	if completenessScore < 70 {
		recommendations = append(recommendations,
			"Add more detailed properties to existing schemas",
			"Consider adding nested objects for richer data")
	}

	if containsType(schemaTypes, "Article") || containsType(schemaTypes, "BlogPosting") {
		recommendations = append(recommendations,
			"Ensure article schemas include author, datePublished, and dateModified")
	}
	if containsType(schemaTypes, "Product") {
		recommendations = append(recommendations,
			"Add price, availability, and review data to product schemas")
	}
	if containsType(schemaTypes, "LocalBusiness") {
		recommendations = append(recommendations,
			"Include complete address, phone, and business hours in LocalBusiness schema")
	}

	return recommendations
}
