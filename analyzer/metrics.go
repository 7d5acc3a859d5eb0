package analyzer

import (
	"fmt"
	"math"
	"strings"
)

// Analyze runs the full structured-data pipeline over extracted schemas:
// validation, the four metric calculators, their explanations, and the
// recommendation rules. It is pure and performs no I/O.
func (r *Rubric) Analyze(data ExtractedData) *Metrics {
	m := &Metrics{
		SchemaTypes:     []string{},
		Errors:          []string{},
		Warnings:        []string{},
		Recommendations: []string{},
	}

	for _, format := range r.SupportedFormats {
		for _, schema := range data[format] {
			m.TotalSchemas++
			if schemaType := resolveSchemaType(schema); schemaType != "" {
				m.SchemaTypes = append(m.SchemaTypes, schemaType)
			}
			result := r.Validate(schema, format)
			if result.Valid {
				m.ValidSchemas++
			} else {
				m.InvalidSchemas++
				m.Errors = append(m.Errors, result.Errors...)
			}
		}
	}

	m.CoverageScore = r.CoverageScore(m.SchemaTypes)
	m.QualityScore = QualityScore(m.ValidSchemas, m.TotalSchemas)
	m.CompletenessScore = r.CompletenessScore(data)
	m.SEORelevanceScore = r.SEORelevanceScore(m.SchemaTypes)

	m.CoverageExplanation = r.coverageExplanation(m.SchemaTypes, m.CoverageScore)
	m.QualityExplanation = qualityExplanation(m.ValidSchemas, m.TotalSchemas, m.QualityScore)
	m.CompletenessExplanation = r.completenessExplanation(data, m.CompletenessScore)
	m.SEORelevanceExplanation = r.seoRelevanceExplanation(m.SchemaTypes, m.SEORelevanceScore)

	m.Recommendations = r.Recommendations(m.SchemaTypes, m.CoverageScore, m.QualityScore, m.CompletenessScore)

	return m
}

// errorMetrics produces the fully populated zero-valued Metrics used when
// the page could not be fetched or analyzed at all.
func errorMetrics(errs []string) *Metrics {
	return &Metrics{
		SchemaTypes:             []string{},
		Errors:                  errs,
		Warnings:                []string{},
		Recommendations:         []string{"Fix the errors above to enable structured data analysis"},
		CoverageExplanation:     "Unable to analyze coverage due to errors.",
		QualityExplanation:      "Unable to analyze quality due to errors.",
		CompletenessExplanation: "Unable to analyze completeness due to errors.",
		SEORelevanceExplanation: "Unable to analyze SEO relevance due to errors.",
	}
}

// uniqueTypes deduplicates a type list preserving first-seen order.
func uniqueTypes(schemaTypes []string) []string {
	seen := make(map[string]bool, len(schemaTypes))
	unique := make([]string, 0, len(schemaTypes))
	for _, t := range schemaTypes {
		if !seen[t] {
			seen[t] = true
			unique = append(unique, t)
		}
	}
	return unique
}

func containsType(schemaTypes []string, schemaType string) bool {
	for _, t := range schemaTypes {
		if t == schemaType {
			return true
		}
	}
	return false
}

// CoverageScore measures how well the page covers the rubric's important
// schema types: up to 60 points for important types plus a bonus of up to
// 40 for the SEO-critical subset.
func (r *Rubric) CoverageScore(schemaTypes []string) float64 {
	if len(schemaTypes) == 0 {
		return 0
	}

	unique := uniqueTypes(schemaTypes)

	importantFound := 0
	for _, t := range r.ImportantSchemas {
		if containsType(unique, t) {
			importantFound++
		}
	}
	base := float64(importantFound) / float64(len(r.ImportantSchemas)) * 60

	criticalFound := 0
	for _, t := range r.SEOCriticalSchemas {
		if containsType(unique, t) {
			criticalFound++
		}
	}
	bonus := float64(criticalFound) / float64(len(r.SEOCriticalSchemas)) * 40

	return math.Min(100, base+bonus)
}

func (r *Rubric) coverageExplanation(schemaTypes []string, score float64) string {
	if len(schemaTypes) == 0 {
		return "No structured data found. Add any schema types to start improving your coverage score."
	}

	unique := uniqueTypes(schemaTypes)

	var missingImportant, missingCritical []string
	for _, t := range r.ImportantSchemas {
		if !containsType(unique, t) {
			missingImportant = append(missingImportant, t)
		}
	}
	for _, t := range r.SEOCriticalSchemas {
		if !containsType(unique, t) {
			missingCritical = append(missingCritical, t)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d schema type(s): %s. ", len(unique), strings.Join(unique, ", "))

	if len(missingCritical) > 0 {
		fmt.Fprintf(&b, "Missing SEO-critical schemas: %s. ", strings.Join(missingCritical, ", "))
	}
	if len(missingImportant) > 0 {
		shown := missingImportant
		if len(shown) > 5 {
			shown = shown[:5]
		}
		fmt.Fprintf(&b, "Missing important schemas: %s. ", strings.Join(shown, ", "))
		if len(missingImportant) > 5 {
			fmt.Fprintf(&b, "and %d more. ", len(missingImportant)-5)
		}
	}

	switch {
	case score < 30:
		b.WriteString("Add Organization and WebSite schemas to significantly improve your score.")
	case score < 60:
		b.WriteString("Add more content-specific schemas like Article, Product, or LocalBusiness.")
	case score < 80:
		b.WriteString("Consider adding specialized schemas like FAQPage, HowTo, or Review.")
	}

	return b.String()
}

// QualityScore is the share of schemas that validate, on a 0-100 scale.
func QualityScore(validSchemas, totalSchemas int) float64 {
	if totalSchemas == 0 {
		return 0
	}
	return float64(validSchemas) / float64(totalSchemas) * 100
}

func qualityExplanation(validSchemas, totalSchemas int, score float64) string {
	if totalSchemas == 0 {
		return "No schemas found to validate."
	}

	invalid := totalSchemas - validSchemas

	switch {
	case score == 100:
		return fmt.Sprintf("Excellent! All %d schema(s) are valid and properly formatted.", validSchemas)
	case score >= 80:
		return fmt.Sprintf("Good quality. %d/%d schemas are valid. %d schema(s) have validation errors.", validSchemas, totalSchemas, invalid)
	case score >= 60:
		return fmt.Sprintf("Moderate quality. %d/%d schemas are valid. %d schema(s) need fixing.", validSchemas, totalSchemas, invalid)
	default:
		return fmt.Sprintf("Poor quality. Only %d/%d schemas are valid. %d schema(s) have serious validation errors that need immediate attention.", validSchemas, totalSchemas, invalid)
	}
}

// CompletenessScore rewards data richness: format variety, property-rich
// JSON-LD schemas, and nested typed structures. Capped at 100.
func (r *Rubric) CompletenessScore(data ExtractedData) float64 {
	score := 0.0

	formatsPresent := 0
	for _, format := range r.SupportedFormats {
		if len(data[format]) > 0 {
			formatsPresent++
		}
	}
	score += float64(formatsPresent) / float64(len(r.SupportedFormats)) * 30

	richContent := 0.0
	for _, schema := range data[FormatJSONLD] {
		if len(schema) > 5 {
			richContent += 10
		}
	}
	score += math.Min(40, richContent)

	for _, schema := range data[FormatJSONLD] {
		if hasNestedSchema(schema) {
			score += 15
		}
	}

	return math.Min(100, score)
}

func (r *Rubric) completenessExplanation(data ExtractedData, score float64) string {
	if score == 0 {
		return "No structured data found. Add any schema to start improving completeness."
	}

	formatsPresent := 0
	totalSchemas := 0
	for _, format := range r.SupportedFormats {
		if len(data[format]) > 0 {
			formatsPresent++
		}
		totalSchemas += len(data[format])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d schema(s) in %d format(s). ", totalSchemas, formatsPresent)

	switch {
	case score < 30:
		b.WriteString("Schemas are very basic. Add more properties like descriptions, images, dates, and contact information.")
	case score < 60:
		b.WriteString("Schemas need more detail. Add nested objects, rich content, and comprehensive property sets.")
	case score < 80:
		b.WriteString("Good detail level. Consider adding more specialized properties and nested structures.")
	default:
		b.WriteString("Excellent completeness with rich, detailed structured data.")
	}

	return b.String()
}

// hasNestedSchema reports whether any direct property value is itself a
// typed schema object, or a list containing one. The check is one level
// deep, not recursive.
func hasNestedSchema(schema RawSchema) bool {
	for _, value := range schema {
		switch v := value.(type) {
		case map[string]interface{}:
			if isTyped(v) {
				return true
			}
		case []interface{}:
			for _, item := range v {
				if nested, ok := item.(map[string]interface{}); ok && isTyped(nested) {
					return true
				}
			}
		}
	}
	return false
}

func isTyped(obj map[string]interface{}) bool {
	if _, ok := obj["@type"]; ok {
		return true
	}
	_, ok := obj["itemType"]
	return ok
}

// SEORelevanceScore sums the rubric weight of each distinct type found,
// capped at 100. Duplicate and reordered type lists score identically.
func (r *Rubric) SEORelevanceScore(schemaTypes []string) float64 {
	if len(schemaTypes) == 0 {
		return 0
	}

	total := 0
	for _, t := range uniqueTypes(schemaTypes) {
		if weight, ok := r.SEOWeights[t]; ok {
			total += weight
		} else {
			total += r.DefaultWeight
		}
	}
	return math.Min(100, float64(total))
}

// highValueSchemas are the content types called out in the SEO relevance
// explanation as especially valuable.
var highValueSchemas = []string{"Article", "Product", "Review", "FAQPage", "LocalBusiness"}

func (r *Rubric) seoRelevanceExplanation(schemaTypes []string, score float64) string {
	if len(schemaTypes) == 0 {
		return "No structured data found. Add SEO-critical schemas like Organization and WebSite to improve search rankings."
	}

	unique := uniqueTypes(schemaTypes)

	var criticalFound, highValueFound []string
	for _, t := range unique {
		if containsType(r.SEOCriticalSchemas, t) {
			criticalFound = append(criticalFound, t)
		}
		if containsType(highValueSchemas, t) {
			highValueFound = append(highValueFound, t)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d schema type(s). ", len(unique))

	if len(criticalFound) > 0 {
		fmt.Fprintf(&b, "SEO-critical schemas present: %s. ", strings.Join(criticalFound, ", "))
	} else {
		b.WriteString("Missing SEO-critical schemas (Organization, WebSite, WebPage). ")
	}
	if len(highValueFound) > 0 {
		fmt.Fprintf(&b, "High-value schemas found: %s. ", strings.Join(highValueFound, ", "))
	}

	switch {
	case score < 30:
		b.WriteString("Add Organization schema (25 points) and WebSite schema (20 points) for immediate improvement.")
	case score < 60:
		b.WriteString("Add Article, Product, or LocalBusiness schemas to boost SEO relevance.")
	case score < 80:
		b.WriteString("Consider adding Review, FAQPage, or HowTo schemas for specialized content.")
	default:
		b.WriteString("Excellent SEO relevance with comprehensive schema coverage.")
	}

	return b.String()
}
