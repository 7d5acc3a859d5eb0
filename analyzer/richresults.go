package analyzer

import "math"

// Validate runs the rich-results eligibility check over extracted
// schemas. A page is eligible when it carries at least one structured
// data block of any format and at least one JSON-LD schema whose resolved
// type is on the supported-type allowlist.
//
// Unlike Rubric.Validate, missing required properties are reported one
// error per property and a missing @context is only a warning. The two
// rule sets look similar but score differently; keep them apart.
func (g *RichResultsRubric) Validate(data ExtractedData) *RichResults {
	result := &RichResults{
		Types:           []string{},
		Errors:          []string{},
		Warnings:        []string{},
		Recommendations: []string{},
	}

	totalSchemas := 0
	for _, schemas := range data {
		totalSchemas += len(schemas)
	}
	if totalSchemas == 0 {
		result.Errors = append(result.Errors, "No structured data found")
		result.Recommendations = append(result.Recommendations, "Add structured data markup to your page")
		return result
	}

	rules := propertyRules{
		required:          g.RequiredProperties,
		contextIsWarning:  true,
		perPropertyErrors: true,
	}

	jsonLD := data[FormatJSONLD]
	seen := map[string]bool{}
	for _, schema := range jsonLD {
		errs, warns := rules.evaluate(schema, FormatJSONLD)
		result.Errors = append(result.Errors, errs...)
		result.Warnings = append(result.Warnings, warns...)

		if schemaType := resolveSchemaType(schema); schemaType != "" && g.supports(schemaType) && !seen[schemaType] {
			seen[schemaType] = true
			result.Types = append(result.Types, schemaType)
		}
	}

	result.Eligible = len(result.Types) > 0

	if len(jsonLD) == 0 {
		result.Warnings = append(result.Warnings, "JSON-LD format not detected")
		result.Recommendations = append(result.Recommendations, "Consider using JSON-LD format for better compatibility")
	}
	if len(result.Types) == 0 {
		result.Warnings = append(result.Warnings, "No specific rich results types identified")
		result.Recommendations = append(result.Recommendations, "Add specific schema types like Organization, Article, or Product")
	}
	if !hasResolvedType(data, "Organization") {
		result.Recommendations = append(result.Recommendations, "Add Organization schema for better search visibility")
	}
	if !hasResolvedType(data, "WebSite") {
		result.Recommendations = append(result.Recommendations, "Add WebSite schema for site-wide information")
	}

	score := 40.0
	if len(jsonLD) > 0 {
		score += 20
	}
	score += math.Min(20, float64(len(result.Types))*5)
	score -= math.Min(30, float64(len(result.Errors))*5)
	score -= math.Min(10, float64(len(result.Warnings))*2)
	result.Score = math.Min(100, math.Max(0, score))

	return result
}

func hasResolvedType(data ExtractedData, schemaType string) bool {
	for _, schemas := range data {
		for _, schema := range schemas {
			if resolveSchemaType(schema) == schemaType {
				return true
			}
		}
	}
	return false
}
