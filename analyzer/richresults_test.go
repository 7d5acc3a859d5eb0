package analyzer

import "testing"

func TestRichResultsNoData(t *testing.T) {
	g := GoogleRichResultsRubric()

	result := g.Validate(ExtractedData{})

	if result.Eligible {
		t.Error("no data should not be eligible")
	}
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
	if len(result.Errors) != 1 || result.Errors[0] != "No structured data found" {
		t.Errorf("Errors = %v, want single 'No structured data found'", result.Errors)
	}
	if len(result.Recommendations) == 0 {
		t.Error("expected a recommendation to add structured data")
	}
}

func TestRichResultsCompleteOrganization(t *testing.T) {
	g := GoogleRichResultsRubric()

	data := ExtractedData{
		FormatJSONLD: []RawSchema{
			{
				"@context": "https://schema.org",
				"@type":    "Organization",
				"name":     "Acme Corp",
				"url":      "https://acme.example",
			},
		},
	}

	result := g.Validate(data)

	if !result.Eligible {
		t.Error("complete Organization schema should be eligible")
	}
	if len(result.Types) != 1 || result.Types[0] != "Organization" {
		t.Errorf("Types = %v, want [Organization]", result.Types)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	// 40 base + 20 JSON-LD + 5 for one supported type.
	if result.Score != 65 {
		t.Errorf("Score = %v, want 65", result.Score)
	}
}

func TestRichResultsMissingContextIsWarning(t *testing.T) {
	g := GoogleRichResultsRubric()
	r := DefaultRubric()

	schema := RawSchema{
		"@type": "Organization",
		"name":  "Acme",
		"url":   "https://acme.example",
	}

	result := g.Validate(ExtractedData{FormatJSONLD: []RawSchema{schema}})
	if len(result.Errors) != 0 {
		t.Errorf("missing @context must not be an error here, got %v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != "JSON-LD schema missing @context" {
		t.Errorf("Warnings = %v, want single missing @context warning", result.Warnings)
	}
	if !result.Eligible {
		t.Error("a warning must not block eligibility")
	}
	if result.Score != 63 {
		t.Errorf("Score = %v, want 63", result.Score)
	}

	// The structured-data validator treats the same omission as an error.
	validation := r.Validate(schema, FormatJSONLD)
	if validation.Valid {
		t.Error("the structured-data validator should reject a missing @context")
	}
}

func TestRichResultsPerPropertyErrors(t *testing.T) {
	g := GoogleRichResultsRubric()

	data := ExtractedData{
		FormatJSONLD: []RawSchema{
			{
				"@context": "https://schema.org",
				"@type":    "Article",
			},
		},
	}

	result := g.Validate(data)

	want := []string{
		"Article schema missing required property: headline",
		"Article schema missing required property: image",
		"Article schema missing required property: datePublished",
	}
	if len(result.Errors) != len(want) {
		t.Fatalf("Errors = %v, want %d separate property errors", result.Errors, len(want))
	}
	for i, e := range want {
		if result.Errors[i] != e {
			t.Errorf("Errors[%d] = %q, want %q", i, result.Errors[i], e)
		}
	}
	if !result.Eligible {
		t.Error("a supported type stays eligible despite property errors")
	}
	// 40 + 20 + 5 - 15 from three errors.
	if result.Score != 50 {
		t.Errorf("Score = %v, want 50", result.Score)
	}
}

func TestRichResultsMicrodataOnly(t *testing.T) {
	g := GoogleRichResultsRubric()

	data := ExtractedData{
		FormatMicrodata: []RawSchema{
			{
				"itemType":    "Product",
				"name":        "Widget",
				"description": "A fine widget",
			},
		},
	}

	result := g.Validate(data)

	if result.Eligible {
		t.Error("microdata alone should not be eligible")
	}
	var sawFormat, sawTypes bool
	for _, w := range result.Warnings {
		switch w {
		case "JSON-LD format not detected":
			sawFormat = true
		case "No specific rich results types identified":
			sawTypes = true
		}
	}
	if !sawFormat || !sawTypes {
		t.Errorf("Warnings = %v, want format and type warnings", result.Warnings)
	}
	// 40 base - 4 from two warnings.
	if result.Score != 36 {
		t.Errorf("Score = %v, want 36", result.Score)
	}
}

func TestRichResultsDeduplicatesTypes(t *testing.T) {
	g := GoogleRichResultsRubric()

	data := ExtractedData{
		FormatJSONLD: []RawSchema{
			{"@context": "x", "@type": "FAQPage", "mainEntity": []interface{}{}},
			{"@context": "x", "@type": "FAQPage", "mainEntity": []interface{}{}},
		},
	}

	result := g.Validate(data)
	if len(result.Types) != 1 || result.Types[0] != "FAQPage" {
		t.Errorf("Types = %v, want single FAQPage entry", result.Types)
	}
}
