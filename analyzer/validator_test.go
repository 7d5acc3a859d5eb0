package analyzer

import "testing"

func TestValidateEmptySchema(t *testing.T) {
	r := DefaultRubric()

	result := r.Validate(RawSchema{}, FormatJSONLD)
	if result.Valid {
		t.Error("empty schema should be invalid")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Empty schema" {
		t.Errorf("expected single 'Empty schema' error, got %v", result.Errors)
	}
}

func TestValidateJSONLDMissingContextAndRequiredProperty(t *testing.T) {
	r := DefaultRubric()

	result := r.Validate(RawSchema{"@type": "Organization"}, FormatJSONLD)
	if result.Valid {
		t.Error("schema should be invalid")
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected exactly 2 errors, got %d: %v", len(result.Errors), result.Errors)
	}
	if result.Errors[0] != "JSON-LD schema missing @context" {
		t.Errorf("unexpected first error: %q", result.Errors[0])
	}
	if result.Errors[1] != "Missing required properties for Organization: name" {
		t.Errorf("unexpected second error: %q", result.Errors[1])
	}
}

func TestValidateJSONLDMissingType(t *testing.T) {
	r := DefaultRubric()

	result := r.Validate(RawSchema{"@context": "https://schema.org", "name": "Acme"}, FormatJSONLD)
	if result.Valid {
		t.Error("schema without @type should be invalid")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "JSON-LD schema missing @type" {
		t.Errorf("expected missing @type error, got %v", result.Errors)
	}
}

func TestValidateMicrodataMissingItemType(t *testing.T) {
	r := DefaultRubric()

	result := r.Validate(RawSchema{"name": "Widget"}, FormatMicrodata)
	if result.Valid {
		t.Error("microdata without itemType should be invalid")
	}
	if len(result.Errors) != 1 || result.Errors[0] != "Microdata schema missing itemType" {
		t.Errorf("expected missing itemType error, got %v", result.Errors)
	}
}

func TestValidateValidSchemas(t *testing.T) {
	r := DefaultRubric()

	tests := []struct {
		name   string
		schema RawSchema
		format string
	}{
		{
			name: "organization json-ld",
			schema: RawSchema{
				"@context": "https://schema.org",
				"@type":    "Organization",
				"name":     "Acme Corp",
			},
			format: FormatJSONLD,
		},
		{
			name: "website json-ld",
			schema: RawSchema{
				"@context": "https://schema.org",
				"@type":    "WebSite",
				"name":     "Acme",
				"url":      "https://acme.example",
			},
			format: FormatJSONLD,
		},
		{
			name: "product microdata",
			schema: RawSchema{
				"itemType":    "Product",
				"name":        "Widget",
				"description": "A fine widget",
			},
			format: FormatMicrodata,
		},
		{
			name: "unrecognized type has no required properties",
			schema: RawSchema{
				"@context": "https://schema.org",
				"@type":    "Widget",
			},
			format: FormatJSONLD,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Validate(tt.schema, tt.format)
			if !result.Valid {
				t.Errorf("expected valid, got errors: %v", result.Errors)
			}
			if result.Valid != (len(result.Errors) == 0) {
				t.Error("Valid must mirror an empty error list")
			}
		})
	}
}

func TestResolveSchemaType(t *testing.T) {
	tests := []struct {
		name   string
		schema RawSchema
		want   string
	}{
		{"string @type", RawSchema{"@type": "Organization"}, "Organization"},
		{"array @type takes first string", RawSchema{"@type": []interface{}{"Organization", "Brand"}}, "Organization"},
		{"itemType fallback", RawSchema{"itemType": "Product"}, "Product"},
		{"@type preferred over itemType", RawSchema{"@type": "Article", "itemType": "Product"}, "Article"},
		{"no type", RawSchema{"name": "x"}, ""},
		{"non-string @type ignored", RawSchema{"@type": 42.0, "itemType": "Event"}, "Event"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveSchemaType(tt.schema); got != tt.want {
				t.Errorf("resolveSchemaType() = %q, want %q", got, tt.want)
			}
		})
	}
}
