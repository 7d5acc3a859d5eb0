package analyzer

import (
	"fmt"
	"strings"
)

// propertyRules drives schema validation for one pipeline. The main
// structured-data validator and the rich-results checker are two
// instances with different tables and classification: the main validator
// treats a missing @context as an error and batches missing required
// properties into one message, while the rich-results checker downgrades
// @context to a warning and reports each missing property separately.
type propertyRules struct {
	required          map[string][]string
	contextIsWarning  bool
	perPropertyErrors bool
}

// evaluate applies the format and required-property rules to one schema.
// Rules are non-exclusive: several may fire for the same schema. An empty
// schema short-circuits with a single error.
func (r propertyRules) evaluate(schema RawSchema, format string) (errs, warns []string) {
	if len(schema) == 0 {
		return []string{"Empty schema"}, nil
	}

	switch format {
	case FormatJSONLD:
		if _, ok := schema["@type"]; !ok {
			errs = append(errs, "JSON-LD schema missing @type")
		}
		if _, ok := schema["@context"]; !ok {
			if r.contextIsWarning {
				warns = append(warns, "JSON-LD schema missing @context")
			} else {
				errs = append(errs, "JSON-LD schema missing @context")
			}
		}
	case FormatMicrodata:
		if _, ok := schema["itemType"]; !ok {
			errs = append(errs, "Microdata schema missing itemType")
		}
	}

	schemaType := resolveSchemaType(schema)
	if schemaType == "" {
		return errs, warns
	}

	var missing []string
	for _, prop := range r.required[schemaType] {
		if _, ok := schema[prop]; !ok {
			missing = append(missing, prop)
		}
	}
	if len(missing) == 0 {
		return errs, warns
	}

	if r.perPropertyErrors {
		for _, prop := range missing {
			errs = append(errs, fmt.Sprintf("%s schema missing required property: %s", schemaType, prop))
		}
	} else {
		errs = append(errs, fmt.Sprintf("Missing required properties for %s: %s", schemaType, strings.Join(missing, ", ")))
	}
	return errs, warns
}

// Validate checks one schema against the rubric's structured-data rules.
// Malformed input is encoded in the result, never returned as an error.
func (r *Rubric) Validate(schema RawSchema, format string) ValidationResult {
	rules := propertyRules{required: r.RequiredProperties}
	errs, _ := rules.evaluate(schema, format)
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// resolveSchemaType determines the declared type of a schema, preferring
// @type over itemType. JSON-LD allows @type to be a list; the first
// string entry wins.
func resolveSchemaType(schema RawSchema) string {
	if v, ok := schema["@type"]; ok {
		if name := typeName(v); name != "" {
			return name
		}
	}
	if v, ok := schema["itemType"]; ok {
		return typeName(v)
	}
	return ""
}

func typeName(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				return s
			}
		}
	}
	return ""
}
