package analyzer

// Rubric is the versioned scoring configuration for the structured-data
// pipeline. A Rubric is immutable once built; scoring functions read it
// and never write to it, so a single instance is safe to share across
// concurrent analyses.
type Rubric struct {
	// SupportedFormats lists the extraction formats in scoring order.
	SupportedFormats []string
	// ImportantSchemas are the recognized high-value schema types.
	ImportantSchemas []string
	// SEOCriticalSchemas is the subset of ImportantSchemas weighted highest.
	SEOCriticalSchemas []string
	// RequiredProperties maps a schema type to the properties it must carry
	// to validate. Types not listed have no required properties.
	RequiredProperties map[string][]string
	// SEOWeights maps a schema type to its SEO relevance weight.
	SEOWeights map[string]int
	// DefaultWeight applies to types missing from SEOWeights.
	DefaultWeight int
}

// DefaultRubric returns the standard AEO scoring rubric.
func DefaultRubric() *Rubric {
	return &Rubric{
		SupportedFormats: []string{FormatJSONLD, FormatMicrodata, FormatRDFa},
		ImportantSchemas: []string{
			"Organization", "WebSite", "WebPage", "Article", "BlogPosting",
			"Product", "Review", "FAQPage", "HowTo", "Recipe", "Event",
			"LocalBusiness", "Person", "BreadcrumbList", "VideoObject",
		},
		SEOCriticalSchemas: []string{
			"Organization", "WebSite", "WebPage", "Article", "BreadcrumbList",
		},
		RequiredProperties: map[string][]string{
			"Organization":  {"name"},
			"WebSite":       {"name", "url"},
			"WebPage":       {"name", "url"},
			"Article":       {"headline", "author", "datePublished"},
			"Product":       {"name", "description"},
			"Person":        {"name"},
			"LocalBusiness": {"name", "address"},
			"Event":         {"name", "startDate"},
			"FAQPage":       {"mainEntity"},
			"HowTo":         {"name", "step"},
			"Recipe":        {"name", "ingredients", "instructions"},
		},
		SEOWeights: map[string]int{
			"Organization":   25,
			"WebSite":        20,
			"WebPage":        15,
			"Article":        20,
			"BlogPosting":    15,
			"Product":        15,
			"Review":         10,
			"FAQPage":        15,
			"HowTo":          10,
			"Recipe":         10,
			"Event":          10,
			"LocalBusiness":  15,
			"Person":         10,
			"BreadcrumbList": 10,
			"VideoObject":    10,
		},
		DefaultWeight: 5,
	}
}

// RichResultsRubric is the rule set for the rich-results eligibility
// checker. It is deliberately a separate table from Rubric: the two
// pipelines diverge on required properties and on how a missing @context
// is classified, and the divergence is externally observable.
type RichResultsRubric struct {
	// SupportedTypes is the allowlist of types eligible for rich results.
	SupportedTypes []string
	// RequiredProperties maps a supported type to the properties Google's
	// guidelines expect for that rich result.
	RequiredProperties map[string][]string
}

// GoogleRichResultsRubric returns the rich-results rule set. This is an
// internal heuristic rubric modeled on Google's published guidelines, not
// a contract with any external service.
func GoogleRichResultsRubric() *RichResultsRubric {
	return &RichResultsRubric{
		SupportedTypes: []string{
			"Article", "BreadcrumbList", "Course", "Event", "FAQPage",
			"HowTo", "JobPosting", "LocalBusiness", "Organization",
			"Product", "QAPage", "Recipe", "Review", "VideoObject",
		},
		RequiredProperties: map[string][]string{
			"Article":        {"headline", "image", "datePublished"},
			"BreadcrumbList": {"itemListElement"},
			"Course":         {"name", "description"},
			"Event":          {"name", "startDate", "location"},
			"FAQPage":        {"mainEntity"},
			"HowTo":          {"name", "step"},
			"JobPosting":     {"title", "hiringOrganization", "datePosted"},
			"LocalBusiness":  {"name", "address"},
			"Organization":   {"name", "url"},
			"Product":        {"name", "image", "offers"},
			"QAPage":         {"mainEntity"},
			"Recipe":         {"name", "image", "recipeIngredient"},
			"Review":         {"itemReviewed", "reviewRating", "author"},
			"VideoObject":    {"name", "thumbnailUrl", "uploadDate"},
		},
	}
}

func (g *RichResultsRubric) supports(schemaType string) bool {
	for _, t := range g.SupportedTypes {
		if t == schemaType {
			return true
		}
	}
	return false
}
