package analyzer

// Structured data format names as reported by the extractor.
const (
	FormatJSONLD    = "json-ld"
	FormatMicrodata = "microdata"
	FormatRDFa      = "rdfa"
)

// RawSchema is a single extracted structured-data block: an untyped map
// from property name to value. The value may be a string, a number, a
// nested map, or a slice of either.
type RawSchema map[string]interface{}

// ExtractedData maps a format name to the raw schemas found in that format.
type ExtractedData map[string][]RawSchema

// ValidationResult holds the outcome of validating one schema.
// Valid is true exactly when Errors is empty.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Metrics is the aggregate output of the structured-data pipeline.
// It is built once per analysis and never mutated afterwards.
type Metrics struct {
	TotalSchemas      int      `json:"totalSchemas"`
	ValidSchemas      int      `json:"validSchemas"`
	InvalidSchemas    int      `json:"invalidSchemas"`
	SchemaTypes       []string `json:"schemaTypes"`
	CoverageScore     float64  `json:"coverageScore"`
	QualityScore      float64  `json:"qualityScore"`
	CompletenessScore float64  `json:"completenessScore"`
	SEORelevanceScore float64  `json:"seoRelevanceScore"`
	Errors            []string `json:"errors"`
	Warnings          []string `json:"warnings"`
	Recommendations   []string `json:"recommendations"`

	CoverageExplanation     string `json:"coverageExplanation"`
	QualityExplanation      string `json:"qualityExplanation"`
	CompletenessExplanation string `json:"completenessExplanation"`
	SEORelevanceExplanation string `json:"seoRelevanceExplanation"`
}

// RichResults holds the rich-results eligibility check output.
type RichResults struct {
	Eligible        bool     `json:"eligibleForRichResults"`
	Types           []string `json:"richResultsTypes"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	Score           float64  `json:"score"`
	Recommendations []string `json:"recommendations"`
}

// RobotsAnalysis is the parsed robots.txt policy for the tracked AI bots.
type RobotsAnalysis struct {
	RobotsTxtPresent bool            `json:"robotsTxtPresent"`
	AIBotAccess      map[string]bool `json:"aiBotAccess"`
	SitemapPresent   bool            `json:"sitemapPresent"`
}

// HeadersAnalysis captures the HTTP response headers relevant to crawlers.
type HeadersAnalysis struct {
	StatusCode    int    `json:"statusCode"`
	ContentType   string `json:"contentType"`
	ContentLength string `json:"contentLength"`
	LastModified  string `json:"lastModified"`
	ETag          string `json:"etag"`
	CacheControl  string `json:"cacheControl"`
	XRobotsTag    string `json:"xRobotsTag"`
}

// ContentStructure counts the semantic signals AI crawlers rely on.
type ContentStructure struct {
	StructuredDataCount int            `json:"structuredDataCount"`
	SemanticElements    map[string]int `json:"semanticElements"`
	SemanticHTML5       map[string]int `json:"semanticHtml5"`
	AccessibilityAttrs  map[string]int `json:"accessibilityAttrs"`
}

// Accessibility is the crawler-accessibility pipeline output.
type Accessibility struct {
	Score              float64          `json:"score"`
	RobotsAnalysis     RobotsAnalysis   `json:"robotsAnalysis"`
	HeadersAnalysis    HeadersAnalysis  `json:"headersAnalysis"`
	ContentStructure   ContentStructure `json:"contentStructure"`
	AccessibilityScore int              `json:"accessibilityScore"`
	Summary            string           `json:"summary"`
	Recommendations    []string         `json:"recommendations"`
}

// Report is the complete AEO analysis of a single page.
type Report struct {
	URL                  string         `json:"url"`
	Grade                string         `json:"grade"`
	GradeColor           string         `json:"gradeColor"`
	OverallScore         float64        `json:"overallScore"`
	StructuredData       *Metrics       `json:"structuredData"`
	RichResults          *RichResults   `json:"richResults"`
	CrawlerAccessibility *Accessibility `json:"crawlerAccessibility"`
}
