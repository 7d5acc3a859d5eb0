package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// aiBotAgents is the fixed roster of AI crawler user agents tracked by
// the accessibility checker.
var aiBotAgents = []string{
	"GPTBot",
	"Google-Extended",
	"ClaudeBot",
	"PerplexityBot",
	"CCBot",
	"bingbot",
}

// CrawlerInput carries the raw fetched artifacts the accessibility
// pipeline scores. RobotsTxtPresent is false when robots.txt was absent
// or unfetchable, in which case RobotsTxt is ignored.
type CrawlerInput struct {
	HTML             string
	RobotsTxt        string
	RobotsTxtPresent bool
	Headers          HeadersAnalysis
}

// AnalyzeCrawlerAccessibility scores how reachable and understandable the
// page is for AI crawlers: robots.txt policy, HTTP headers, semantic
// content structure, and a naive extractive summary. Pure; all fetching
// belongs to the caller.
func AnalyzeCrawlerAccessibility(in CrawlerInput) *Accessibility {
	robots := analyzeRobots(in.RobotsTxt, in.RobotsTxtPresent)
	structure := assessContentStructure(in.HTML)
	accessibilityScore := calculateAccessibilityScore(structure)
	summary := extractiveSummary(in.HTML)

	score := 0.0
	if robots.RobotsTxtPresent {
		score += 10
	}
	if robots.SitemapPresent {
		score += 10
	}
	allowed := 0
	for _, ok := range robots.AIBotAccess {
		if ok {
			allowed++
		}
	}
	score += math.Min(10, float64(allowed)/float64(len(aiBotAgents))*10)

	score += math.Min(40, float64(accessibilityScore)*0.4)

	if in.Headers.StatusCode == 200 {
		score += 5
	}
	if strings.HasPrefix(in.Headers.ContentType, "text/html") {
		score += 5
	}
	if in.Headers.XRobotsTag != "" {
		score += 5
	}

	switch {
	case len(summary) > 100:
		score += 15
	case len(summary) > 50:
		score += 10
	default:
		score += 5
	}

	recommendations := []string{}
	if !robots.RobotsTxtPresent {
		recommendations = append(recommendations, "Add robots.txt file to control AI bot access")
	}
	if !robots.SitemapPresent {
		recommendations = append(recommendations, "Add sitemap reference to robots.txt")
	}
	if accessibilityScore < 50 {
		recommendations = append(recommendations, "Improve content structure with semantic HTML elements")
	}
	if structure.StructuredDataCount < 1 {
		recommendations = append(recommendations, "Add structured data markup for better AI understanding")
	}
	if len(summary) < 100 {
		recommendations = append(recommendations, "Add more descriptive content for better AI understanding")
	}

	return &Accessibility{
		Score:              math.Min(100, score),
		RobotsAnalysis:     robots,
		HeadersAnalysis:    in.Headers,
		ContentStructure:   structure,
		AccessibilityScore: accessibilityScore,
		Summary:            summary,
		Recommendations:    recommendations,
	}
}

type robotsBlock struct {
	agents []string
	rules  []string
}

// analyzeRobots resolves per-bot access from robots.txt. Absent robots.txt
// means every tracked bot is allowed and no sitemap is advertised.
//
// A bot is denied only by a literal "Disallow: /" in a block naming it
// (or "*"). Path-prefix disallows like "Disallow: /blog" do NOT deny the
// bot here, and Allow lines never flip a deny back.
func analyzeRobots(robotsTxt string, present bool) RobotsAnalysis {
	access := make(map[string]bool, len(aiBotAgents))
	for _, agent := range aiBotAgents {
		access[agent] = true
	}

	if !present || robotsTxt == "" {
		return RobotsAnalysis{AIBotAccess: access}
	}

	lines := strings.Split(robotsTxt, "\n")

	var blocks []robotsBlock
	var current robotsBlock
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(strings.ToLower(line), "user-agent:") {
			if len(current.agents) > 0 || len(current.rules) > 0 {
				blocks = append(blocks, current)
			}
			agent := strings.TrimSpace(line[len("user-agent:"):])
			current = robotsBlock{agents: []string{agent}}
			continue
		}
		current.rules = append(current.rules, line)
	}
	if len(current.agents) > 0 || len(current.rules) > 0 {
		blocks = append(blocks, current)
	}

	for _, agent := range aiBotAgents {
		for _, block := range blocks {
			if !blockApplies(block, agent) {
				continue
			}
			for _, rule := range block.rules {
				lower := strings.ToLower(rule)
				if !strings.HasPrefix(lower, "disallow:") {
					continue
				}
				path := strings.TrimSpace(lower[len("disallow:"):])
				if path == "/" {
					access[agent] = false
				}
			}
		}
	}

	sitemap := false
	for _, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "sitemap:") {
			sitemap = true
			break
		}
	}

	return RobotsAnalysis{
		RobotsTxtPresent: true,
		AIBotAccess:      access,
		SitemapPresent:   sitemap,
	}
}

func blockApplies(block robotsBlock, agent string) bool {
	for _, a := range block.agents {
		if a == "*" || strings.EqualFold(a, agent) {
			return true
		}
	}
	return false
}

// assessContentStructure counts the semantic signals AI crawlers rely on
// to understand a page.
func assessContentStructure(htmlContent string) ContentStructure {
	structure := ContentStructure{
		SemanticElements:   map[string]int{},
		SemanticHTML5:      map[string]int{},
		AccessibilityAttrs: map[string]int{},
	}

	data := ExtractStructuredData(htmlContent, "")
	structure.StructuredDataCount = len(data[FormatJSONLD])

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return structure
	}

	structure.SemanticElements = map[string]int{
		"headings":   doc.Find("h1, h2, h3, h4, h5, h6").Length(),
		"paragraphs": doc.Find("p").Length(),
		"lists":      doc.Find("ul, ol").Length(),
		"tables":     doc.Find("table").Length(),
		"images":     doc.Find("img").Length(),
		"links":      doc.Find("a[href]").Length(),
	}

	structure.SemanticHTML5 = map[string]int{
		"article": doc.Find("article").Length(),
		"section": doc.Find("section").Length(),
		"header":  doc.Find("header").Length(),
		"footer":  doc.Find("footer").Length(),
		"nav":     doc.Find("nav").Length(),
		"main":    doc.Find("main").Length(),
	}

	structure.AccessibilityAttrs = map[string]int{
		"altText":        doc.Find("img[alt]").Length(),
		"ariaLabels":     doc.Find("[aria-label]").Length(),
		"roleAttributes": doc.Find("[role]").Length(),
		"langAttributes": doc.Find("[lang]").Length(),
	}

	return structure
}

// calculateAccessibilityScore blends the structure counts into a 0-100
// sub-score. Each of the four signal groups contributes at most 25.
func calculateAccessibilityScore(structure ContentStructure) int {
	score := 0

	score += min(25, structure.StructuredDataCount*5)
	score += min(25, sumCounts(structure.SemanticElements)*2)
	score += min(25, sumCounts(structure.SemanticHTML5)*4)
	score += min(25, sumCounts(structure.AccessibilityAttrs)*3)

	return min(100, score)
}

func sumCounts(counts map[string]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	sentencePattern   = regexp.MustCompile(`[.!?]+`)
)

// extractiveSummary strips markup and returns the first three sentences
// of the page text, a stand-in for how an answer engine might preview it.
func extractiveSummary(htmlContent string) string {
	text := tagPattern.ReplaceAllString(htmlContent, " ")
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))

	var sentences []string
	for _, s := range sentencePattern.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= 3 {
		return text
	}
	return strings.Join(sentences[:3], ". ") + "."
}
