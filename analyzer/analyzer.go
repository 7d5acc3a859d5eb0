package analyzer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/aeo-checker/backend/stats"
)

// cacheEntry pairs a finished report with its creation time.
type cacheEntry struct {
	report    *Report
	timestamp time.Time
}

// CacheStats provides statistics about the analyzer's report cache.
type CacheStats struct {
	Entries  int           `json:"entries"`
	Hits     int           `json:"hits"`
	Misses   int           `json:"misses"`
	CacheTTL time.Duration `json:"cacheTtl"`
}

// Analyzer fetches a page and its robots.txt and runs the three scoring
// pipelines over them. The pipelines themselves are pure; the Analyzer
// owns all network I/O, the report cache, and the usage statistics.
type Analyzer struct {
	client          *http.Client
	rubric          *Rubric
	richRubric      *RichResultsRubric
	cache           map[string]cacheEntry
	cacheMutex      sync.RWMutex
	cacheTTL        time.Duration
	maxCacheSize    int
	lastCleanup     time.Time
	cleanupInterval time.Duration
	stats           *stats.Storage
}

// New creates an Analyzer with the default rubrics and a tuned HTTP
// client. dataDir is where usage statistics are persisted.
func New(dataDir string) (*Analyzer, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  false,
	}

	statsStorage, err := stats.NewStorage(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stats storage: %w", err)
	}

	a := &Analyzer{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
		rubric:          DefaultRubric(),
		richRubric:      GoogleRichResultsRubric(),
		cache:           make(map[string]cacheEntry),
		cacheTTL:        30 * time.Minute,
		maxCacheSize:    1000,
		cleanupInterval: 5 * time.Minute,
		lastCleanup:     time.Now(),
		stats:           statsStorage,
	}

	go a.periodicCleanup()

	return a, nil
}

// periodicCleanup removes expired cache entries periodically.
func (a *Analyzer) periodicCleanup() {
	ticker := time.NewTicker(a.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		a.cleanup()
	}
}

// cleanup removes expired entries and enforces the cache size limit,
// evicting oldest entries first.
func (a *Analyzer) cleanup() {
	now := time.Now()

	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()

	for key, entry := range a.cache {
		if now.Sub(entry.timestamp) > a.cacheTTL {
			delete(a.cache, key)
		}
	}

	if len(a.cache) > a.maxCacheSize {
		entries := make([]struct {
			key       string
			timestamp time.Time
		}, 0, len(a.cache))
		for key, entry := range a.cache {
			entries = append(entries, struct {
				key       string
				timestamp time.Time
			}{key, entry.timestamp})
		}

		sort.Slice(entries, func(i, j int) bool {
			return entries[i].timestamp.Before(entries[j].timestamp)
		})

		for i := 0; i < len(entries)-a.maxCacheSize; i++ {
			delete(a.cache, entries[i].key)
		}
	}

	a.lastCleanup = now
}

// SetCacheTTL sets the report cache TTL.
func (a *Analyzer) SetCacheTTL(ttl time.Duration) {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cacheTTL = ttl
}

// SetMaxCacheSize sets the maximum number of cached reports.
func (a *Analyzer) SetMaxCacheSize(size int) {
	a.cacheMutex.Lock()
	a.maxCacheSize = size
	a.cacheMutex.Unlock()
	a.cleanup()
}

// ClearCache drops all cached reports.
func (a *Analyzer) ClearCache() {
	a.cacheMutex.Lock()
	defer a.cacheMutex.Unlock()
	a.cache = make(map[string]cacheEntry)
}

// IsCached checks whether a fresh report for the URL is cached.
func (a *Analyzer) IsCached(pageURL string) bool {
	key := cacheKey(pageURL)
	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()

	entry, found := a.cache[key]
	return found && time.Since(entry.timestamp) < a.cacheTTL
}

// GetCacheStats returns statistics about the report cache.
func (a *Analyzer) GetCacheStats() CacheStats {
	current := a.stats.GetCurrentStats()

	a.cacheMutex.RLock()
	defer a.cacheMutex.RUnlock()

	return CacheStats{
		Entries:  len(a.cache),
		Hits:     current.CacheHits,
		Misses:   current.CacheMisses,
		CacheTTL: a.cacheTTL,
	}
}

func cacheKey(pageURL string) string {
	hash := md5.Sum([]byte(pageURL))
	return hex.EncodeToString(hash[:])
}

// Analyze produces a complete AEO report for the URL, serving from cache
// when possible. Fetch failures degrade to a fully populated zero-scored
// report rather than an error; the error return covers only URLs that
// cannot form a request at all.
func (a *Analyzer) Analyze(pageURL string) (*Report, error) {
	if time.Since(a.lastCleanup) > a.cleanupInterval {
		go a.cleanup()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := cacheKey(pageURL)
	a.cacheMutex.RLock()
	if entry, found := a.cache[key]; found {
		if time.Since(entry.timestamp) < a.cacheTTL {
			a.stats.Record(1, 0, 0, 0)
			a.cacheMutex.RUnlock()
			return entry.report, nil
		}
	}
	a.cacheMutex.RUnlock()

	a.stats.Record(0, 1, 0, 0)

	report, err := a.AnalyzeWithContext(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	a.cacheMutex.Lock()
	a.cache[key] = cacheEntry{report: report, timestamp: time.Now()}
	a.cacheMutex.Unlock()

	return report, nil
}

// AnalyzeWithContext fetches the page, its headers, and robots.txt, then
// runs the structured-data, rich-results, and crawler-accessibility
// pipelines and assembles the graded report.
func (a *Analyzer) AnalyzeWithContext(ctx context.Context, pageURL string) (*Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", "AEOChecker/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		a.stats.Record(0, 0, 1, 1)
		return a.errorReport(pageURL, fmt.Sprintf("Failed to fetch URL: %v", err)), nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.stats.Record(0, 0, 1, 1)
		return a.errorReport(pageURL, fmt.Sprintf("Failed to read response body: %v", err)), nil
	}
	htmlContent := string(body)

	headers := HeadersAnalysis{
		StatusCode:    resp.StatusCode,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.Header.Get("Content-Length"),
		LastModified:  resp.Header.Get("Last-Modified"),
		ETag:          resp.Header.Get("ETag"),
		CacheControl:  resp.Header.Get("Cache-Control"),
		XRobotsTag:    resp.Header.Get("X-Robots-Tag"),
	}

	robotsTxt, robotsPresent := a.fetchRobotsTxt(ctx, pageURL)

	extracted := ExtractStructuredData(htmlContent, pageURL)

	metrics := a.rubric.Analyze(extracted)
	richResults := a.richRubric.Validate(extracted)
	accessibility := AnalyzeCrawlerAccessibility(CrawlerInput{
		HTML:             htmlContent,
		RobotsTxt:        robotsTxt,
		RobotsTxtPresent: robotsPresent,
		Headers:          headers,
	})

	overall := compositeScore(metrics, richResults)
	grade, color := gradeFor(overall)

	a.stats.Record(0, 0, 1, 0)

	return &Report{
		URL:                  pageURL,
		Grade:                grade,
		GradeColor:           color,
		OverallScore:         overall,
		StructuredData:       metrics,
		RichResults:          richResults,
		CrawlerAccessibility: accessibility,
	}, nil
}

// fetchRobotsTxt retrieves /robots.txt for the page's host. Any failure
// is reported as absence; the robots pipeline default-allows in that case.
func (a *Analyzer) fetchRobotsTxt(ctx context.Context, pageURL string) (string, bool) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", "AEOChecker/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false
	}
	return string(body), true
}

// errorReport builds the degraded report for an unfetchable page: every
// pipeline output present, every score zero, the failure explained.
func (a *Analyzer) errorReport(pageURL, message string) *Report {
	metrics := errorMetrics([]string{message})
	richResults := a.richRubric.Validate(ExtractedData{})
	accessibility := AnalyzeCrawlerAccessibility(CrawlerInput{})

	grade, color := gradeFor(0)

	return &Report{
		URL:                  pageURL,
		Grade:                grade,
		GradeColor:           color,
		OverallScore:         0,
		StructuredData:       metrics,
		RichResults:          richResults,
		CrawlerAccessibility: accessibility,
	}
}

// compositeScore averages the four structured-data metrics and applies
// the rich-results bonus: 15 points for eligibility, or 10 when the
// rich-results score clears 50 without eligibility.
func compositeScore(m *Metrics, rich *RichResults) float64 {
	base := (m.CoverageScore + m.QualityScore + m.CompletenessScore + m.SEORelevanceScore) / 4

	bonus := 0.0
	if rich.Eligible {
		bonus = 15
	} else if rich.Score > 50 {
		bonus = 10
	}

	return math.Min(100, base+bonus)
}

// gradeFor maps an overall score to its letter grade and display color.
// The same bands apply everywhere a score is graded.
func gradeFor(score float64) (grade, color string) {
	switch {
	case score >= 90:
		return "A+", "#10B981"
	case score >= 80:
		return "A", "#10B981"
	case score >= 70:
		return "B", "#F59E0B"
	case score >= 60:
		return "C", "#F59E0B"
	case score >= 50:
		return "D", "#EF4444"
	default:
		return "F", "#EF4444"
	}
}

// Rubric exposes the analyzer's structured-data rubric.
func (a *Analyzer) Rubric() *Rubric {
	return a.rubric
}

// GetStats returns the statistics storage instance.
func (a *Analyzer) GetStats() *stats.Storage {
	return a.stats
}

// Shutdown flushes statistics and drops the cache.
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}

	if a.stats != nil {
		if err := a.stats.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown stats storage: %w", err)
		}
	}

	a.cacheMutex.Lock()
	a.cache = nil
	a.cacheMutex.Unlock()

	return nil
}
