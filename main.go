package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/aeo-checker/backend/analyzer"
	"github.com/aeo-checker/backend/logging"
	"github.com/aeo-checker/backend/middleware"
)

var (
	aeoAnalyzer *analyzer.Analyzer
	rateLimiter *middleware.RateLimiter
)

func loadEnv() {
	// Try to load .env.development first (for local development)
	if err := godotenv.Load(".env.development"); err != nil {
		// If .env.development doesn't exist, try regular .env
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	loadEnv()
	setupGinMode()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	var err error
	aeoAnalyzer, err = analyzer.New(dataDir)
	if err != nil {
		log.Fatal("Failed to initialize analyzer:", err)
	}
	defer aeoAnalyzer.Shutdown()

	rateLimiter = middleware.NewRateLimiter(2, 5) // 2 requests per second, bucket size of 5

	stats := logging.Initialize()

	r := gin.Default()

	r.Use(middleware.ErrorHandler())
	r.Use(rateLimiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Track visitors and analysis timings
	r.Use(func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		if c.Request.URL.Path == "/api/analyze" && c.Request.Method == "POST" {
			loadTime := float64(time.Since(start).Milliseconds())
			stats.TrackAnalysis(c.Request.URL.String(), loadTime, c.Writer.Status() >= 400)
		}

		// Periodically save statistics
		if stats.GetStatistics()["totalRequests"].(int)%100 == 0 {
			go stats.Save()
		}
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "ok",
				"service": "AEO Structured Data Analyzer",
			})
		})

		api.POST("/analyze", analyzeURL(stats))

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, stats.GetStatistics())
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082" // Default port
	}

	log.Printf("Server starting on http://localhost:%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func analyzeURL(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Printf("Analyze request received from: %s\n", c.ClientIP())
		var request struct {
			URL string `json:"url" binding:"required"`
		}

		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "URL is required",
			})
			return
		}

		pageURL := strings.TrimSpace(request.URL)
		if !strings.HasPrefix(pageURL, "http://") && !strings.HasPrefix(pageURL, "https://") {
			pageURL = "https://" + pageURL
		}

		report, err := aeoAnalyzer.Analyze(pageURL)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Failed to analyze URL: " + err.Error(),
			})
			return
		}

		stats.TrackGrade(report.Grade)

		c.JSON(http.StatusOK, report)
	}
}
