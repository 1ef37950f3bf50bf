// Package server exposes the extraction engine over HTTP.
package server

import (
	"context"
	_ "embed"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/law-makers/pagesift/internal/engine"
	"github.com/law-makers/pagesift/internal/reqctx"
	"github.com/law-makers/pagesift/pkg/models"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

//go:embed static/index.html
var indexPage []byte

// Scraper is the engine operation served by POST /scrape
type Scraper interface {
	Scrape(ctx context.Context, url string) *models.ScrapeResult
}

// ScrapeRequest is the body of POST /scrape
type ScrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

// ErrorResponse is returned for rejected requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewRouter creates a configured Gin engine.
//
// Middleware chain: Recovery → RequestID → Logger.
func NewRouter(sc Scraper) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger())

	r.GET("/", Index)
	r.GET("/healthz", Health)
	r.POST("/scrape", Scrape(sc))
	return r
}

// Index serves the form page
func Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

// Health handles GET /healthz
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Scrape returns a handler for POST /scrape. Only malformed requests are
// rejected; extraction problems are reported inside the result.
func Scrape(sc Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if err := engine.CheckURL(req.URL); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		ctx := reqctx.WithID(c.Request.Context(), c.GetString(requestIDKey), req.URL)
		c.JSON(http.StatusOK, sc.Scrape(ctx, req.URL))
	}
}

const requestIDKey = "request_id"

// RequestID reuses an incoming X-Request-ID or assigns a new one, and
// echoes it on the response
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger logs one line per request through zerolog
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}
		event.
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
