// Package api serves the prediction engine and the week's observation book over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"TurnipSentinel/internal/forecast"
	"TurnipSentinel/internal/metrics"
)

// Server is the HTTP API.
type Server struct {
	forecast *forecast.Service
	limiter  *rate.Limiter
	engine   *gin.Engine
	srv      *http.Server
}

// NewServer builds the router. rps and burst configure the global rate limiter.
func NewServer(listen string, fs *forecast.Service, rps float64, burst int) *Server {
	s := &Server{
		forecast: fs,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogMiddleware(fs.Metrics))
	r.Use(securityHeadersMiddleware())

	r.GET("/healthz", handleHealthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(s.rateLimitMiddleware())
	{
		v1.GET("/presets", s.getPresets)
		v1.POST("/predict", s.predict)
		v1.GET("/week", s.getWeek)
		v1.PUT("/week", s.replaceWeek)
		v1.DELETE("/week", s.resetWeek)
		v1.PUT("/week/:slot", s.setSlot)
		v1.DELETE("/week/:slot", s.clearSlot)
		v1.GET("/history", s.getHistory)
	}

	s.engine = r
	s.srv = &http.Server{
		Addr:              listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.srv.Addr).Msg("api listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// securityHeadersMiddleware adds security headers to responses
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}

func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow() {
			s.forecast.Metrics.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func requestLogMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		m.RecordHTTPRequest(route, strconv.Itoa(status))
		log.Debug().
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	}
}
