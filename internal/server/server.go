// Package server serves question sets over HTTP in the same shape the
// HTTP question source consumes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/bank"
	"github.com/abhisek/examiz/internal/question"
)

// Options configures the HTTP layer.
type Options struct {
	// Mode is a gin mode: debug, release or test. Empty leaves gin's mode alone.
	Mode           string
	AllowedOrigins []string

	// RateLimit is requests per RateWindow per client IP. Zero disables limiting.
	RateLimit  int
	RateWindow time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultOptions returns release-mode options allowing any origin.
func DefaultOptions() Options {
	return Options{
		Mode:           gin.ReleaseMode,
		AllowedOrigins: []string{"*"},
		RateLimit:      120,
		RateWindow:     time.Minute,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

type Server struct {
	src     bank.Source
	log     *zap.Logger
	opts    Options
	metrics *metrics
	engine  *gin.Engine
}

// New builds a server over src. log may be nil.
func New(src bank.Source, opts Options, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	s := &Server{
		src:     src,
		log:     log.Named("server"),
		opts:    opts,
		metrics: newMetrics(),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), s.metrics.middleware(), cors(s.opts.AllowedOrigins))

	r.GET("/healthz", s.health)
	r.GET("/metrics", s.metrics.handler())

	api := r.Group("/api")
	if s.opts.RateLimit > 0 && s.opts.RateWindow > 0 {
		api.Use(rateLimiter(s.opts.RateLimit, s.opts.RateWindow))
	}
	api.GET("/questions/:length", s.questions)
	api.GET("/categories", s.categories)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("Not found."))
	})
	return r
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening",
			zap.String("addr", addr),
			zap.String("source", s.src.Name()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"source": s.src.Name(),
	})
}

func (s *Server) questions(c *gin.Context) {
	raw := c.Param("length")
	n, err := question.ParseLength(raw)
	if err != nil {
		s.metrics.loadFailures.WithLabelValues("invalid_length").Inc()
		c.JSON(http.StatusBadRequest, errorBody(
			fmt.Sprintf("Invalid test length. Must be %s.", question.LengthsString())))
		return
	}

	qs, err := s.src.Questions(c.Request.Context(), n)
	if err != nil {
		_ = c.Error(err)
		status, cause, msg := classify(err, n)
		s.metrics.loadFailures.WithLabelValues(cause).Inc()
		if status >= http.StatusInternalServerError {
			s.log.Error("load questions", zap.Int("length", n.Int()), zap.Error(err))
		}
		c.JSON(status, errorBody(msg))
		return
	}

	s.metrics.questionsServed.WithLabelValues(n.String()).Inc()
	c.JSON(http.StatusOK, qs)
}

// classify maps a load error to a status, a metric label and a client message.
func classify(err error, n question.Length) (int, string, string) {
	switch {
	case errors.Is(err, bank.ErrInvalidLength):
		return http.StatusBadRequest, "invalid_length",
			fmt.Sprintf("Invalid test length. Must be %s.", question.LengthsString())
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound, "not_found", fmt.Sprintf("Test with length %d not found.", n)
	case errors.Is(err, bank.ErrInsufficient):
		return http.StatusNotFound, "insufficient", fmt.Sprintf("Test with length %d not found.", n)
	case errors.Is(err, bank.ErrMalformed):
		return http.StatusInternalServerError, "malformed", "Failed to load questions."
	default:
		return http.StatusInternalServerError, "unavailable", "Failed to load questions."
	}
}

func (s *Server) categories(c *gin.Context) {
	cat, ok := s.src.(bank.Cataloger)
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("Categories not found."))
		return
	}
	catalog, err := cat.Catalog(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, bank.ErrNotFound) {
			c.JSON(http.StatusNotFound, errorBody("Categories not found."))
			return
		}
		s.log.Error("load categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("Failed to load categories."))
		return
	}
	c.JSON(http.StatusOK, catalog)
}
