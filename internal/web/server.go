// Package web serves the job board to browsers. Every request derives its query
// from the URL, so links and the back button reproduce the same page.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fr4nk3nst1ner/jobdesk/internal/board"
	"github.com/fr4nk3nst1ner/jobdesk/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const requestIDHeader = "X-Request-ID"

// Server is the browser front-end of the job board
type Server struct {
	api       board.JobsAPI
	cfg       config.WebConfig
	boardOpts board.Options
	logger    *zap.Logger
	engine    *gin.Engine
	now       func() time.Time
}

// New builds the server and its routes. Mutating routes require basic auth
// when a username and password are configured.
func New(api board.JobsAPI, cfg config.WebConfig, boardOpts board.Options, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	boardOpts.Logger = logger

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		api:       api,
		cfg:       cfg,
		boardOpts: boardOpts,
		logger:    logger,
		now:       time.Now,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(tmpl)

	// Public endpoints
	r.GET("/health", s.handleHealth)
	r.GET("/", s.handleIndex)
	r.GET("/jobs/:id", s.handleShow)

	// Mutating endpoints
	protected := r.Group("/jobs")
	if cfg.AuthEnabled() {
		protected.Use(gin.BasicAuthForRealm(gin.Accounts{cfg.Username: cfg.Password}, "jobdesk"))
	}
	protected.GET("/new", s.handleNew)
	protected.POST("", s.handleCreate)
	protected.GET("/:id/edit", s.handleEdit)
	protected.POST("/:id", s.handleUpdate)
	protected.GET("/:id/delete", s.handleConfirmDelete)
	protected.POST("/:id/delete", s.handleDelete)

	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found")
	})

	s.engine = r
	return s, nil
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.AuthEnabled() {
		s.logger.Info("web server listening", zap.String("addr", srv.Addr), zap.Bool("auth", true))
	} else {
		s.logger.Warn("web server listening without authentication; set WEB_USERNAME/WEB_PASSWORD to protect edits",
			zap.String("addr", srv.Addr))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down web server: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		c.Next()

		s.logger.Info("request",
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
