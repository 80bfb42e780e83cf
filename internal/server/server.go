// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ppiankov/credible/internal/credibility"
	"github.com/ppiankov/credible/internal/logging"
	"github.com/ppiankov/credible/internal/model"
)

// Checker is the pipeline surface the HTTP API needs. pipeline.Pipeline implements it.
type Checker interface {
	CheckClaim(ctx context.Context, text string) (*model.ClaimCheck, error)
	CheckArticle(ctx context.Context, rawURL string) (*model.ArticleReport, error)
	CheckCredibility(links []credibility.Link) ([]credibility.Assessment, error)
	AdjudicatorAvailable() bool
	ExtractorAvailable() bool
}

// Server is the HTTP API
type Server struct {
	checker Checker
	config  model.ServerConfig
	version string
	engine  *gin.Engine
	log     *logrus.Entry
}

// New creates a server and registers its routes
func New(checker Checker, cfg model.ServerConfig, version string) *Server {
	s := &Server{
		checker: checker,
		config:  cfg,
		version: version,
		log:     logging.For("server"),
	}
	s.engine = s.router()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(
		requestID(),
		accessLog(s.log),
		recovery(s.log),
		corsPolicy(s.config.AllowedOrigins, s.log),
		requestTimeout(s.config.RequestTimeout),
	)

	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.POST("/check-credibility", s.checkCredibility)
		api.POST("/check-agentic-claim", s.checkAgenticClaim)
		api.POST("/verify-article-full", s.verifyArticleFull)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "not_found", Detail: "no route for " + c.Request.URL.Path})
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
