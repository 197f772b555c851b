// Package web serves the single-page advisor UI and its JSON API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"koyl/internal/advisor"
	"koyl/internal/domain"
)

// Server exposes the advisor over HTTP: one page, one submit endpoint.
type Server struct {
	svc domain.Advisor
}

// NewServer creates the web surface over the advisor service.
func NewServer(svc domain.Advisor) *Server {
	return &Server{svc: svc}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(1<<20),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/", s.handleIndex)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/api/recommend", s.handleRecommend)
	return router
}

type recommendRequest struct {
	APIKey    string `json:"api_key"`
	Condition string `json:"condition"`
	Allergies string `json:"allergies"`
}

type recommendResponse struct {
	Recommendation string   `json:"recommendation"`
	Sources        []string `json:"sources"`
}

// handleRecommend runs one submission. Error kinds follow the advisor
// taxonomy: configuration and validation failures are the caller's to
// fix (400), anything past the gate is a per-submission request error
// (502) and the process stays healthy.
func (s *Server) handleRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	rec, err := s.svc.Recommend(c.Request.Context(), req.APIKey, domain.Request{
		Condition: req.Condition,
		Allergies: req.Allergies,
	})
	if err != nil {
		status, kind := classify(err)
		c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
		return
	}

	sources := make([]string, len(rec.Sources))
	for i, src := range rec.Sources {
		sources[i] = src.Chunk.Text
	}
	c.JSON(http.StatusOK, recommendResponse{Recommendation: rec.Advice, Sources: sources})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, advisor.ErrMissingCredential):
		return http.StatusBadRequest, "configuration"
	case errors.Is(err, advisor.ErrMissingCondition), errors.Is(err, advisor.ErrMissingAllergies):
		return http.StatusBadRequest, "validation"
	default:
		return http.StatusBadGateway, "request"
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, indexPage)
}

func limitBodySize(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// Run serves the router with conservative timeouts until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
