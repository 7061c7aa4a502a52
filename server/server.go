package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/article_store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/feedback_store.go -pkg mocks -skip-ensure -fmt goimports . FeedbackStore
//go:generate moq -out mocks/run_history.go -pkg mocks -skip-ensure -fmt goimports . RunHistory
//go:generate moq -out mocks/harvester.go -pkg mocks -skip-ensure -fmt goimports . Harvester
//go:generate moq -out mocks/metrics.go -pkg mocks -skip-ensure -fmt goimports . MetricsProvider

// Server represents HTTP server instance
type Server struct {
	Params
	version string
	debug   bool
	now     func() time.Time

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Params holds the dependencies of the server. Runs, Harvester and Metrics are optional.
type Params struct {
	Config    ConfigProvider
	Articles  ArticleStore
	Feedback  FeedbackStore
	Runs      RunHistory
	Harvester Harvester
	Metrics   MetricsProvider
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetFullConfig() *config.Config
}

// ArticleStore reads the persisted dataset
type ArticleStore interface {
	Load() (domain.Dataset, error)
}

// FeedbackStore keeps reader feedback
type FeedbackStore interface {
	Add(fb domain.Feedback) error
	Stats(now time.Time) (domain.FeedbackStats, error)
}

// RunHistory returns recorded harvest runs
type RunHistory interface {
	LastRun(ctx context.Context) (domain.Run, bool, error)
}

// Harvester starts harvest runs in background
type Harvester interface {
	Trigger() error
	Running() bool
}

// MetricsProvider exposes prometheus metrics
type MetricsProvider interface {
	Handler() http.Handler
	FeedbackReceived(rating string)
}

// New initializes a new server instance
func New(p Params, version string, debug bool) *Server {
	s := &Server{
		Params:  p,
		version: version,
		debug:   debug,
		now:     time.Now,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.Config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("minepenge", "minepenge", s.version))
	s.router.Use(rest.Ping)
	s.router.Use(corsMiddleware(s.Config.GetFullConfig().Server.CorsOrigins))

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /articles", s.articlesHandler)
		r.HandleFunc("GET /articles/latest", s.latestArticlesHandler)
		r.HandleFunc("GET /articles/relevant", s.relevantArticlesHandler)
		r.HandleFunc("GET /articles/source/{source}", s.sourceArticlesHandler)
		r.HandleFunc("POST /articles/date-range", s.dateRangeHandler)
		r.HandleFunc("GET /statistics", s.statisticsHandler)
		r.HandleFunc("POST /feedback", s.feedbackHandler)
		r.HandleFunc("GET /feedback/statistics", s.feedbackStatsHandler)
		r.HandleFunc("GET /scraper/status", s.scraperStatusHandler)
		r.HandleFunc("POST /scrape", s.scrapeHandler)
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{tag}", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
	if s.Metrics != nil {
		s.router.Handle("GET /metrics", s.Metrics.Handler())
	}
}

// corsMiddleware allows requests from the listed origins, "*" allows any origin
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || (!allowed["*"] && !allowed[origin]) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "3600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if data != nil {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
