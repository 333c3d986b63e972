// Package api serves the word book over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/japaniel/wordbook/pkg/observe"
	"github.com/japaniel/wordbook/pkg/wordbook"
)

const (
	// MaxBodyBytes caps JSON and XML request bodies.
	MaxBodyBytes = 1 << 20

	// DefaultHeartbeat is how often an idle event stream gets a comment line.
	DefaultHeartbeat = 15 * time.Second
)

// Options configures a Server.
type Options struct {
	// Metrics records request latency and event subscribers. nil disables both.
	Metrics *observe.Metrics
	// MetricsHandler is mounted at /metrics when non-nil.
	MetricsHandler http.Handler
	Heartbeat      time.Duration
}

// Server routes HTTP requests to a wordbook.Service.
type Server struct {
	svc       *wordbook.Service
	metrics   *observe.Metrics
	heartbeat time.Duration
	router    chi.Router
}

// New builds the router for svc.
func New(svc *wordbook.Service, opts Options) *Server {
	s := &Server{
		svc:       svc,
		metrics:   opts.Metrics,
		heartbeat: opts.Heartbeat,
		router:    chi.NewRouter(),
	}
	if s.heartbeat <= 0 {
		s.heartbeat = DefaultHeartbeat
	}
	s.setupRoutes(opts.MetricsHandler)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes(metricsHandler http.Handler) {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(observe.Middleware(s.metrics))
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/vocabulary", func(r chi.Router) {
		r.Get("/", s.handleListVocabulary)
		r.Post("/", s.handleAddVocabulary)
		r.Get("/exists", s.handleExists)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetVocabulary)
			r.Delete("/", s.handleDeleteVocabulary)
			r.Post("/retranslate", s.handleRetranslate)
			r.Post("/spelling", s.handleSpelling)
			r.Get("/sentences", s.handleListSentences)
			r.Post("/sentences", s.handleAddSentence)
			r.Delete("/sentences", s.handleClearSentences)
		})
	})
	r.Delete("/sentences/{id}", s.handleDeleteSentence)

	r.Post("/match", s.handleMatch)
	r.Post("/translate", s.handleTranslate)
	r.Post("/evaluations", s.handleEvaluation)
	r.Get("/events", s.handleEvents)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
}
