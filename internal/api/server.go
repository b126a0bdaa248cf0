package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/todmy/doc-checker/internal/auth"
	"github.com/todmy/doc-checker/internal/billing"
	"github.com/todmy/doc-checker/internal/contradiction"
	"github.com/todmy/doc-checker/internal/embeddings"
	"github.com/todmy/doc-checker/internal/ingest"
	"github.com/todmy/doc-checker/internal/monitor"
	"github.com/todmy/doc-checker/internal/sentence"
	"github.com/todmy/doc-checker/internal/similarity"
	"github.com/todmy/doc-checker/internal/storage"
)

// ServerConfig holds everything the server needs to assemble its services
type ServerConfig struct {
	DB            *sql.DB
	JWTSecret     string
	OpenRouterKey string
	FlexPriceKey  string
	Logger        *zap.Logger
}

type Server struct {
	router *chi.Mux
	logger *zap.Logger

	authService *auth.Service
	extractor   *ingest.Extractor
	analyzer    *contradiction.Analyzer
	billing     *billing.Client
	watcher     *monitor.Watcher

	documentRepo storage.DocumentRepository
	reportRepo   storage.ReportRepository
	usageRepo    storage.UsageRepository
}

// NewServer assembles the HTTP server and its full service graph.
func NewServer(config ServerConfig) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Similarity engine: embedding-backed when an API key is configured,
	// lexical fallback otherwise. The embedding cache lives in Postgres so
	// repeated analyses reuse vectors across restarts.
	var embedder similarity.Embedder
	if config.OpenRouterKey != "" {
		client := embeddings.NewClient(config.OpenRouterKey)
		embedder = embeddings.NewCachedClient(client, storage.NewPostgresEmbeddingCache(config.DB))
	}
	engine := similarity.NewEngine(embedder)

	analyzer := contradiction.NewAnalyzer(
		sentence.NewExtractor(),
		engine,
		contradiction.DefaultConfig(),
	)

	authConfig := auth.DefaultConfig()
	authConfig.SecretKey = config.JWTSecret
	authService := auth.NewService(authConfig, auth.NewPostgresRepository(config.DB))

	billingConfig := billing.DefaultConfig()
	billingConfig.APIKey = config.FlexPriceKey
	billingClient := billing.NewClient(billingConfig, billing.DefaultPricing(), logger)

	watcher := monitor.NewWatcher(monitor.DefaultConfig(), logger, nil)

	s := &Server{
		router:       chi.NewRouter(),
		logger:       logger,
		authService:  authService,
		extractor:    ingest.NewExtractor(),
		analyzer:     analyzer,
		billing:      billingClient,
		watcher:      watcher,
		documentRepo: storage.NewPostgresDocumentRepository(config.DB),
		reportRepo:   storage.NewPostgresReportRepository(config.DB),
		usageRepo:    storage.NewPostgresUsageRepository(config.DB),
	}
	s.setupRoutes()

	return s
}

// Watcher exposes the URL monitor so main can run its poll loop.
func (s *Server) Watcher() *monitor.Watcher {
	return s.watcher
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			r.Route("/sessions/{sessionID}", func(r chi.Router) {
				r.Post("/documents", s.handleUpload)
				r.Get("/documents", s.handleListDocuments)
				r.Delete("/documents/{documentID}", s.handleDeleteDocument)

				r.Post("/analyze", s.handleAnalyze)
				r.Get("/report", s.handleGetReport)
				r.Get("/usage", s.handleGetUsage)
			})

			r.Route("/monitor", func(r chi.Router) {
				r.Get("/status", s.handleMonitorStatus)
				r.Post("/urls", s.handleMonitorAdd)
			})
		})
	})
}

// Run starts the HTTP server on addr
func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Handler returns the underlying router, for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
