package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/neuroq/dissoc"
	"github.com/poiesic/neuroq/storage"
)

// shutdownGrace bounds how long in-flight requests may run after the serve
// context is cancelled.
const shutdownGrace = 10 * time.Second

// Server is the HTTP front end over a corpus.
type Server struct {
	corpus      storage.Corpus
	dissociator *dissoc.Dissociator
	config      *Config
	logger      *slog.Logger
	router      *gin.Engine
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates the HTTP service over the corpus. A nil config means
// DefaultConfig(). The dissociator is built here so the radius and match
// limit come from one place.
func NewServer(corpus storage.Corpus, config *Config, opts ...Option) (*Server, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		corpus: corpus,
		config: config,
		logger: slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	dissociator, err := dissoc.NewDissociator(corpus,
		dissoc.WithRadiusMM(config.RadiusMM),
		dissoc.WithMatchLimit(config.MatchLimit),
		dissoc.WithLogger(s.logger),
	)
	if err != nil {
		return nil, err
	}
	s.dissociator = dissociator

	router := gin.New()
	router.Use(requestID(), accessLog(s.logger), gin.Recovery())
	s.registerRoutes(router)
	s.router = router

	return s, nil
}

// Router returns the underlying handler, for serving and for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/", s.handleRoot)
	r.GET("/img", s.handleImage)
	r.GET("/test_db", s.handleStatus)

	r.GET("/terms/:term/studies", s.handleTermStudies)
	r.GET("/locations/:coords/studies", s.handleLocationStudies)

	dissociate := r.Group("/dissociate")
	{
		dissociate.GET("/terms/:term_a/:term_b", s.handleDissociateTerms)
		dissociate.GET("/locations/:coords_a/:coords_b", s.handleDissociateLocations)
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.Addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("server listening", "addr", s.config.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
