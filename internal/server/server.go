package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-onboarding/internal/logging"
	"github.com/goliatone/go-onboarding/internal/metrics"
	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/model"
	"github.com/goliatone/go-onboarding/pkg/render"
	"github.com/goliatone/go-onboarding/pkg/renderers/vanilla"
	"github.com/goliatone/go-onboarding/pkg/submission"
)

// SessionCookie names the cookie carrying the session id.
const SessionCookie = "onboarding_session"

const (
	defaultShutdownGrace = 5 * time.Second
	sweepInterval        = time.Minute
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAddr sets the listen address used by Run.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithAllowedOrigins lists the origins allowed for cross-origin requests and
// event streams.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = append([]string(nil), origins...)
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// WithEditPolicy is applied to every session controller.
func WithEditPolicy(policy form.EditPolicy) Option {
	return func(s *Server) {
		s.editPolicy = policy
	}
}

// WithRenderer replaces the default HTML renderer.
func WithRenderer(renderer *vanilla.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.html = renderer
		}
	}
}

// WithMetrics exposes collectors on /metrics and feeds them controller and
// session events.
func WithMetrics(collectors *metrics.Collectors) Option {
	return func(s *Server) {
		s.metrics = collectors
	}
}

// WithContract serves raw at /openapi.yaml.
func WithContract(raw []byte) Option {
	return func(s *Server) {
		s.contract = raw
	}
}

// WithSecureCookies marks the session cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secureCookies = secure
	}
}

// WithDecorators adjusts the registration layout served by every session.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(s *Server) {
		s.decorators = append(s.decorators, decorators...)
	}
}

// Server serves the registration flow over HTTP. Each visitor gets one
// session holding one form controller.
type Server struct {
	service       submission.Service
	logger        *slog.Logger
	addr          string
	origins       []string
	sessionTTL    time.Duration
	editPolicy    form.EditPolicy
	html          *vanilla.Renderer
	metrics       *metrics.Collectors
	contract      []byte
	secureCookies bool
	decorators    []model.Decorator

	layout    model.FormModel
	renderers *render.Registry
	sessions  *SessionStore
	router    chi.Router
}

// New builds a Server delivering registrations to service.
func New(service submission.Service, opts ...Option) (*Server, error) {
	s := &Server{
		service:    service,
		logger:     logging.NewNop(),
		addr:       ":8000",
		sessionTTL: 30 * time.Minute,
		layout:     model.RegistrationForm(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	layout, err := model.Decorate(s.layout, s.decorators...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s.layout = layout

	if s.html == nil {
		html, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.html = html
	}

	s.renderers = render.NewRegistry()
	if err := s.renderers.Register(s.html); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if err := s.renderers.Register(render.JSONRenderer{}); err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	var hooks SessionHooks
	if s.metrics != nil {
		hooks = s.metrics
	}
	s.sessions = NewSessionStore(s.sessionTTL, s.newController, hooks)
	s.router = s.routes()
	return s, nil
}

func (s *Server) newController(id string) *form.Controller {
	opts := []form.Option{
		form.WithLogger(s.logger.With("session", id)),
		form.WithEditPolicy(s.editPolicy),
	}
	if s.metrics != nil {
		opts = append(opts, form.WithObserver(s.metrics))
	}
	return form.New(s.service, opts...)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.origins))

	r.Get("/", s.handleLanding)
	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegisterSubmit)
	r.Get("/register/status", s.handleStatus)
	r.Get("/register/events", s.handleEvents)

	for path, title := range placeholderPages {
		r.Get(path, s.handlePlaceholder(title))
	}

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	if len(s.contract) > 0 {
		r.Get("/openapi.yaml", s.handleContract)
	}
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))

	r.NotFound(s.handleNotFound)
	return r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.sessions
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully. Expired sessions are swept in the background.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case err, ok := <-errChan:
			if ok {
				return fmt.Errorf("server: listen: %w", err)
			}
			return nil
		case <-ticker.C:
			if n := s.sessions.Sweep(); n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownGrace)
			defer cancel()
			s.logger.Info("shutting down")
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Warn("graceful shutdown incomplete", "error", err)
				return httpServer.Close()
			}
			return nil
		}
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
