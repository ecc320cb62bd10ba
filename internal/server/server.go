// Package server serves the declaration wizard over HTTP.
//
// Each browser session owns one draft, referenced by id from a signed
// cookie. Step pages are rendered through the orchestrator; posted steps are
// bound into a form, validated by the wizard navigator and saved back to the
// draft store before redirecting to the next step.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-eticket/components/countries"
	"github.com/goliatone/go-eticket/internal/metrics"
	"github.com/goliatone/go-eticket/internal/store"
	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/orchestrator"
	"github.com/goliatone/go-eticket/pkg/render/template/gotemplate"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla"
)

const (
	defaultSessionName     = "eticket"
	defaultShutdownTimeout = 10 * time.Second
	draftSessionKey        = "draft"
)

var (
	// ErrNoStore is returned by New when Config.Store is nil.
	ErrNoStore = errors.New("server: draft store is required")
	// ErrNoSecret is returned by New when Config.SessionSecret is empty.
	ErrNoSecret = errors.New("server: session secret is required")
)

// Config holds the server dependencies.
type Config struct {
	Addr            string
	Orchestrator    *orchestrator.Orchestrator
	Store           store.Store
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
	Mapping         fieldadapter.Mapping
	Travelers       int
	ShutdownTimeout time.Duration

	SessionName   string
	SessionSecret string
	SessionMaxAge time.Duration
	SecureCookie  bool

	ThemeName    string
	ThemeVariant string
	// Assets mounts extra static files, keyed by URL prefix, for example the
	// files referenced by a theme manifest.
	Assets map[string]fs.FS

	Now func() time.Time
}

// Server is the declaration web front-end.
type Server struct {
	cfg      Config
	orch     *orchestrator.Orchestrator
	store    store.Store
	logger   *zap.Logger
	metrics  *metrics.Metrics
	sessions *sessions.CookieStore
	pages    *gotemplate.Engine
	handler  http.Handler
}

// New validates cfg and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, ErrNoStore
	}
	if cfg.SessionSecret == "" {
		return nil, ErrNoSecret
	}
	if cfg.Orchestrator == nil {
		cfg.Orchestrator = orchestrator.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Mapping.TrueValue == "" || cfg.Mapping.FalseValue == "" {
		cfg.Mapping = cfg.Orchestrator.Catalog().BoolMapping()
	}
	if cfg.Travelers < 1 {
		cfg.Travelers = 1
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.SessionName == "" {
		cfg.SessionName = defaultSessionName
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	cookies := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookies.Options.Path = "/"
	cookies.Options.HttpOnly = true
	cookies.Options.Secure = cfg.SecureCookie
	cookies.Options.SameSite = http.SameSiteLaxMode
	if cfg.SessionMaxAge > 0 {
		cookies.MaxAge(int(cfg.SessionMaxAge / time.Second))
	}

	pages, err := newPageEngine()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		orch:     cfg.Orchestrator,
		store:    cfg.Store,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		sessions: cookies,
		pages:    pages,
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
	)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	for prefix, files := range s.cfg.Assets {
		prefix = "/" + strings.Trim(prefix, "/")
		if prefix == "/" || files == nil {
			continue
		}
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServerFS(files)))
	}

	_, _ = countries.RegisterRoutes(r, "")

	r.Get("/", s.handleStart)
	r.Get("/steps/{step}", s.handleStep)
	r.Post("/steps/{step}", s.handleStepSubmit)
	r.Get("/review", s.handleReview)
	r.Post("/submit", s.handleSubmit)
	return r
}

// Serve listens on Config.Addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down within
// Config.ShutdownTimeout.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("serving declarations", zap.String("addr", ln.Addr().String()))

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Warn("draft store unavailable", zap.Error(err))
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
