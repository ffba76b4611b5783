// Package server exposes the setup wizard, settings and guide pages, the
// player page and the JSON API over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"brbshorts/catalog"
	"brbshorts/internal/metrics"
)

//go:embed web/*.html
var webFS embed.FS

// Defaults for Options.
const (
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPollInterval    = time.Hour
)

// Options configures a Server. Zero values select defaults.
type Options struct {
	Logger logrus.FieldLogger
	// Metrics records request and catalog metrics; nil disables recording.
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil disables the route.
	Gatherer prometheus.Gatherer
	// Port is shown in the guide page URLs.
	Port string
	// RequestTimeout bounds every request except catalog reads, which are
	// bounded by the catalog fetch timeout instead.
	RequestTimeout time.Duration
	// PollInterval is how often the player page re-reads the catalog.
	PollInterval time.Duration
	// LocalIP returns the LAN address shown to the user; defaults to LocalIP.
	LocalIP func() string
}

// Server serves the application over HTTP.
type Server struct {
	svc   *catalog.Service
	opts  Options
	log   logrus.FieldLogger
	pages *template.Template
}

// New creates a Server backed by svc.
func New(svc *catalog.Service, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Port == "" {
		opts.Port = "3000"
	}
	if opts.LocalIP == nil {
		opts.LocalIP = LocalIP
	}

	pages, err := template.ParseFS(webFS, "web/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		svc:   svc,
		opts:  opts,
		log:   opts.Logger.WithField("component", "server"),
		pages: pages,
	}, nil
}

// Routes builds the chi router with every endpoint registered.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	// Catalog reads may page through thousands of uploads; the catalog
	// service applies its own fetch timeout.
	r.Get("/api/shorts", s.handleShorts)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.RequestTimeout))

		r.Get("/", s.handleIndex)
		r.Get("/setup", s.handleSetupPage)
		r.Get("/settings", s.handleSettingsPage)
		r.Get("/obs-guide", s.handleGuidePage)
		r.Get("/player", s.handlePlayerPage)

		r.Route("/api", func(r chi.Router) {
			r.Post("/setup", s.handleSetup)
			r.Get("/config", s.handleConfig)
			r.Post("/clear-config", s.handleClearConfig)
			r.Get("/network-info", s.handleNetworkInfo)
		})

		r.Get("/healthz", s.handleHealth)
	})

	if s.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// ready, if non-nil, is called with the bound listener address once the
// server accepts connections.
func (s *Server) Run(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.log.WithField("addr", ln.Addr().String()).Info("server listening")
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
