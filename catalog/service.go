package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"brbshorts/internal/metrics"
	"brbshorts/settings"
)

// ErrNotConfigured is returned by Catalog before an API key and channel id
// have been saved.
var ErrNotConfigured = errors.New("catalog: not configured")

// Client is a Provider that can also verify a channel during setup.
type Client interface {
	Provider
	VerifyChannel(ctx context.Context, channelID string) error
}

// ClientFactory creates a Client authenticated with apiKey.
type ClientFactory func(ctx context.Context, apiKey string) (Client, error)

// Options configures a Service. Zero values select defaults.
type Options struct {
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	MaxPages     int
	Logger       logrus.FieldLogger
	Metrics      *metrics.Metrics
	// Clock returns the current time; defaults to time.Now.
	Clock func() time.Time
}

// Result is the catalog as served to the player.
type Result struct {
	IDs    []string `json:"ids"`
	Cached bool     `json:"cached"`
	Count  int      `json:"count"`
}

// Status is the redacted view of the current settings.
type Status struct {
	Configured bool                `json:"configured"`
	ChannelID  string              `json:"channelId"`
	APIKeySet  bool                `json:"apiKeySet"`
	FilterMode settings.FilterMode `json:"filterMode"`
}

// Service owns the application state: the settings store and the catalog
// cache. Refreshes happen on demand when a read finds the cache stale;
// there is no background refresh.
type Service struct {
	store     settings.Store
	newClient ClientFactory
	cache     *Cache
	opts      Options
	log       logrus.FieldLogger
}

// NewService returns a Service reading settings from store and creating API
// clients with newClient.
func NewService(store settings.Store, newClient ClientFactory, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	return &Service{
		store:     store,
		newClient: newClient,
		cache:     NewCache(opts.CacheTTL),
		opts:      opts,
		log:       opts.Logger.WithField("component", "catalog"),
	}
}

// Cache exposes the catalog cache.
func (s *Service) Cache() *Cache { return s.cache }

// Catalog returns the qualifying video ids, refreshing them when the cache
// is stale. A failed refresh leaves the cache untouched and returns the error.
func (s *Service) Catalog(ctx context.Context) (*Result, error) {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	if ids, ok := s.cache.Lookup(s.opts.Clock()); ok {
		s.opts.Metrics.ObserveCache(true)
		return &Result{IDs: ids, Cached: true, Count: len(ids)}, nil
	}
	s.opts.Metrics.ObserveCache(false)

	gen := s.cache.Generation()
	ids, err := s.refresh(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if !s.cache.StoreIf(gen, ids, s.opts.Clock()) {
		s.log.Debug("settings changed during refresh, result not cached")
	}
	return &Result{IDs: ids, Cached: false, Count: len(ids)}, nil
}

func (s *Service) refresh(ctx context.Context, cfg settings.Settings) ([]string, error) {
	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	started := time.Now()
	client, err := s.newClient(ctx, cfg.APIKey)
	if err != nil {
		s.opts.Metrics.ObserveRefresh(err, time.Since(started), 0)
		return nil, fmt.Errorf("create API client: %w", err)
	}

	log := s.log.WithFields(logrus.Fields{
		"channel_id": cfg.ChannelID,
		"mode":       cfg.FilterMode,
	})
	fetcher := NewFetcher(client, s.opts.MaxPages, log)
	fetcher.OnState = func(st State) {
		log.WithField("state", st.String()).Trace("refresh state")
	}

	ids, err := fetcher.Refresh(ctx, cfg.ChannelID, cfg.FilterMode)
	s.opts.Metrics.ObserveRefresh(err, time.Since(started), len(ids))
	if err != nil {
		log.WithError(err).Error("catalog refresh failed")
		return nil, err
	}
	return ids, nil
}

// Configure verifies the credentials against the API with one channel
// lookup, saves them and invalidates the cache. Nothing is saved when
// verification fails.
func (s *Service) Configure(ctx context.Context, cfg settings.Settings) error {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := s.newClient(ctx, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("create API client: %w", err)
	}
	if err := client.VerifyChannel(ctx, cfg.ChannelID); err != nil {
		return err
	}

	if err := s.store.Save(ctx, cfg); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.cache.Invalidate()

	s.log.WithFields(logrus.Fields{
		"channel_id": cfg.ChannelID,
		"mode":       cfg.FilterMode,
	}).Info("channel configured")
	return nil
}

// Reset clears the saved settings and the cache.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear settings: %w", err)
	}
	s.cache.Invalidate()
	s.log.Info("configuration cleared")
	return nil
}

// Settings returns the saved settings.
func (s *Service) Settings(ctx context.Context) (settings.Settings, error) {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return cfg, nil
}

// Status returns the current settings with the API key redacted.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	cfg, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	mode := cfg.FilterMode
	if mode == "" {
		mode = settings.FilterHashtag
	}
	return &Status{
		Configured: cfg.Configured(),
		ChannelID:  cfg.ChannelID,
		APIKeySet:  cfg.APIKey != "",
		FilterMode: mode,
	}, nil
}
