// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"djboard/internal/adapters/store"
	"djboard/internal/domain/board"
	"djboard/internal/domain/dedupe"
	"djboard/internal/domain/identity"
	"djboard/internal/domain/model"
	"djboard/pkg/logger"
	"djboard/pkg/metrics"
)

// Service implements the API dependencies for the DJ platform backend.
type Service struct {
	mu sync.RWMutex

	// Entity tables
	users     *store.Table[model.User]
	tips      *store.Table[model.Tip]
	ratings   *store.Table[model.Rating]
	requests  *store.Table[model.SongRequest]
	events    *store.Table[model.Event]
	playlists *store.Table[model.Playlist]

	// Core components
	board    *board.Board
	resolver *identity.Resolver
	tracker  *dedupe.Tracker

	// Configuration
	defaultTopN  int
	maxTopN      int
	truncateAvgs bool
	dedupeSize   int

	// State
	started   bool
	startedAt time.Time
	now       func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDefaultTopN sets the leaderboard size served when no limit is given.
func WithDefaultTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultTopN = n
		}
	}
}

// WithMaxTopN caps the leaderboard limit a caller may request.
func WithMaxTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithTruncatedAverages switches rating aggregation to the legacy
// integer-truncating formula.
func WithTruncatedAverages() Option {
	return func(s *Service) {
		s.truncateAvgs = true
	}
}

// WithDedupeSize sets the capacity of the idempotency-key tracker.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithClock overrides the time source. Tests pin timestamps with this.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultTopN: 5,
		maxTopN:     100,
		dedupeSize:  50_000,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting djboard service...")

	s.users = store.NewTable[model.User]("users")
	s.tips = store.NewTable[model.Tip]("tips")
	s.ratings = store.NewTable[model.Rating]("ratings")
	s.requests = store.NewTable[model.SongRequest]("song_requests")
	s.events = store.NewTable[model.Event]("events")
	s.playlists = store.NewTable[model.Playlist]("playlists")

	boardOpts := []board.Option{board.WithClock(s.now)}
	if s.truncateAvgs {
		boardOpts = append(boardOpts, board.WithTruncatedAverages())
		s.logger.Warn(ctx, "legacy truncating averages enabled")
	}
	s.board = board.New(boardOpts...)

	s.resolver = identity.New(s.users)
	s.tracker = dedupe.NewTracker(dedupe.WithMaxSize(s.dedupeSize))

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "djboard service started",
		logger.Int("defaultTopN", s.defaultTopN),
		logger.Int("maxTopN", s.maxTopN),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop shuts the service down. State is in-memory, so there is nothing to
// flush; the flag keeps Start/Stop symmetric.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(ctx, "djboard service stopped")
}

// SeenAndRecord atomically checks whether an idempotency key was seen and
// records it if not. Returns true when the key was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	return s.tracker.SeenAndRecord(ctx, key)
}

// Unrecord forgets an idempotency key so the submission can be retried.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.tracker.Unrecord(ctx, key)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":          s.started,
		"defaultTopN":      s.defaultTopN,
		"maxTopN":          s.maxTopN,
		"truncateAverages": s.truncateAvgs,
	}

	if s.started {
		boardEntries := s.board.Count(ctx)
		stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())
		stats["boardEntries"] = boardEntries
		stats["trackedKeys"] = s.tracker.Size()
		stats["tables"] = map[string]int{
			"users":         s.users.Count(ctx),
			"tips":          s.tips.Count(ctx),
			"ratings":       s.ratings.Count(ctx),
			"song_requests": s.requests.Count(ctx),
			"events":        s.events.Count(ctx),
			"playlists":     s.playlists.Count(ctx),
		}

		metrics.UpdateBoardEntries(boardEntries)
	}

	return stats
}
