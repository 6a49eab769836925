package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"budget/internal/budget"
	"budget/internal/cache"
)

// Config holds session store configuration
type Config struct {
	TTL         time.Duration
	MaxSessions int
	// SeedCSV is imported into every new session when non-empty.
	SeedCSV string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		TTL:         2 * time.Hour,
		MaxSessions: 1000,
	}
}

// Store hands out sessions by id.
type Store struct {
	sessions *cache.LRUCache[*Session]
	seed     string
	logger   *slog.Logger
}

// NewStore creates a session store. Register Cleaner() with a cache.Manager
// to sweep idle sessions in the background.
func NewStore(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = def.MaxSessions
	}

	s := &Store{seed: cfg.SeedCSV, logger: logger}
	s.sessions = cache.NewLRUCache[*Session](cfg.MaxSessions, cfg.TTL,
		cache.WithSlidingExpiration[*Session](),
		cache.WithEvictionHook(func(id string, sess *Session) {
			logger.Info("Session evicted", "session_id", id, "age", time.Since(sess.CreatedAt).Round(time.Second).String())
		}),
	)
	return s
}

// Get returns the live session with the given id.
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return s.sessions.Get(id)
}

// GetOrCreate returns the session for id, or a fresh one when id is unknown
// or expired. created reports whether a new session was made.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}
	return s.Create(), true
}

// Create starts a new session, seeded when a seed file was configured.
func (s *Store) Create() *Session {
	id := uuid.NewString()
	b := budget.New(budget.WithLogger(s.logger.With("session_id", id)))
	if s.seed != "" {
		res := b.ImportCSV(s.seed)
		s.logger.Debug("Session seeded", "session_id", id, "incomes", res.Incomes, "expenses", res.Expenses)
	}
	sess := newSession(id, b)
	s.sessions.Set(id, sess)
	s.logger.Info("Session created", "session_id", id, "active_sessions", s.sessions.Size())
	return sess
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.sessions.Size()
}

// Cleaner exposes the underlying cache for periodic expiry sweeps.
func (s *Store) Cleaner() cache.Cleaner {
	return s.sessions
}

// LoadSeedFile reads the optional seed CSV. A missing path is not an error.
func LoadSeedFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read seed file %s: %w", path, err)
	}
	return string(b), nil
}
