package envserver

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/env"
)

// ManagerConfig holds session limits.
type ManagerConfig struct {
	IdleTimeout   time.Duration // sessions unused this long are reaped
	CleanupPeriod time.Duration // how often to look for idle sessions
	MaxSessions   int           // 0 means unlimited
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		IdleTimeout:   10 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		MaxSessions:   64,
	}
}

// Manager owns every live session.
type Manager struct {
	config ManagerConfig
	game   config.JetpackConfig
	logger *log.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a manager that builds envs from the given game config.
func NewManager(cfg ManagerConfig, game config.JetpackConfig, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		config:   cfg,
		game:     game,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
}

// Start begins reaping idle sessions in the background.
func (m *Manager) Start() {
	if m.config.CleanupPeriod > 0 {
		go m.cleanupLoop()
	}
}

// Stop shuts down the reaper. Safe to call multiple times.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// Create builds a session and resets it once so it is ready to step.
func (m *Manager) Create(req CreateRequest) (*Session, ResetResponse, error) {
	opts := []env.Option{}
	if req.Seed != nil {
		opts = append(opts, env.WithSeed(*req.Seed))
	}
	if req.ActionSpace != "" {
		space, err := env.NewActionSpace(req.ActionSpace)
		if err != nil {
			return nil, ResetResponse{}, err
		}
		opts = append(opts, env.WithActionSpace(space))
	}
	if req.Character != "" {
		opts = append(opts, env.WithCharacter(req.Character))
	}
	e, err := env.New(m.game, opts...)
	if err != nil {
		return nil, ResetResponse{}, err
	}

	s := &Session{ID: uuid.NewString(), env: e}
	s.touch(m.now())

	m.mu.Lock()
	if m.config.MaxSessions > 0 && len(m.sessions) >= m.config.MaxSessions {
		m.mu.Unlock()
		return nil, ResetResponse{}, fmt.Errorf("%w (limit %d)", ErrTooManySessions, m.config.MaxSessions)
	}
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info("session created", "id", s.ID, "space", e.Space().Name())
	return s, s.Reset(ResetRequest{Seed: req.Seed}), nil
}

// Get looks up a session and marks it as used.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	s.touch(m.now())
	s.mu.Unlock()
	return s, nil
}

// Close removes a session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	m.logger.Info("session closed", "id", id)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) cleanupLoop() {
	ticker := time.NewTicker(m.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.reap()
		case <-m.done:
			return
		}
	}
}

// reap drops sessions idle for longer than IdleTimeout and returns how many.
func (m *Manager) reap() int {
	if m.config.IdleTimeout <= 0 {
		return 0
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastUsed)
		s.mu.Unlock()
		if idle > m.config.IdleTimeout {
			delete(m.sessions, id)
			m.logger.Info("session expired", "id", id, "idle", idle.Round(time.Second))
			n++
		}
	}
	return n
}
