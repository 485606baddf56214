// Package envserver exposes environments to remote agents over HTTP,
// WebSocket and gRPC. Every transport goes through the same Manager, so a
// session created over HTTP can be stepped over a socket.
package envserver

import (
	"errors"
	"sync"
	"time"

	"github.com/vovakirdan/jetpack-runner/internal/env"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("envserver: session not found")
	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("envserver: too many sessions")
)

// CreateRequest configures a new session.
type CreateRequest struct {
	Seed        *int64 `json:"seed,omitempty"`
	ActionSpace string `json:"action_space,omitempty"`
	Character   string `json:"character,omitempty"`
}

// ResetRequest starts a new episode, optionally with an explicit seed.
type ResetRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

// StepRequest carries one action vector.
type StepRequest struct {
	Action []float64 `json:"action"`
}

// ResetResponse is returned by create and reset.
type ResetResponse struct {
	ID              string          `json:"id"`
	ActionSpace     string          `json:"action_space"`
	ActionShape     int             `json:"action_shape"`
	ObservationSize int             `json:"observation_size"`
	Observation     env.Observation `json:"observation"`
	Info            env.Info        `json:"info"`
}

// Session is one remote environment. Calls are serialized.
type Session struct {
	ID string

	mu       sync.Mutex
	env      *env.Env
	lastUsed time.Time
}

func (s *Session) touch(now time.Time) {
	s.lastUsed = now
}

// Reset starts a new episode.
func (s *Session) Reset(req ResetRequest) ResetResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		obs  env.Observation
		info env.Info
	)
	if req.Seed != nil {
		obs, info = s.env.ResetSeed(*req.Seed)
	} else {
		obs, info = s.env.Reset()
	}
	return ResetResponse{
		ID:              s.ID,
		ActionSpace:     s.env.Space().Name(),
		ActionShape:     s.env.Space().Shape(),
		ObservationSize: env.ObservationSize,
		Observation:     obs,
		Info:            info,
	}
}

// Step decodes and applies one action.
func (s *Session) Step(req StepRequest) (env.Transition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, err := s.env.Space().Decode(req.Action, s.env.Config().Env.ClampActions)
	if err != nil {
		return env.Transition{}, err
	}
	return s.env.StepIntent(in)
}

// Snapshot returns the current world.
func (s *Session) Snapshot() jetpack.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env.Snapshot()
}
