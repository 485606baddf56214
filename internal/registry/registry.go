// Package registry provides a global registry for agent factories.
// Agents register themselves in init() functions, allowing the CLI, the
// harness and the env server to discover and instantiate them by ID.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

// Agent is a decision source: it looks at a snapshot and produces an intent.
// Agents never touch the game directly, so a human, a rule and a learned
// policy are interchangeable.
type Agent interface {
	// ID returns the registry identifier (e.g., "rule", "idle").
	ID() string

	// Description returns a one-line summary for listings.
	Description() string

	// Reset prepares the agent for a new episode.
	// Stochastic agents derive their randomness from the seed.
	Reset(seed int64)

	// Decide returns the intent for the next tick.
	Decide(snap jetpack.Snapshot) core.Intent
}

// AgentInfo contains metadata about a registered agent.
type AgentInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// Factory is a function that creates a new instance of an agent.
type Factory func() Agent

var (
	factories    = make(map[string]Factory)
	descriptions = make(map[string]string)
	mu           sync.RWMutex
)

// Register adds an agent factory to the registry.
// Panics if an agent with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: agent %q already registered", id))
	}

	factories[id] = f
	descriptions[id] = f().Description()
}

// List returns information about all registered agents, sorted by ID.
func List() []AgentInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]AgentInfo, 0, len(factories))
	for id := range factories {
		result = append(result, AgentInfo{
			ID:          id,
			Description: descriptions[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new agent by its ID.
func Create(id string) (Agent, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown agent %q", id)
	}

	return f(), nil
}

// Exists checks if an agent with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
