package jetpack

import (
	"math/rand"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Coin is a pickup worth Value points.
type Coin struct {
	ID        int     `json:"id"`
	X         float64 `json:"x"` // center
	Y         float64 `json:"y"` // center
	Radius    int     `json:"radius"`
	Value     int     `json:"value"`
	Collected bool    `json:"collected"`
}

// Hitbox returns the bounding square of the coin.
func (c *Coin) Hitbox() core.Rect {
	r := float64(c.Radius)
	return core.RectF(c.X-r, c.Y-r, 2*r, 2*r)
}

// CoinSpawner drops a coin at the right edge every fixed stretch of distance.
type CoinSpawner struct {
	coins     []*Coin
	lastSpawn float64
	nextID    int

	cfg   config.CoinConfig
	world config.WorldConfig
	rng   *rand.Rand
}

func newCoinSpawner(cfg config.CoinConfig, world config.WorldConfig, rng *rand.Rand) *CoinSpawner {
	return &CoinSpawner{cfg: cfg, world: world, rng: rng}
}

// Advance spawns a coin once the distance since the last spawn exceeds the
// configured gap. Returns true when a coin was spawned.
func (s *CoinSpawner) Advance(distance float64) bool {
	if distance-s.lastSpawn <= s.cfg.SpawnDistance {
		return false
	}
	s.lastSpawn = distance
	s.nextID++
	s.coins = append(s.coins, &Coin{
		ID:     s.nextID,
		X:      float64(s.world.Width) + s.cfg.SpawnOffsetX,
		Y:      float64(randRange(s.rng, s.cfg.MarginY, s.world.Height-s.cfg.MarginY)),
		Radius: s.cfg.Radius,
		Value:  s.cfg.Value,
	})
	return true
}

// Update scrolls coins with the world and removes collected or departed ones.
func (s *CoinSpawner) Update(speed float64) {
	for _, c := range s.coins {
		c.X -= speed
	}
	s.prune()
}

// Collect marks every coin overlapping the player hitbox as collected and
// returns them. A coin is returned at most once.
func (s *CoinSpawner) Collect(player core.Rect) []*Coin {
	var got []*Coin
	for _, c := range s.coins {
		if c.Collected || !c.Hitbox().Intersects(player) {
			continue
		}
		c.Collected = true
		got = append(got, c)
	}
	if len(got) > 0 {
		s.prune()
	}
	return got
}

func (s *CoinSpawner) prune() {
	kept := s.coins[:0]
	for _, c := range s.coins {
		if c.Collected || c.X < -float64(c.Radius) {
			continue
		}
		kept = append(kept, c)
	}
	s.coins = kept
}

// Coins returns the coins currently in the world.
func (s *CoinSpawner) Coins() []*Coin {
	return s.coins
}
