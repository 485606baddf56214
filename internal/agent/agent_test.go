package agent

import (
	"testing"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
	"github.com/vovakirdan/jetpack-runner/internal/registry"
)

func baseSnapshot(t *testing.T) jetpack.Snapshot {
	t.Helper()
	g := jetpack.New(config.DefaultJetpackConfig())
	g.Reset(core.DefaultConfig())
	g.StartRun()
	return g.Snapshot()
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{"idle", "random", "rule"} {
		if !registry.Exists(id) {
			t.Errorf("agent %q not registered", id)
		}
		a, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error: %v", id, err)
		}
		if a.ID() != id {
			t.Errorf("ID() = %q, want %q", a.ID(), id)
		}
	}

	list := registry.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}

	if _, err := registry.Create("nope"); err == nil {
		t.Error("Create(nope) should fail")
	}
}

func TestRuleAgent(t *testing.T) {
	rule := &Rule{}

	t.Run("empty sky waits", func(t *testing.T) {
		s := baseSnapshot(t)
		s.Laser = nil
		if got := rule.Decide(s); got.Thrust != 0 {
			t.Errorf("Decide() = %+v, want wait", got)
		}
	})

	t.Run("laser at player height", func(t *testing.T) {
		s := baseSnapshot(t)
		hb := s.PlayerHitbox()
		s.Laser = &jetpack.Laser{X: 600, Y: float64(hb.Y), W: 200, H: 50}
		if got := rule.Decide(s); got.Thrust != 1 {
			t.Errorf("Decide() = %+v, want jump", got)
		}
	})

	t.Run("passed laser ignored", func(t *testing.T) {
		s := baseSnapshot(t)
		hb := s.PlayerHitbox()
		s.Laser = &jetpack.Laser{X: 0, Y: float64(hb.Y), W: 50, H: 50}
		if got := rule.Decide(s); got.Thrust != 0 {
			t.Errorf("Decide() = %+v, want wait", got)
		}
	})

	t.Run("rocket in range", func(t *testing.T) {
		s := baseSnapshot(t)
		s.Laser = nil
		hb := s.PlayerHitbox()
		s.Rocket.Phase = jetpack.RocketAttack
		s.Rocket.X = s.Player.X + 200
		s.Rocket.Y = float64(hb.Y) + float64(hb.H)/2
		if got := rule.Decide(s); got.Thrust != 1 {
			t.Errorf("Decide() = %+v, want jump", got)
		}

		s.Rocket.X = s.Player.X + 400
		if got := rule.Decide(s); got.Thrust != 0 {
			t.Errorf("far rocket: Decide() = %+v, want wait", got)
		}
	})

	t.Run("coin overhead", func(t *testing.T) {
		s := baseSnapshot(t)
		s.Laser = nil
		s.Coins = []jetpack.Coin{{X: s.Player.X + 10, Y: 50, Radius: 10}}
		if got := rule.Decide(s); got.Thrust != 1 {
			t.Errorf("Decide() = %+v, want jump", got)
		}
	})
}

func TestRandomAgentSeeded(t *testing.T) {
	s := baseSnapshot(t)
	a, b := NewRandom(4), NewRandom(4)
	a.Reset(99)
	b.Reset(99)

	for i := 0; i < 100; i++ {
		x, y := a.Decide(s), b.Decide(s)
		if x != y {
			t.Fatalf("tick %d: %+v != %+v", i, x, y)
		}
	}
}

func TestRandomAgentHolds(t *testing.T) {
	s := baseSnapshot(t)
	a := NewRandom(5)
	a.Reset(3)

	first := a.Decide(s)
	for i := 1; i < 5; i++ {
		if got := a.Decide(s); got != first {
			t.Fatalf("decision changed within hold window at tick %d", i)
		}
	}
}

func TestIdleAgent(t *testing.T) {
	s := baseSnapshot(t)
	if got := (&Idle{}).Decide(s); got != (core.Intent{}) {
		t.Errorf("Decide() = %+v, want zero intent", got)
	}
}
