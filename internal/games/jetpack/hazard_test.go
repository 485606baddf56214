package jetpack

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/jetpack-runner/internal/config"
)

func TestRocketLifecycle(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	l := newRocketLauncher(cfg.Rocket, cfg.World)
	r := l.Rocket

	if _, ok := r.Hitbox(); ok {
		t.Fatal("inactive rocket must not expose a hitbox")
	}

	// Cooldown of 5 arms on the sixth idle tick
	for i := 0; i < 5; i++ {
		if l.Advance(5) {
			t.Fatalf("armed too early on tick %d", i+1)
		}
	}
	if !l.Advance(5) || r.Phase != RocketWarning {
		t.Fatalf("rocket should be in warning, got %s", r.Phase)
	}
	if _, ok := r.Hitbox(); ok {
		t.Error("warning rocket must not expose a hitbox")
	}

	// Warning converges on the player's row
	playerY := 200.0
	startY := r.Y
	for i := 0; i < cfg.Rocket.WarningTicks; i++ {
		if r.Phase != RocketWarning {
			t.Fatalf("left warning after %d ticks", i)
		}
		r.Update(1, playerY)
	}
	if r.Phase != RocketAttack {
		t.Fatalf("phase after warning = %s, expected attack", r.Phase)
	}
	if r.Y >= startY || r.Y > playerY+cfg.Rocket.TrackOffset+cfg.Rocket.TrackSpeed {
		t.Errorf("rocket y = %v did not converge toward %v", r.Y, playerY)
	}

	hb, ok := r.Hitbox()
	if !ok || hb.W != 100 || hb.H != 30 || hb.Y != int(r.Y-15) {
		t.Errorf("attack hitbox = %+v, %v", hb, ok)
	}

	// Launcher does not count while the rocket is busy
	if l.Advance(0) {
		t.Error("launcher armed a busy rocket")
	}

	x := r.X
	r.Update(2, playerY)
	if r.X != x-12 {
		t.Errorf("attack moved to %v, expected %v", r.X, x-12)
	}
	for r.Phase == RocketAttack {
		r.Update(2, playerY)
	}
	if r.X != float64(cfg.World.Width) || r.Y != float64(cfg.World.Height)/2 {
		t.Errorf("rocket not reset after leaving: (%v, %v)", r.X, r.Y)
	}
}

func TestLaserGeneration(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	f := newLaserField(cfg.Laser, cfg.World, rand.New(rand.NewSource(7)))

	seen := map[Orientation]bool{}
	for i := 0; i < 200; i++ {
		f.Laser = nil
		if !f.Advance() {
			t.Fatal("Advance should generate a laser when none exists")
		}
		l := f.Laser
		seen[l.Orientation] = true

		if l.X < float64(cfg.World.Width+cfg.Laser.MinOffset) || l.X > float64(cfg.World.Width+cfg.Laser.MaxOffset) {
			t.Errorf("laser x = %v outside spawn band", l.X)
		}
		length, thickness := l.W, l.H
		maxY := cfg.World.Height - cfg.Laser.MarginY
		if l.Orientation == Vertical {
			length, thickness = l.H, l.W
			maxY = cfg.World.Height - cfg.Laser.VerticalBottomMargin
		}
		if length < cfg.Laser.MinLength || length > cfg.Laser.MaxLength || thickness != cfg.Laser.Thickness {
			t.Errorf("laser size %dx%d out of range", l.W, l.H)
		}
		if int(l.Y) < cfg.Laser.MarginY || int(l.Y) > maxY {
			t.Errorf("laser y = %v outside [%d, %d]", l.Y, cfg.Laser.MarginY, maxY)
		}
	}
	if !seen[Horizontal] || !seen[Vertical] {
		t.Errorf("expected both orientations, saw %v", seen)
	}
}

func TestLaserRegeneratesOffScreen(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	f := newLaserField(cfg.Laser, cfg.World, rand.New(rand.NewSource(1)))
	f.Advance()
	first := f.Laser

	if f.Advance() {
		t.Fatal("on-screen laser must not regenerate")
	}
	first.X = -float64(first.W)
	if !f.Advance() || f.Laser == first {
		t.Error("off-screen laser should be regenerated")
	}
	if _, ok := f.Laser.Hitbox(); !ok {
		t.Error("laser is always collidable")
	}
}

func TestMeteorSystemSpawnGuard(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	ms := NewMeteorSystem(cfg.Meteor, cfg.Difficulty.MeteorInterval, cfg.World, rand.New(rand.NewSource(3)))

	for !ms.ShouldSpawn() {
		ms.Tick()
	}
	if ms.Count() != 0 {
		t.Fatal("expected no meteors before spawning")
	}
	if !ms.SpawnMeteor(120) || ms.Count() != 1 {
		t.Fatalf("SpawnMeteor with zero meteors should spawn exactly one, count = %d", ms.Count())
	}

	// Force the timer due again; a live meteor still blocks spawning
	for !ms.ShouldSpawn() {
		ms.Tick()
	}
	if ms.SpawnMeteor(120) || ms.Count() != 1 {
		t.Errorf("SpawnMeteor with a live meteor must be a no-op, count = %d", ms.Count())
	}
}

func TestMeteorSpawnPlacement(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		ms := NewMeteorSystem(cfg.Meteor, cfg.Difficulty.MeteorInterval, cfg.World, rng)
		ms.SpawnMeteor(20)
		m := ms.Meteors()[0]
		if m.X < cfg.Meteor.EdgeMargin || m.X > 120 {
			t.Errorf("meteor x = %v, expected within [50, 120]", m.X)
		}
		if m.Y != cfg.Meteor.SpawnY || m.Size < 30 || m.Size > 60 || m.FallSpeed < 2 || m.FallSpeed >= 4 {
			t.Errorf("meteor out of range: %+v", m)
		}
	}
}

func TestMeteorFallsAndLeaves(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	ms := NewMeteorSystem(cfg.Meteor, cfg.Difficulty.MeteorInterval, cfg.World, rand.New(rand.NewSource(5)))
	ms.SpawnMeteor(500)
	m := ms.Meteors()[0]

	y := m.Y
	ms.Update(2)
	if m.Y != y+m.FallSpeed*2 {
		t.Errorf("meteor fell to %v, expected %v", m.Y, y+m.FallSpeed*2)
	}
	for i := 0; i < 1000 && ms.Count() > 0; i++ {
		ms.Update(2)
	}
	if ms.Count() != 0 {
		t.Error("meteor should be removed once below the world")
	}
}

func TestMeteorIntervalFollowsDistance(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	ms := NewMeteorSystem(cfg.Meteor, cfg.Difficulty.MeteorInterval, cfg.World, rand.New(rand.NewSource(5)))
	if ms.Interval() != 180 {
		t.Fatalf("initial interval = %d", ms.Interval())
	}
	ms.UpdateDifficulty(10000)
	if ms.Interval() != 90 {
		t.Errorf("interval at 10000 = %d, expected 90", ms.Interval())
	}
	next := ms.NextSpawnFrame()
	ms.SpawnMeteor(100)
	if got := ms.NextSpawnFrame() - ms.FrameCounter(); got < 30 || got > 150 {
		t.Errorf("next spawn in %d frames, expected 90±60 (was %d)", got, next)
	}
}

func TestCoinSpawnerAndCollect(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	s := newCoinSpawner(cfg.Coins, cfg.World, rand.New(rand.NewSource(9)))

	if s.Advance(400) {
		t.Error("coin must not spawn at exactly the spawn distance")
	}
	if !s.Advance(401) || len(s.Coins()) != 1 {
		t.Fatal("coin should spawn past the spawn distance")
	}
	if s.Advance(700) {
		t.Error("second coin too early")
	}

	c := s.Coins()[0]
	if c.X != 1040 || c.Y < 80 || c.Y > 520 || c.Radius != 10 || c.Value != 1 {
		t.Errorf("unexpected coin %+v", c)
	}

	player := c.Hitbox()
	got := s.Collect(player)
	if len(got) != 1 || !got[0].Collected {
		t.Fatalf("Collect() = %v, expected the coin", got)
	}
	if again := s.Collect(player); len(again) != 0 {
		t.Error("a coin must be collected at most once")
	}
	if len(s.Coins()) != 0 {
		t.Error("collected coin should be removed")
	}
}

func TestCoinLeavesWorld(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	s := newCoinSpawner(cfg.Coins, cfg.World, rand.New(rand.NewSource(9)))
	s.Advance(500)
	s.Update(1040)
	if len(s.Coins()) != 1 {
		t.Fatal("coin at x=0 is still on screen")
	}
	s.Update(11)
	if len(s.Coins()) != 0 {
		t.Error("coin past -radius should be removed")
	}
}
