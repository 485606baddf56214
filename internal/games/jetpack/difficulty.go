package jetpack

import (
	"math"

	"github.com/vovakirdan/jetpack-runner/internal/config"
)

// Frequencies are spawn intervals in ticks for a difficulty level.
type Frequencies struct {
	Rocket int `json:"rocket"`
	Meteor int `json:"meteor"`
}

// Scheduler derives scroll speed and level from cumulative distance.
// Level and speed never decrease.
type Scheduler struct {
	speedCfg config.SpeedConfig
	cfg      config.DifficultyConfig

	level       int
	speed       float64
	lastLevelUp float64 // distance at which the current level was reached
	distance    float64 // highest distance seen
}

// NewScheduler creates a scheduler at level 1 and base speed.
func NewScheduler(speed config.SpeedConfig, cfg config.DifficultyConfig) *Scheduler {
	s := &Scheduler{speedCfg: speed, cfg: cfg}
	s.level = 1
	s.speed = s.Speed(0)
	return s
}

// Speed returns the scroll speed for a distance: a stepped linear ramp up to
// the cap distance, the maximum afterwards.
func (s *Scheduler) Speed(distance float64) float64 {
	c := s.speedCfg
	if distance >= c.CapDistance {
		return c.Max
	}
	steps := math.Floor(distance / c.StepDistance)
	return math.Min(c.Base+steps*c.StepIncrement, c.Max)
}

// Update records a new distance and reports whether the level changed.
// Repeated calls with the same distance return false.
func (s *Scheduler) Update(distance float64) bool {
	if distance < s.distance {
		distance = s.distance
	}
	s.distance = distance
	s.speed = math.Max(s.speed, s.Speed(distance))

	level := int(distance/s.cfg.DistancePerLevel) + 1
	if level == s.level {
		return false
	}
	s.level = level
	s.lastLevelUp = distance
	return true
}

// Level returns the current level, starting at 1.
func (s *Scheduler) Level() int {
	return s.level
}

// CurrentSpeed returns the speed for the highest distance seen.
func (s *Scheduler) CurrentSpeed() float64 {
	return s.speed
}

// LastLevelUp returns the distance at which the current level began.
func (s *Scheduler) LastLevelUp() float64 {
	return s.lastLevelUp
}

// ObstacleFrequency returns the spawn intervals for a level.
// Both are non-increasing in level and floored at their minimums.
func (s *Scheduler) ObstacleFrequency(level int) Frequencies {
	rf := s.cfg.RocketFrequency
	levelStart := float64(max(level-1, 0)) * s.cfg.DistancePerLevel
	return Frequencies{
		Rocket: max(rf.Base-rf.Step*level, rf.Min),
		Meteor: MeteorInterval(s.cfg.MeteorInterval, levelStart),
	}
}

// Theme returns the visual theme for a level.
func (s *Scheduler) Theme(level int) string {
	return ThemeFor(s.cfg.Themes, level)
}

// MeteorInterval shrinks the meteor interval with distance down to a floor.
func MeteorInterval(cfg config.MeteorIntervalConfig, distance float64) int {
	reduction := math.Min(distance/cfg.ReductionDistance, cfg.MaxReduction)
	return max(int(float64(cfg.Base)*(1-reduction)), cfg.Min)
}

// ThemeFor picks the last band whose first level is at or below level.
func ThemeFor(bands []config.ThemeBand, level int) string {
	theme := ""
	for _, b := range bands {
		if level >= b.FromLevel {
			theme = b.Theme
		}
	}
	return theme
}
