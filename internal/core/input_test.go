package core

import (
	"errors"
	"math"
	"testing"
)

func TestIntentValidate(t *testing.T) {
	tests := []struct {
		name    string
		intent  Intent
		wantErr bool
	}{
		{"zero", Intent{}, false},
		{"full thrust left", Intent{Thrust: 1, Move: -1}, false},
		{"thrust above one", Intent{Thrust: 1.5}, true},
		{"negative thrust", Intent{Thrust: -0.1}, true},
		{"move out of range", Intent{Move: 2}, true},
		{"nan thrust", Intent{Thrust: math.NaN()}, true},
		{"nan move", Intent{Move: math.NaN()}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.intent.Validate()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidAction) {
					t.Errorf("Validate() = %v, expected ErrInvalidAction", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
		})
	}
}

func TestIntentClamped(t *testing.T) {
	got := Intent{Thrust: 3, Move: math.NaN(), Shoot: true}.Clamped()
	if got != (Intent{Thrust: 1, Move: 0, Shoot: true}) {
		t.Errorf("Clamped() = %+v", got)
	}
}

func TestResolvedIntent(t *testing.T) {
	tests := []struct {
		name     string
		actions  []Action
		intent   Intent
		expected Intent
	}{
		{"nothing", nil, Intent{}, Intent{}},
		{"digital thrust", []Action{ActionThrust}, Intent{}, Intent{Thrust: 1}},
		{"analog passes through", nil, Intent{Thrust: 0.4, Move: 0.5}, Intent{Thrust: 0.4, Move: 0.5}},
		{"left overrides analog move", []Action{ActionLeft}, Intent{Move: 0.5}, Intent{Move: -1}},
		{"left and right cancel", []Action{ActionLeft, ActionRight}, Intent{Move: 0.5}, Intent{}},
		{"shoot", []Action{ActionShoot}, Intent{}, Intent{Shoot: true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := IntentFrame(tc.intent)
			for _, a := range tc.actions {
				f.Set(a)
			}
			if got := f.ResolvedIntent(); got != tc.expected {
				t.Errorf("ResolvedIntent() = %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestInputFrameCloneAndClear(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionPause)
	f.Intent = Intent{Thrust: 1}

	clone := f.Clone()
	f.Clear()

	if f.Has(ActionPause) || f.Intent != (Intent{}) {
		t.Error("Clear should drop actions and intent")
	}
	if !clone.Has(ActionPause) || clone.Intent.Thrust != 1 {
		t.Error("Clone should be independent of the original")
	}

	var empty InputFrame
	if empty.Has(ActionThrust) {
		t.Error("zero frame should have no actions")
	}
}

func TestParseAction(t *testing.T) {
	for a := ActionNone; a <= ActionQuit; a++ {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAction("Fly"); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("ParseAction(Fly) error = %v", err)
	}
}

func TestDiscreteIntent(t *testing.T) {
	if DiscreteIntent(false) != (Intent{}) {
		t.Error("wait should be the zero intent")
	}
	if DiscreteIntent(true).Thrust != 1 {
		t.Error("jump should be full thrust")
	}
}
