package replay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/jetpack-runner/internal/config"
	"github.com/vovakirdan/jetpack-runner/internal/core"
)

func recordRun(t *testing.T, cfg config.JetpackConfig, ticks int) string {
	t.Helper()
	digest, err := ConfigDigest(cfg)
	if err != nil {
		t.Fatal(err)
	}
	header := Header{Seed: 5, Character: "pilot", Agent: "test", StartPlaying: true, SnapshotEvery: 10, ConfigDigest: digest}
	clock := func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	w, err := NewWriter(t.TempDir(), "test run!", header, clock)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	g := NewGame(header, cfg)
	for i := 0; i < ticks; i++ {
		in := core.IntentFrame(core.DiscreteIntent(i/20%2 == 1))
		if i == 3 {
			in.Set(core.ActionShoot)
		}
		g.Step(in)
		if err := w.Record(in, g.Snapshot()); err != nil {
			t.Fatalf("Record: %v", err)
		}
		if g.Run().Terminal {
			break
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return w.Dir()
}

func TestWriterLayout(t *testing.T) {
	dir := recordRun(t, config.DefaultJetpackConfig(), 25)

	if filepath.Base(dir) != "testrun-20260301T120000.000Z" {
		t.Errorf("unexpected bundle name %q", filepath.Base(dir))
	}
	for _, name := range []string{manifestFile, headerFile, inputsFile, framesFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(b.Inputs) != 25 || b.Manifest.Ticks != 25 {
		t.Errorf("inputs = %d, manifest ticks = %d, want 25", len(b.Inputs), b.Manifest.Ticks)
	}
	// Checkpoints at 10 and 20, plus the final one at 25.
	if len(b.Frames) != 3 || b.Manifest.Frames != 3 {
		t.Fatalf("frames = %d, manifest frames = %d, want 3", len(b.Frames), b.Manifest.Frames)
	}
	if b.Frames[2].Seq != 25 {
		t.Errorf("last checkpoint seq = %d, want 25", b.Frames[2].Seq)
	}
	if !b.Inputs[3].Has(core.ActionShoot) {
		t.Error("recorded shoot action lost")
	}
	if b.Header.Seed != 5 || !b.Header.StartPlaying {
		t.Errorf("header = %+v", b.Header)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	dir := recordRun(t, cfg, 200)

	b, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	res, err := Verify(b, cfg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Checked != len(b.Frames) {
		t.Errorf("checked %d of %d checkpoints", res.Checked, len(b.Frames))
	}
	if res.Final.Run.Distance != b.Manifest.Distance {
		t.Errorf("final distance %v, manifest %v", res.Final.Run.Distance, b.Manifest.Distance)
	}
}

func TestVerifyDetectsTamperedInput(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	b, err := Load(recordRun(t, cfg, 40))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	b.Inputs[0] = core.IntentFrame(core.Intent{Thrust: 1})
	res, err := Verify(b, cfg)
	if !errors.Is(err, ErrDivergence) {
		t.Fatalf("Verify error = %v, want ErrDivergence", err)
	}
	if res.Divergent != 10 {
		t.Errorf("Divergent = %d, want first checkpoint 10", res.Divergent)
	}
}

func TestVerifyRejectsOtherConfig(t *testing.T) {
	cfg := config.DefaultJetpackConfig()
	b, err := Load(recordRun(t, cfg, 10))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	other := cfg
	other.Physics.Gravity = 0.9
	if _, err := Verify(b, other); !errors.Is(err, ErrDivergence) {
		t.Errorf("Verify error = %v, want ErrDivergence", err)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing bundle")
	}
}
