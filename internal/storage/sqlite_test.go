package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndTopRuns(t *testing.T) {
	store := openTestStore(t)

	for _, d := range []float64{100.5, 50, 200.9} {
		if _, err := store.SaveRun(RunRecord{Character: "pilot", Distance: d, Cause: "laser"}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns(10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}

	// Should be sorted descending
	if runs[0].Score() != 200 || runs[1].Score() != 100 || runs[2].Score() != 50 {
		t.Errorf("Runs not in expected order: %v", runs)
	}
	if runs[0].RunID == "" {
		t.Error("Expected a generated run ID")
	}
	if runs[0].RunID == runs[1].RunID {
		t.Error("Run IDs should be unique")
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRun(RunRecord{Character: "pilot", Distance: float64((i + 1) * 100)})
	}

	runs, err := store.TopRuns(3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("Expected 3 runs with limit, got %d", len(runs))
	}
	if runs[0].Score() != 500 || runs[2].Score() != 300 {
		t.Errorf("Runs not in expected order: %v", runs)
	}
}

func TestStoreProgress(t *testing.T) {
	store := openTestStore(t)

	p, err := store.Progress()
	if err != nil {
		t.Fatalf("Progress() failed: %v", err)
	}
	if p != (Progress{}) {
		t.Errorf("Expected zero progress for empty store, got %+v", p)
	}

	store.RecordRun(RunRecord{Character: "pilot", Distance: 120.7})
	p, err = store.RecordRun(RunRecord{Character: "heavy", Distance: 80.2})
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if p.HighScore != 120 {
		t.Errorf("Expected high score 120, got %d", p.HighScore)
	}
	if p.LifetimeDistance != 200 {
		t.Errorf("Expected lifetime distance 200, got %d", p.LifetimeDistance)
	}
}

func TestStoreStatsAndClear(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(RunRecord{Character: "pilot", Distance: 100, Coins: 3})
	store.SaveRun(RunRecord{Character: "pilot", Distance: 300, Coins: 5})

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.HighScore != 300 || stats.TotalCoins != 8 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.AvgDistance != 200 {
		t.Errorf("Expected average 200, got %v", stats.AvgDistance)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	runs, _ := store.TopRuns(10)
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
