package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"sync"
)

// ErrMalformed is returned when the progress file cannot be parsed.
var ErrMalformed = errors.New("storage: malformed progress file")

// FileStore keeps progress in a plain text file holding two integers, one per
// line: the high score and the lifetime distance.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// OpenFile opens the progress file, creating it with zeros when missing.
func OpenFile(path string) (*FileStore, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	store := &FileStore{path: path}
	if _, err := store.Progress(); err != nil {
		return nil, err
	}
	return store, nil
}

// Progress reads the file. A missing file reads as zero progress and is
// created on the spot.
func (f *FileStore) Progress() (Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FileStore) read() (Progress, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Progress{}, f.write(Progress{})
	}
	if err != nil {
		return Progress{}, fmt.Errorf("storage: cannot read %s: %w", f.path, err)
	}

	var values []int
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 0 {
			return Progress{}, fmt.Errorf("%w: %q", ErrMalformed, line)
		}
		values = append(values, n)
	}
	if len(values) != 2 {
		return Progress{}, fmt.Errorf("%w: want 2 values, got %d", ErrMalformed, len(values))
	}
	return Progress{HighScore: values[0], LifetimeDistance: values[1]}, nil
}

func (f *FileStore) write(p Progress) error {
	data := fmt.Sprintf("%d\n%d\n", p.HighScore, p.LifetimeDistance)
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0o644); err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("storage: cannot replace %s: %w", f.path, err)
	}
	return nil
}

// RecordRun folds a finished run into the totals.
func (f *FileStore) RecordRun(rec RunRecord) (Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, err := f.read()
	if err != nil {
		return Progress{}, err
	}
	p.HighScore = max(p.HighScore, rec.Score())
	p.LifetimeDistance += rec.Score()
	if err := f.write(p); err != nil {
		return Progress{}, err
	}
	return p, nil
}

// Close implements ProgressStore.
func (f *FileStore) Close() error {
	return nil
}

// Path returns the file location.
func (f *FileStore) Path() string {
	return f.path
}

var _ ProgressStore = (*FileStore)(nil)
