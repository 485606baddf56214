package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/jetpack-runner/internal/core"
	"github.com/vovakirdan/jetpack-runner/internal/games/jetpack"
)

var nameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// DefaultSnapshotEvery is the checkpoint cadence in ticks.
const DefaultSnapshotEvery = 60

// Writer streams a run to a bundle directory. It is safe for concurrent use.
type Writer struct {
	mu        sync.Mutex
	dir       string
	created   time.Time
	header    Header
	inputFile *os.File
	inputs    *snappy.Writer
	frameFile *os.File
	frames    *zstd.Encoder
	seq       int
	nFrames   int
	frameSeq  int // seq of the last checkpoint
	last      jetpack.Snapshot
	closed    bool
}

// NewWriter creates <root>/<name>-<timestamp>/ and opens the compressed sinks.
// A zero SnapshotEvery uses DefaultSnapshotEvery.
func NewWriter(root, name string, header Header, clock func() time.Time) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("replay: root directory must be provided")
	}
	if clock == nil {
		clock = time.Now
	}
	if header.SnapshotEvery <= 0 {
		header.SnapshotEvery = DefaultSnapshotEvery
	}
	header.SchemaVersion = SchemaVersion

	cleaned := nameCleaner.ReplaceAllString(name, "")
	if cleaned == "" {
		cleaned = "run"
	}
	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", cleaned, created.Format("20060102T150405.000Z")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	if err := writeJSON(filepath.Join(dir, headerFile), header); err != nil {
		return nil, fmt.Errorf("replay: write header: %w", err)
	}

	inputFile, err := os.Create(filepath.Join(dir, inputsFile))
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	frameFile, err := os.Create(filepath.Join(dir, framesFile))
	if err != nil {
		inputFile.Close()
		return nil, fmt.Errorf("replay: %w", err)
	}
	frames, err := zstd.NewWriter(frameFile)
	if err != nil {
		inputFile.Close()
		frameFile.Close()
		return nil, fmt.Errorf("replay: %w", err)
	}

	return &Writer{
		dir:       dir,
		created:   created,
		header:    header,
		inputFile: inputFile,
		inputs:    snappy.NewBufferedWriter(inputFile),
		frameFile: frameFile,
		frames:    frames,
	}, nil
}

// Dir returns the bundle directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Record appends the input that was just stepped and the snapshot it produced.
// A checkpoint is written every SnapshotEvery inputs and when a run ends.
func (w *Writer) Record(in core.InputFrame, after jetpack.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("replay: writer closed")
	}
	w.seq++
	line, err := json.Marshal(encodeInput(w.seq, in))
	if err != nil {
		return fmt.Errorf("replay: encode input: %w", err)
	}
	line = append(line, '\n')
	if _, err := w.inputs.Write(line); err != nil {
		return fmt.Errorf("replay: write input: %w", err)
	}

	ended := after.Run.Terminal && !w.last.Run.Terminal
	w.last = after
	if w.seq%w.header.SnapshotEvery == 0 || ended {
		return w.writeFrameLocked(after)
	}
	return nil
}

func (w *Writer) writeFrameLocked(s jetpack.Snapshot) error {
	digest, err := Digest(s)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(Frame{Seq: w.seq, Digest: digest, Snapshot: s})
	if err != nil {
		return fmt.Errorf("replay: encode frame: %w", err)
	}
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(payload)))
	if _, err := w.frames.Write(size[:]); err != nil {
		return fmt.Errorf("replay: write frame: %w", err)
	}
	if _, err := w.frames.Write(payload); err != nil {
		return fmt.Errorf("replay: write frame: %w", err)
	}
	w.nFrames++
	w.frameSeq = w.seq
	return nil
}

// Close writes a final checkpoint if needed, the manifest, and releases the
// files. The first error encountered is returned.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if w.seq > 0 && w.frameSeq != w.seq {
		keep(w.writeFrameLocked(w.last))
	}
	keep(w.inputs.Close())
	keep(w.inputFile.Close())
	keep(w.frames.Close())
	keep(w.frameFile.Close())

	manifest := Manifest{
		Version:    SchemaVersion,
		CreatedAt:  w.created.Format(time.RFC3339Nano),
		HeaderPath: headerFile,
		InputsPath: inputsFile,
		FramesPath: framesFile,
		Ticks:      w.seq,
		Frames:     w.nFrames,
		Distance:   w.last.Run.Distance,
		Coins:      w.last.Run.Coins,
		Cause:      w.last.Run.Cause,
	}
	keep(writeJSON(filepath.Join(w.dir, manifestFile), manifest))
	return firstErr
}
