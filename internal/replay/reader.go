package replay

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/jetpack-runner/internal/core"
)

// Bundle is a fully loaded recording.
type Bundle struct {
	Dir      string
	Manifest Manifest
	Header   Header
	Inputs   []core.InputFrame
	Frames   []Frame
}

// Load reads a bundle from its directory or manifest path.
func Load(path string) (*Bundle, error) {
	dir, err := resolve(path)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Dir: dir}
	if err := readJSON(filepath.Join(dir, manifestFile), &b.Manifest); err != nil {
		return nil, fmt.Errorf("replay: read manifest: %w", err)
	}
	if b.Manifest.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: manifest version %d", ErrUnsupported, b.Manifest.Version)
	}
	if err := readJSON(filepath.Join(dir, b.Manifest.HeaderPath), &b.Header); err != nil {
		return nil, fmt.Errorf("replay: read header: %w", err)
	}
	if b.Header.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: header version %d", ErrUnsupported, b.Header.SchemaVersion)
	}

	if b.Inputs, err = loadInputs(filepath.Join(dir, b.Manifest.InputsPath)); err != nil {
		return nil, err
	}
	if b.Frames, err = loadFrames(filepath.Join(dir, b.Manifest.FramesPath)); err != nil {
		return nil, err
	}
	return b, nil
}

func loadInputs(path string) ([]core.InputFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(snappy.NewReader(file))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var inputs []core.InputFrame
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec inputRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("replay: input %d: %w", len(inputs)+1, err)
		}
		if rec.Seq != len(inputs)+1 {
			return nil, fmt.Errorf("replay: input out of order: got seq %d, want %d", rec.Seq, len(inputs)+1)
		}
		f, err := rec.frame()
		if err != nil {
			return nil, fmt.Errorf("replay: input %d: %w", rec.Seq, err)
		}
		inputs = append(inputs, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("replay: read inputs: %w", err)
	}
	return inputs, nil
}

func loadFrames(path string) ([]Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer file.Close()

	reader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	defer reader.Close()

	var frames []Frame
	var size [4]byte
	for {
		if _, err := io.ReadFull(reader, size[:]); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("replay: frame header truncated: %w", err)
		}
		payload := make([]byte, binary.LittleEndian.Uint32(size[:]))
		if _, err := io.ReadFull(reader, payload); err != nil {
			return nil, fmt.Errorf("replay: frame payload truncated: %w", err)
		}
		var f Frame
		if err := json.Unmarshal(payload, &f); err != nil {
			return nil, fmt.Errorf("replay: frame %d: %w", len(frames), err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}
