package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/boidgrid/types"
)

// fileFormat is the YAML layout of an agent state file:
//
//	agents:
//	  - {id: 1, x: 100, y: 120, vx: 2, vy: -1}
//	  - {id: 2, x: 410, y: 95, vx: 0, vy: 3}
type fileFormat struct {
	Agents []types.AgentSpec `yaml:"agents"`
}

// LoadFile reads a known agent state from a YAML file. Files ending in ".zst"
// are zstd-compressed.
//
// Parameters:
//   - path: Path of the YAML file
//
// Returns:
//   - *Static: Static source returning the file's agents
//   - error: Read or parse error
func LoadFile(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading agent file: %w", err)
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if compressed(path) {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("reading agent file: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	agents, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing agent file %s: %w", path, err)
	}

	return NewStatic(agents), nil
}

// WriteFile writes agents to path in the LoadFile format, zstd-compressed when
// path ends in ".zst". Missing parent directories are created.
func WriteFile(path string, agents []types.AgentSpec) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	bw := bufio.NewWriter(f)
	if !compressed(path) {
		if err := Write(bw, agents); err != nil {
			return err
		}

		return bw.Flush()
	}

	enc, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := Write(enc, agents); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return bw.Flush()
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Parse decodes an agent state in the LoadFile format. Unknown fields are rejected.
func Parse(r io.Reader) ([]types.AgentSpec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f fileFormat
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}

		return nil, err
	}

	return f.Agents, nil
}

// Write encodes agents in the LoadFile format.
func Write(w io.Writer, agents []types.AgentSpec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fileFormat{Agents: agents}); err != nil {
		return err
	}

	return enc.Close()
}
