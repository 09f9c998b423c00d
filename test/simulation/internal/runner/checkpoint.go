package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/boidgrid"
	"github.com/arloliu/boidgrid/source"
)

// Checkpoint is a snapshot of the grid written at a tick.
//
// The agents are written next to it in the agent file format, optionally
// zstd-compressed, so a checkpoint can seed a new run through the "file" agent
// source.
type Checkpoint struct {
	RunID      string        `yaml:"runId"`
	Tick       uint64        `yaml:"tick"`
	Timestamp  time.Time     `yaml:"timestamp"`
	Digest     string        `yaml:"digest"`
	Strategy   string        `yaml:"strategy"`
	Agents     int           `yaml:"agents"`
	AgentsFile string        `yaml:"agentsFile"`
	Counts     []int         `yaml:"counts"`
	Bounds     [][4]float64  `yaml:"bounds,flow"`
	Runtime    time.Duration `yaml:"runtime"`
}

// GridView is the part of a coordinator a checkpoint reads.
type GridView interface {
	TickCount() uint64
	Digest() uint64
	Counts() []int
	AgentSpecs() []boidgrid.AgentSpec
	BoundsFloats() [][4]float64
	StrategyName() string
}

// CheckpointWriter writes checkpoints into a directory.
type CheckpointWriter struct {
	dir       string
	runID     string
	compress  bool
	startTime time.Time
}

// NewCheckpointWriter creates a new checkpoint writer.
//
// Parameters:
//   - dir: Directory to store checkpoints (created on first save)
//   - runID: Run identity recorded in every checkpoint
//   - compress: Write agent files zstd-compressed
//
// Returns:
//   - *CheckpointWriter: Initialized writer
func NewCheckpointWriter(dir string, runID string, compress bool) *CheckpointWriter {
	return &CheckpointWriter{
		dir:       dir,
		runID:     runID,
		compress:  compress,
		startTime: time.Now(),
	}
}

// Save writes a checkpoint of grid and its agent file.
//
// Parameters:
//   - grid: Grid to snapshot
//
// Returns:
//   - string: Path of the checkpoint file
//   - error: Error if either file cannot be written
func (w *CheckpointWriter) Save(grid GridView) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	agents := grid.AgentSpecs()
	tick := grid.TickCount()
	agentsFile := fmt.Sprintf("agents_%010d.yaml", tick)
	if w.compress {
		agentsFile += ".zst"
	}

	if err := source.WriteFile(filepath.Join(w.dir, agentsFile), agents); err != nil {
		return "", fmt.Errorf("failed to write agents: %w", err)
	}

	cp := Checkpoint{
		RunID:      w.runID,
		Tick:       tick,
		Timestamp:  time.Now().UTC(),
		Digest:     fmt.Sprintf("%016x", grid.Digest()),
		Strategy:   grid.StrategyName(),
		Agents:     len(agents),
		AgentsFile: agentsFile,
		Counts:     grid.Counts(),
		Bounds:     grid.BoundsFloats(),
		Runtime:    time.Since(w.startTime),
	}

	data, err := yaml.Marshal(&cp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("checkpoint_%010d.yaml", tick))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write checkpoint: %w", err)
	}

	return path, nil
}

// LoadCheckpoint loads a checkpoint from disk.
//
// Parameters:
//   - path: Checkpoint file path
//
// Returns:
//   - *Checkpoint: Loaded checkpoint
//   - error: Error if load fails
func LoadCheckpoint(path string) (*Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := yaml.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}

	return &cp, nil
}

// AgentsPath returns the path of the agent file saved with a checkpoint loaded
// from checkpointPath.
func (cp *Checkpoint) AgentsPath(checkpointPath string) string {
	return filepath.Join(filepath.Dir(checkpointPath), cp.AgentsFile)
}

// FindLatestCheckpoint finds the checkpoint with the highest tick in dir.
//
// Returns:
//   - string: Path of the latest checkpoint (empty if none found)
//   - error: Error if directory read fails
func FindLatestCheckpoint(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}

		return "", fmt.Errorf("failed to read checkpoint directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "checkpoint_") || filepath.Ext(name) != ".yaml" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", nil
	}

	// Zero-padded tick numbers sort lexically.
	slices.Sort(names)

	return filepath.Join(dir, names[len(names)-1]), nil
}
