// Package progress implements the Progress Tracker (spec.md §4.6): a
// crash-safe on-disk record of how far the Combination Enumerator has
// advanced, so a recovery run can resume instead of restarting from zero.
// The JSON shape is grounded on fox01010010-Recovery_Tool's saveProgress /
// loadProgress pair; the atomic temp-file-plus-rename write is new, since
// spec.md §4.6 requires crash-safety that plain os.WriteFile does not give.
package progress

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"
)

// Status is the lifecycle state of a recovery run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// State is the persisted shape. LastProcessedIndex is stringified because
// the combination space can exceed 2^53 and must round-trip through JSON
// without float64 precision loss.
type State struct {
	LastProcessedIndex string `json:"last_processed_index"`
	TotalCombinations  string `json:"total_combinations"`
	StartTime          string `json:"start_time"`
	LastUpdateTime     string `json:"last_update_time"`
	ChunksProcessed    int64  `json:"chunks_processed"`
	Status             Status `json:"status"`
	Error              string `json:"error,omitempty"`
}

// Index parses LastProcessedIndex back into a big.Int. Returns zero if the
// field is empty or unparseable.
func (s State) Index() *big.Int {
	n, ok := new(big.Int).SetString(s.LastProcessedIndex, 10)
	if !ok {
		return big.NewInt(0)
	}
	return n
}

// Tracker persists State to a single file, atomically.
type Tracker struct {
	path  string
	start string
}

// New returns a Tracker writing to path.
func New(path string) *Tracker {
	return &Tracker{path: path}
}

// Load reads the progress file. A missing or unparseable file is not an
// error: it returns a fresh, zeroed State, since a first run has nothing
// to resume from.
func (t *Tracker) Load() State {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return State{LastProcessedIndex: "0", Status: StatusRunning}
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{LastProcessedIndex: "0", Status: StatusRunning}
	}
	if s.LastProcessedIndex == "" {
		s.LastProcessedIndex = "0"
	}
	return s
}

// Start records the run's start time, for a fresh State's StartTime field.
func (t *Tracker) Start() {
	t.start = time.Now().UTC().Format(time.RFC3339)
}

// Save atomically persists index as the last committed contiguous-prefix
// global index (spec.md §4.7's "contiguous prefix" rule: callers must not
// call Save with an index unless every tuple up to it has been accounted
// for). It writes to a temp file in the same directory, then renames over
// the target, so a crash mid-write never leaves a truncated or corrupt
// progress file.
func (t *Tracker) Save(index, total *big.Int, chunksProcessed int64, status Status, saveErr error) error {
	s := State{
		LastProcessedIndex: index.String(),
		TotalCombinations:  total.String(),
		StartTime:          t.start,
		LastUpdateTime:     time.Now().UTC().Format(time.RFC3339),
		ChunksProcessed:    chunksProcessed,
		Status:             status,
	}
	if saveErr != nil {
		s.Error = saveErr.Error()
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("progress: marshal: %w", err)
	}

	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, ".progress-*.tmp")
	if err != nil {
		return fmt.Errorf("progress: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("progress: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("progress: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, t.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("progress: rename temp file: %w", err)
	}
	return nil
}

// Remove deletes the progress file, like fox01010010-Recovery_Tool's
// os.Remove(progressFile). A missing file is not an error. The seedscan
// command does not call it: a finished run leaves its file with status
// "completed".
func (t *Tracker) Remove() error {
	err := os.Remove(t.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
