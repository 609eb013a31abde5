// Package checkpoint persists harvest progress atomically so interrupted
// runs resume without data loss or duplicate work.
package checkpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tripforge/go-harvest-hotels/models"
)

// Store serializes HarvestState to two durable JSON artifacts: the results
// mapping and the failure ledger.
type Store struct {
	resultsPath string
	failedPath  string
}

// NewStore builds a store writing to the given paths.
func NewStore(resultsPath, failedPath string) *Store {
	return &Store{resultsPath: resultsPath, failedPath: failedPath}
}

// Load reads the persisted state. A missing or corrupt file contributes an
// empty portion rather than an error: a bad checkpoint must not abort a
// resume attempt, it only loses unsynced progress since the last good save.
func (s *Store) Load() *models.HarvestState {
	state := models.NewHarvestState()

	if err := loadJSON(s.resultsPath, &state.Places); err != nil {
		slog.Warn("could not load results checkpoint",
			slog.String("path", s.resultsPath),
			slog.Any("error", err),
		)
		state.Places = make(map[string][]models.ListingRecord)
	}
	if err := loadJSON(s.failedPath, &state.Failures); err != nil {
		slog.Warn("could not load failure ledger",
			slog.String("path", s.failedPath),
			slog.Any("error", err),
		)
		state.Failures = nil
	}
	return state
}

// Save persists the state. Each artifact is written to a temporary file and
// renamed over the target, so a crash mid-save leaves the previous
// checkpoint fully intact.
func (s *Store) Save(state *models.HarvestState) error {
	if err := saveJSON(s.resultsPath, state.Places); err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	failures := state.Failures
	if failures == nil {
		failures = []models.Failure{}
	}
	if err := saveJSON(s.failedPath, failures); err != nil {
		return fmt.Errorf("save failure ledger: %w", err)
	}
	return nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func saveJSON(path string, v interface{}) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %q: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %q: %w", tmp, err)
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
