package harvest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tripforge/go-harvest-hotels/models"
)

// LoadWorkList reads the ordered place list. Unlike checkpoint loading this
// is allowed to fail hard: an unreadable input list is an unrecoverable
// configuration error and the only condition that aborts a run before any
// work begins.
func LoadWorkList(path string) ([]models.WorkItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read work list: %w", err)
	}
	var items []models.WorkItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse work list: %w", err)
	}
	return items, nil
}

// SliceWorkList applies the operator's start/end window. end==0 means "to
// the end of the list"; out-of-range indices clamp rather than error.
func SliceWorkList(items []models.WorkItem, start, end int) []models.WorkItem {
	if start < 0 {
		start = 0
	}
	if end == 0 || end > len(items) {
		end = len(items)
	}
	if start >= end {
		return nil
	}
	return items[start:end]
}
