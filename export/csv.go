// Package export flattens the harvest results into analyst-friendly files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tripforge/go-harvest-hotels/models"
)

var csvHeader = []string{
	"place", "hotel_name", "price_per_night", "rating", "stars",
	"hotel_type", "amenities", "hotel_link", "distance_from_downtown_km",
}

// CSVWriter writes one flat row per listing record.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates the output file and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{file: f, writer: writer}, nil
}

// Write appends all records for one place.
func (w *CSVWriter) Write(place string, records []models.ListingRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i := range records {
		if err := w.writer.Write(recordRow(place, &records[i])); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return w.file.Close()
}

// WriteState exports an entire harvest state to one CSV file. Places are
// emitted in sorted order so repeated exports of the same state are
// byte-identical.
func WriteState(filename string, state *models.HarvestState) error {
	writer, err := NewCSVWriter(filename)
	if err != nil {
		return err
	}

	places := make([]string, 0, len(state.Places))
	for place := range state.Places {
		places = append(places, place)
	}
	sort.Strings(places)

	for _, place := range places {
		if err := writer.Write(place, state.Places[place]); err != nil {
			writer.Close()
			return err
		}
	}
	return writer.Close()
}

func recordRow(place string, r *models.ListingRecord) []string {
	return []string{
		place,
		r.Name,
		formatInt(r.Price),
		formatFloat(r.Rating),
		formatInt(r.Stars),
		string(r.Category),
		strings.Join(r.Amenities, "|"),
		r.Link,
		formatFloat(r.DistanceKM),
	}
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
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
