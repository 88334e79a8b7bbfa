// Package corpus provides corpus dataset adapters.
// Clean Architecture: Adapter implementing ports.CorpusSource.
package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"stylux/internal/domain/entities"
)

// Required corpus columns. Header names are normalized before matching, so
// the dataset's "why_this_outfit_(men)" style headers resolve too.
var requiredColumns = []string{
	"skin_tone",
	"recommended_outfit",
	"why_this_outfit",
	"shade",
	"preferred_colors",
	"style",
}

// CSVSource reads corpus rows from a CSV file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource creates a corpus source for the given CSV path.
func NewCSVSource(path string) *CSVSource {
	if path == "" {
		path = "final.csv"
	}
	return &CSVSource{path: path}
}

// Path returns the corpus file location.
func (s *CSVSource) Path() string {
	return s.path
}

// Rows reads every record and returns the complete ones in file order.
// Rows missing a required field are dropped silently; a malformed record
// (wrong field count) is dropped as well.
func (s *CSVSource) Rows(ctx context.Context) ([]entities.CorpusRow, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading corpus header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeHeader(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("corpus file missing column %q", name)
		}
	}

	var rows []entities.CorpusRow
	dropped := 0
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			dropped++
			continue
		}

		row := entities.CorpusRow{
			Index:             index,
			SkinTone:          field(record, columns, "skin_tone"),
			RecommendedOutfit: field(record, columns, "recommended_outfit"),
			WhyThisOutfit:     field(record, columns, "why_this_outfit"),
			Shade:             field(record, columns, "shade"),
			PreferredColors:   field(record, columns, "preferred_colors"),
			Style:             field(record, columns, "style"),
		}
		if !row.Complete() {
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	if dropped > 0 {
		log.Printf("[DEBUG] Dropped %d incomplete corpus rows", dropped)
	}
	return rows, nil
}

// field extracts a column value from a record, blank when out of range.
func field(record []string, columns map[string]int, name string) string {
	i := columns[name]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// normalizeHeader lowercases a header name and strips gendered suffixes
// like "_(men)" that appear in the source dataset.
func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "_(men)")
	name = strings.TrimSuffix(name, "_(women)")
	return name
}
