package enrich

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Dataset holds a tabular CSV dataset: a header row plus records. Enrichment
// only appends columns; source fields are never mutated.
type Dataset struct {
	Header []string
	Rows   [][]string
}

// LoadDataset reads a CSV file. Unreadable or malformed input is an error;
// the caller treats it as fatal.
func LoadDataset(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("dataset has no header row")
	}

	return &Dataset{Header: records[0], Rows: records[1:]}, nil
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, header := range d.Header {
		if strings.EqualFold(strings.TrimSpace(header), name) {
			return i
		}
	}
	return -1
}

// Value returns the trimmed cell at (row, column index), tolerating ragged
// rows.
func (d *Dataset) Value(row, column int) string {
	if column < 0 || row < 0 || row >= len(d.Rows) || column >= len(d.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(d.Rows[row][column])
}

// AddColumn appends a derived column. values must have one entry per row.
func (d *Dataset) AddColumn(name string, values []string) error {
	if len(values) != len(d.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(d.Rows))
	}
	d.Header = append(d.Header, name)
	for i := range d.Rows {
		d.Rows[i] = append(d.Rows[i], values[i])
	}
	return nil
}

// Write saves the dataset to a new CSV file. The input file is never modified
// in place.
func (d *Dataset) Write(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(d.Header); err != nil {
		file.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range d.Rows {
		// Pad ragged rows so every record matches the header width.
		if len(row) < len(d.Header) {
			padded := make([]string, len(d.Header))
			copy(padded, row)
			row = padded
		}
		if err := writer.Write(row); err != nil {
			file.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// OutputPath derives the default enriched-dataset path from the input path by
// inserting suffix before the extension.
func OutputPath(inputPath, suffix string) string {
	if idx := strings.LastIndex(inputPath, ".csv"); idx >= 0 {
		return inputPath[:idx] + suffix + ".csv"
	}
	return inputPath + suffix + ".csv"
}
