package utils

import (
	"encoding/csv"
	"fmt"
	"io"
)

func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseCSVRows reads a CSV stream and returns the data rows, skipping the
// header. Every row must have at least minColumns columns.
func ParseCSVRows(r io.Reader, minColumns int) ([][]string, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	data := rows[1:]
	for i, row := range data {
		if len(row) < minColumns {
			return nil, fmt.Errorf("row %d: expected at least %d columns, got %d", i+1, minColumns, len(row))
		}
	}
	return data, nil
}
