// Package report persists the pipeline's outputs: the joined CSV, the
// run_diagnostics.json triage file and the operator summary table.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"cfpipe/internal/dataset"
)

// WriteCSV persists the dataset as a delimited file under dir, creating the
// directory if needed. Missing cells become empty fields. Returns the full
// path of the written file.
func WriteCSV(ds *dataset.Dataset, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.Write(ds.Columns); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	fields := make([]string, len(ds.Columns))

	for _, row := range ds.Rows {
		for i, col := range ds.Columns {
			s, ok := dataset.ValueToString(row[col])
			if !ok {
				s = ""
			}

			fields[i] = s
		}

		if err := w.Write(fields); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}
