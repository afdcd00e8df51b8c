package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ppiankov/stratsearch/internal/model"
)

// CSVSink writes rows as comma-separated values with a header line
type CSVSink struct {
	Path string
}

// Write creates or replaces the file at s.Path
func (s *CSVSink) Write(rows []model.Row) error {
	if err := ensureDir(s.Path); err != nil {
		return err
	}

	file, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	w := csv.NewWriter(file)
	if err := w.Write(model.RowHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return file.Close()
}

// JSONSink writes rows as an indented JSON array
type JSONSink struct {
	Path string
}

// Write creates or replaces the file at s.Path
func (s *JSONSink) Write(rows []model.Row) error {
	if err := ensureDir(s.Path); err != nil {
		return err
	}
	if rows == nil {
		rows = []model.Row{}
	}

	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	if err := os.WriteFile(s.Path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
