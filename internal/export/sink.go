package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/stratsearch/internal/model"
)

// Sink persists exported rows
type Sink interface {
	Write(rows []model.Row) error
}

// Formats lists the supported output formats
var Formats = []string{"xlsx", "csv", "json"}

// NewSink returns the sink for format writing to path. An empty format is
// taken from the path extension, defaulting to xlsx.
func NewSink(format, path string) (Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("output path is required")
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatFromPath(path)
	}

	switch format {
	case "xlsx", "excel":
		return &XLSXSink{Path: path}, nil
	case "csv":
		return &CSVSink{Path: path}, nil
	case "json":
		return &JSONSink{Path: path}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// FormatFromPath guesses the format from a file extension
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	default:
		return "xlsx"
	}
}

// Extension returns the file extension used for format
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return ".csv"
	case "json":
		return ".json"
	default:
		return ".xlsx"
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
