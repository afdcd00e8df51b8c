package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/stratsearch/internal/extract/extracttest"
)

func numberedPages(n int) []string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = fmt.Sprintf("Page%d", i+1)
	}
	return pages
}

func TestPDFText_PageLimit(t *testing.T) {
	doc := extracttest.PDF(numberedPages(7)...)

	tests := []struct {
		name     string
		maxPages int
		want     string
	}{
		{"first five", 5, "Page1\n\nPage2\n\nPage3\n\nPage4\n\nPage5"},
		{"one page", 1, "Page1"},
		{"limit above page count", 10, "Page1\n\nPage2\n\nPage3\n\nPage4\n\nPage5\n\nPage6\n\nPage7"},
		{"no limit", 0, "Page1\n\nPage2\n\nPage3\n\nPage4\n\nPage5\n\nPage6\n\nPage7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := PDFText(doc, tt.maxPages)
			if err != nil {
				t.Fatalf("PDFText() error = %v", err)
			}
			if text != tt.want {
				t.Errorf("PDFText() = %q, want %q", text, tt.want)
			}
		})
	}
}

func TestPDFText_SkipsBlankPages(t *testing.T) {
	doc := extracttest.PDF("National Rail Plan", "  ", "Budget (2030)")

	text, err := PDFText(doc, 5)
	if err != nil {
		t.Fatalf("PDFText() error = %v", err)
	}
	if want := "National Rail Plan\n\nBudget (2030)"; text != want {
		t.Errorf("PDFText() = %q, want %q", text, want)
	}
	if strings.Contains(text, "\n\n\n") {
		t.Error("Blank page left an empty block")
	}
}

func TestPDFText_InvalidDocument(t *testing.T) {
	inputs := map[string][]byte{
		"empty":     {},
		"not a pdf": []byte("<html>definitely not a pdf</html>"),
		"truncated": []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog"),
	}

	for name, content := range inputs {
		t.Run(name, func(t *testing.T) {
			text, err := PDFText(content, 5)
			if err == nil {
				t.Errorf("Expected error, got text %q", text)
			}
			if text != "" {
				t.Errorf("Expected no text on error, got %q", text)
			}
		})
	}
}
