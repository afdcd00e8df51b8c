package extract

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

const pageWithNoise = `
<html>
<head>
	<title>Page title</title>
	<script>var x = "script content";</script>
	<style>body { color: red; }</style>
</head>
<body>
	<p>Visible paragraph text.</p>
	<noscript>Noscript content</noscript>
	<iframe src="https://example.com">Iframe content</iframe>
	<template><p>Template content</p></template>
	<svg><text>Svg content</text></svg>
	<p>Another   visible
	paragraph.</p>
</body>
</html>
`

func TestVisibleText_SkipInvisibleElements(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(pageWithNoise))
	if err != nil {
		t.Fatalf("Failed to parse HTML: %v", err)
	}

	text := VisibleText(doc)

	if text != "Visible paragraph text. Another visible paragraph." {
		t.Errorf("Unexpected visible text %q", text)
	}
}

func TestHTMLText_ShortPageUsesVisibleText(t *testing.T) {
	text, err := HTMLText([]byte(pageWithNoise), "https://transport.gov.example/plan")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, hidden := range []string{"script content", "color: red", "Noscript content", "Iframe content", "Template content", "Svg content"} {
		if strings.Contains(text, hidden) {
			t.Errorf("Should not extract %q, got %q", hidden, text)
		}
	}
	if !strings.Contains(text, "Visible paragraph text.") {
		t.Errorf("Expected visible paragraph, got %q", text)
	}
}

func TestHTMLText_Article(t *testing.T) {
	paragraph := strings.Repeat("The national rail programme expands regional services and electrifies freight corridors. ", 6)
	page := `<html><head><title>Plan</title><script>tracking()</script></head><body>
		<nav><a href="/">Home</a></nav>
		<article><h1>Mobility Plan</h1><p>` + paragraph + `</p><p>` + paragraph + `</p></article>
		</body></html>`

	text, err := HTMLText([]byte(page), "https://transport.gov.example/plan")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(text, "electrifies freight corridors") {
		t.Errorf("Expected article text, got %q", text)
	}
	if strings.Contains(text, "tracking()") {
		t.Error("Should not extract script content")
	}
}

func TestHTMLMarkdown(t *testing.T) {
	page := `<html><head><style>p{}</style></head><body>
		<h1>Strategy</h1>
		<script>alert(1)</script>
		<ul><li>Rail first</li><li>Cleaner buses</li></ul>
	</body></html>`

	markdown, err := HTMLMarkdown([]byte(page))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(markdown, "# Strategy") {
		t.Errorf("Expected heading, got %q", markdown)
	}
	if !strings.Contains(markdown, "Rail first") || !strings.Contains(markdown, "Cleaner buses") {
		t.Errorf("Expected list items, got %q", markdown)
	}
	if strings.Contains(markdown, "alert(1)") || strings.Contains(markdown, "p{}") {
		t.Errorf("Skipped elements leaked into markdown: %q", markdown)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"shorter than cap", "abc", 5, "abc"},
		{"exact cap", "abcde", 5, "abcde"},
		{"cut", "abcdef", 3, "abc"},
		{"multibyte runes", "ÄÖÜäöü", 4, "ÄÖÜä"},
		{"no cap", "abc", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}
