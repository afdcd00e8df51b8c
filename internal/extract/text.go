package extract

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// MinReadableChars is the shortest readability result accepted before
// falling back to the full visible-text walk
const MinReadableChars = 200

// skipTags never contribute visible text
var skipTags = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"template": true,
	"svg":      true,
}

var (
	spaceRe           = regexp.MustCompile(`[ \t\f\r]+`)
	blankLinesRe      = regexp.MustCompile(`\n{3,}`)
	markdownConverter = newMarkdownConverter()
)

func newMarkdownConverter() *md.Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return converter
}

// HTMLText extracts readable plain text from an HTML document.
// The readability article body is preferred when it is long enough;
// otherwise every visible text node is collected.
func HTMLText(content []byte, pageURL string) (string, error) {
	if text := readableText(content, pageURL); utf8.RuneCountInString(text) >= MinReadableChars {
		return text, nil
	}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	return VisibleText(doc), nil
}

func readableText(content []byte, pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(content), parsed)
	if err != nil {
		return ""
	}
	return normalizeSpace(article.TextContent)
}

// VisibleText walks the tree and joins text nodes outside skipped elements
func VisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// HTMLMarkdown renders the document body as markdown with skipped elements removed
func HTMLMarkdown(content []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	removeSkipped(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}

	markdown, err := markdownConverter.ConvertString(buf.String())
	if err != nil {
		return "", err
	}
	return normalizeSpace(markdown), nil
}

func removeSkipped(n *html.Node) {
	var toRemove []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && skipTags[c.Data] {
			toRemove = append(toRemove, c)
			continue
		}
		removeSkipped(c)
	}
	for _, c := range toRemove {
		n.RemoveChild(c)
	}
}

// normalizeSpace collapses runs of horizontal whitespace and blank lines
func normalizeSpace(s string) string {
	s = spaceRe.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Truncate returns at most max runes of s
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
