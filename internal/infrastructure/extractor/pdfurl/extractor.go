package pdfurl

import (
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/ledongthuc/pdf"
)

var urlPattern = regexp.MustCompile(`https?://[^\s)]+`)

// Extractor pulls the knowledge-base seed URLs out of the source PDF.
type Extractor struct {
	path string
}

func New(path string) *Extractor {
	return &Extractor{path: path}
}

func (e *Extractor) ExtractURLs(_ context.Context) ([]string, error) {
	file, reader, err := pdf.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", e.path, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	plain, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text %s: %w", e.path, err)
	}
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, fmt.Errorf("read pdf text %s: %w", e.path, err)
	}

	return extractURLsFromText(buf.String()), nil
}

// extractURLsFromText returns unique URLs in first-seen order.
func extractURLsFromText(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, url := range matches {
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		out = append(out, url)
	}
	return out
}
