package scraper

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedElements are stripped entirely: neither their text nor their
// children contribute to the extracted content.
var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"nav":      {},
	"form":     {},
	"footer":   {},
	"header":   {},
}

// extractText parses an HTML document and returns visible text, one
// line per text node, with non-breaking spaces collapsed.
func extractText(rawHTML string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skippedElements[n.Data]; skip {
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.ReplaceAll(n.Data, " ", " ")
			for _, line := range strings.Split(text, "\n") {
				if trimmed := strings.TrimSpace(line); trimmed != "" {
					lines = append(lines, trimmed)
				}
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return lines, nil
}

// cleanLines applies the boilerplate filter rules and joins the
// surviving lines into the page's case text.
func cleanLines(lines []string, rules Rules) string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if rules.keep(line) {
			kept = append(kept, strings.TrimSpace(line))
		}
	}
	return strings.Join(kept, "\n")
}
