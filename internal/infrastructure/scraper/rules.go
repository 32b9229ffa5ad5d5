package scraper

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules filter boilerplate out of scraped pages: cookie banners,
// contact forms, marketing blocks. All matching is case-insensitive.
type Rules struct {
	MinLineLength int      `yaml:"min_line_length"`
	SkipExact     []string `yaml:"skip_exact"`
	SkipContains  []string `yaml:"skip_contains"`
	SkipPrefixes  []string `yaml:"skip_prefixes"`
}

// LoadRules reads filter rules from a yaml file. An empty or missing
// path returns the built-in defaults.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return defaultRules(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultRules(), nil
		}
		return Rules{}, fmt.Errorf("read scraper rules %s: %w", path, err)
	}

	var rules Rules
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse scraper rules %s: %w", path, err)
	}
	if rules.MinLineLength <= 0 {
		rules.MinLineLength = defaultRules().MinLineLength
	}
	return rules, nil
}

func defaultRules() Rules {
	return Rules{
		MinLineLength: 30,
		SkipContains: []string{
			"cookies",
			"personal data",
			"privacy policy",
			"by clicking the button",
			"subscribe to",
		},
		SkipPrefixes: []string{
			"email",
			"submit",
			"phone",
			"contact",
		},
	}
}

func (r Rules) keep(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len([]rune(trimmed)) < r.MinLineLength {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, exact := range r.SkipExact {
		if lower == strings.ToLower(exact) {
			return false
		}
	}
	for _, prefix := range r.SkipPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return false
		}
	}
	for _, sub := range r.SkipContains {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return false
		}
	}
	return true
}
