package usecase

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	questionPlaceholder = "{question}"
	chunksPlaceholder   = "{chunks}"
)

// defaultPromptTemplate is used when no template file is configured.
const defaultPromptTemplate = `Answer the question using only the numbered context below.
Cite the context entries you used with their bracketed numbers, e.g. [1].
If the context is insufficient, say so directly.

Question:
{question}

Context:
{chunks}`

// LoadPromptTemplate reads the prompt template from path. An empty
// path selects the built-in default; a missing or unreadable file is
// an error so misconfiguration fails at startup, not per request.
func LoadPromptTemplate(path string) (string, error) {
	if path == "" {
		return defaultPromptTemplate, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt template %s: %w", path, err)
	}
	template := strings.TrimSpace(string(raw))
	if template == "" {
		return "", fmt.Errorf("prompt template %s is empty", path)
	}
	return template, nil
}

// renderPrompt fills the {question} and {chunks} placeholders. A
// template missing either placeholder is a formatting error, reported
// to the caller so the prompt stage can soft-fail.
func renderPrompt(template, question, contextBlock string) (string, error) {
	if !strings.Contains(template, questionPlaceholder) {
		return "", errors.New("prompt template is missing the {question} placeholder")
	}
	if !strings.Contains(template, chunksPlaceholder) {
		return "", errors.New("prompt template is missing the {chunks} placeholder")
	}
	prompt := strings.ReplaceAll(template, questionPlaceholder, question)
	return strings.ReplaceAll(prompt, chunksPlaceholder, contextBlock), nil
}
