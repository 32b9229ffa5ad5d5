package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

// BuildContext renders ranked chunks as a numbered, source-attributed
// context block:
//
//	[1] <trimmed text>
//	Source: <source>
//
// Blocks are 1-indexed in input order and separated by a blank line.
// The ordering is load-bearing: AttachLinks resolves citation indices
// against the same sequence. A missing text or source is an internal
// invariant break between stages, so this is a hard error rather than
// a soft-absorbed one.
func BuildContext(chunks []domain.Chunk) (string, error) {
	if len(chunks) == 0 {
		return "", domain.WrapError(domain.ErrChunkShape, "build context", errors.New("empty chunk sequence"))
	}

	var b strings.Builder
	for i, chunk := range chunks {
		if chunk.Text == "" || chunk.Source == "" {
			return "", domain.WrapError(
				domain.ErrChunkShape,
				"build context",
				fmt.Errorf("chunk %d is missing text or source", i+1),
			)
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] %s\nSource: %s", i+1, strings.TrimSpace(chunk.Text), chunk.Source)
	}
	return b.String(), nil
}

// AttachLinks rewrites inline numeric citation markers [i] into
// markdown links [i](source_i), where i is 1-indexed over chunks in
// the same order BuildContext numbered them. Markers with no matching
// chunk are left untouched; chunks with a blank source are skipped.
//
// Replacement is plain substring substitution: a marker value that
// happens to appear inside other text is rewritten too. That matches
// the established behaviour downstream consumers rely on.
func AttachLinks(answer string, chunks []domain.Chunk) string {
	result := answer
	for i, chunk := range chunks {
		source := strings.TrimSpace(chunk.Source)
		if source == "" {
			continue
		}
		marker := fmt.Sprintf("[%d]", i+1)
		result = strings.ReplaceAll(result, marker, fmt.Sprintf("%s(%s)", marker, source))
	}
	return result
}
