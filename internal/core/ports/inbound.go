package ports

import (
	"context"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

// QuestionAnswerer is the inbound contract for answering a user question.
// It always returns a fully shaped state; stage failures are absorbed
// into empty fields rather than surfaced as errors.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question string) domain.PipelineState
}

// KnowledgeBaseAdmin requests an asynchronous knowledge-base rebuild.
type KnowledgeBaseAdmin interface {
	RequestRebuild(ctx context.Context) error
}
