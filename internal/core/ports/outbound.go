package ports

import (
	"context"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

// Embedder builds unit-normalized vectors for chunks and query text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorStore indexes chunk vectors and answers nearest-neighbour
// queries. Query results carry distances: lower is more similar.
type VectorStore interface {
	Count(ctx context.Context) (int, error)
	Query(ctx context.Context, queryVector []float32, topK int) ([]domain.Candidate, error)
	IndexChunks(ctx context.Context, source string, chunks []string, vectors [][]float32) error
}

// CompletionService is the opaque text-completion backend. An empty
// completion with a nil error means the backend returned no candidates.
type CompletionService interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// KnowledgeBaseBuilder rebuilds the whole knowledge base synchronously.
type KnowledgeBaseBuilder interface {
	Rebuild(ctx context.Context) (domain.RebuildReport, error)
}

// CaseRepository persists scraped source pages.
type CaseRepository interface {
	UpsertCase(ctx context.Context, c domain.ScrapedCase) error
	ListCases(ctx context.Context) ([]domain.ScrapedCase, error)
}

// MessageQueue publishes/consumes knowledge-base rebuild requests.
type MessageQueue interface {
	PublishRebuildRequested(ctx context.Context) error
	SubscribeRebuildRequested(ctx context.Context, handler func(context.Context) error) error
}

// URLSource yields the knowledge-base seed URLs.
type URLSource interface {
	ExtractURLs(ctx context.Context) ([]string, error)
}

// PageFetcher downloads a page and returns its cleaned text.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Chunker splits text into retrievable chunks.
type Chunker interface {
	Split(text string) []string
}
