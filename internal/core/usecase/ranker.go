package usecase

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/ports"
)

type RankerConfig struct {
	TopK        int
	RerankTopK  int
	MaxDistance float64
}

func (c RankerConfig) normalize() RankerConfig {
	out := c
	if out.TopK <= 0 {
		out.TopK = 10
	}
	if out.RerankTopK <= 0 {
		out.RerankTopK = 3
	}
	if out.MaxDistance <= 0 {
		out.MaxDistance = 1.3
	}
	return out
}

// Ranker is the two-stage relevance filter: vector similarity search
// with a distance cutoff, followed by term-overlap reranking restricted
// to the query's own keywords. Retrieval failures never propagate: the
// worst outcome is an empty chunk list.
type Ranker struct {
	embedder ports.Embedder
	store    ports.VectorStore
	builder  ports.KnowledgeBaseBuilder
	cfg      RankerConfig
	logger   *slog.Logger

	buildMu   sync.Mutex
	populated bool
}

func NewRanker(
	embedder ports.Embedder,
	store ports.VectorStore,
	builder ports.KnowledgeBaseBuilder,
	cfg RankerConfig,
	logger *slog.Logger,
) *Ranker {
	return &Ranker{
		embedder: embedder,
		store:    store,
		builder:  builder,
		cfg:      cfg.normalize(),
		logger:   logger,
	}
}

// FindRelevantChunks returns up to RerankTopK chunks relevant to the
// question, ordered by descending term-overlap score. A blank question
// or non-positive topK yields an empty result without touching the
// store; so does any backend failure.
func (r *Ranker) FindRelevantChunks(ctx context.Context, question string, topK int) []domain.Chunk {
	if strings.TrimSpace(question) == "" {
		r.logger.Warn("empty question, skipping retrieval")
		return nil
	}
	if topK <= 0 {
		r.logger.Warn("non-positive top_k, skipping retrieval", "top_k", topK)
		return nil
	}

	if err := r.ensurePopulated(ctx); err != nil {
		r.logger.Error("knowledge base unavailable", "error", err)
		return nil
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		r.logger.Error("embed question", "question", question, "error", err)
		return nil
	}

	candidates, err := r.store.Query(ctx, queryVector, topK)
	if err != nil {
		r.logger.Error("vector search", "question", question, "error", err)
		return nil
	}

	// Distance cutoff bounds semantically-adjacent but lexically
	// unrelated matches before the lexical pass.
	filtered := candidates[:0:0]
	for _, candidate := range candidates {
		if candidate.Distance <= r.cfg.MaxDistance {
			filtered = append(filtered, candidate)
		}
	}
	if len(filtered) == 0 {
		r.logger.Info("no candidates within distance threshold",
			"question", question,
			"max_distance", r.cfg.MaxDistance,
		)
		return nil
	}

	chunks := rerankByTermOverlap(filtered, question, r.cfg.RerankTopK)
	r.logger.Info("retrieved chunks",
		"question", question,
		"candidates", len(filtered),
		"chunks", len(chunks),
	)
	return chunks
}

// ensurePopulated triggers a one-time synchronous knowledge-base
// rebuild when the store is empty. The mutex serializes concurrent
// first requests behind a single rebuild; once the store is seen as
// populated the count check is never repeated.
func (r *Ranker) ensurePopulated(ctx context.Context) error {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()
	if r.populated {
		return nil
	}

	count, err := r.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		r.populated = true
		return nil
	}

	r.logger.Warn("vector store is empty, rebuilding knowledge base")
	report, err := r.builder.Rebuild(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("knowledge base rebuilt",
		"pages_scraped", report.PagesScraped,
		"chunks_indexed", report.ChunksIndexed,
	)
	r.populated = true
	return nil
}
