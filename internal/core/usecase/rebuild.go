package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/ports"
)

// RebuildUseCase rebuilds the whole knowledge base: seed URLs are
// extracted from the source PDF, each page is scraped and cleaned,
// persisted as a case, then every stored case is chunked, embedded in
// batches and indexed into the vector store. Individual pages may fail
// without aborting the rebuild; previously scraped cases still get
// re-indexed.
type RebuildUseCase struct {
	urls      ports.URLSource
	fetcher   ports.PageFetcher
	cases     ports.CaseRepository
	chunker   ports.Chunker
	embedder  ports.Embedder
	store     ports.VectorStore
	batchSize int
	logger    *slog.Logger
}

func NewRebuildUseCase(
	urls ports.URLSource,
	fetcher ports.PageFetcher,
	cases ports.CaseRepository,
	chunker ports.Chunker,
	embedder ports.Embedder,
	store ports.VectorStore,
	batchSize int,
	logger *slog.Logger,
) *RebuildUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &RebuildUseCase{
		urls:      urls,
		fetcher:   fetcher,
		cases:     cases,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (uc *RebuildUseCase) Rebuild(ctx context.Context) (domain.RebuildReport, error) {
	var report domain.RebuildReport

	urls, err := uc.urls.ExtractURLs(ctx)
	if err != nil {
		return report, fmt.Errorf("extract seed urls: %w", err)
	}
	report.URLs = len(urls)

	for _, url := range urls {
		content, err := uc.fetcher.FetchText(ctx, url)
		if err != nil {
			uc.logger.Error("scrape page", "url", url, "error", err)
			continue
		}
		if strings.TrimSpace(content) == "" {
			uc.logger.Warn("empty page content, skipping", "url", url)
			continue
		}

		if err := uc.cases.UpsertCase(ctx, domain.ScrapedCase{
			Source:    url,
			Content:   content,
			ScrapedAt: time.Now().UTC(),
		}); err != nil {
			uc.logger.Error("persist case", "url", url, "error", err)
			continue
		}
		report.PagesScraped++
	}

	cases, err := uc.cases.ListCases(ctx)
	if err != nil {
		return report, fmt.Errorf("list cases: %w", err)
	}
	report.Cases = len(cases)

	for _, c := range cases {
		indexed, err := uc.indexCase(ctx, c)
		if err != nil {
			uc.logger.Error("index case", "source", c.Source, "error", err)
			continue
		}
		report.ChunksIndexed += indexed
	}

	uc.logger.Info("knowledge base rebuild finished",
		"urls", report.URLs,
		"pages_scraped", report.PagesScraped,
		"cases", report.Cases,
		"chunks_indexed", report.ChunksIndexed,
	)
	return report, nil
}

func (uc *RebuildUseCase) indexCase(ctx context.Context, c domain.ScrapedCase) (int, error) {
	chunks := uc.chunker.Split(c.Content)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += uc.batchSize {
		end := start + uc.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		batchVectors, err := uc.embedder.Embed(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("embed batch: %w", err)
		}
		if len(batchVectors) != len(batch) {
			return 0, fmt.Errorf("vectors/chunks mismatch: %d/%d", len(batchVectors), len(batch))
		}
		vectors = append(vectors, batchVectors...)
	}

	if err := uc.store.IndexChunks(ctx, c.Source, chunks, vectors); err != nil {
		return 0, fmt.Errorf("index chunks: %w", err)
	}
	return len(chunks), nil
}
