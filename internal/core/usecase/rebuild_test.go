package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

type urlSourceFake struct {
	urls []string
	err  error
}

func (f urlSourceFake) ExtractURLs(context.Context) ([]string, error) {
	return f.urls, f.err
}

type fetcherFake struct {
	pages map[string]string
	errs  map[string]error
}

func (f fetcherFake) FetchText(_ context.Context, url string) (string, error) {
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

type caseRepoFake struct {
	upserts   []domain.ScrapedCase
	upsertErr error
	listErr   error
}

func (f *caseRepoFake) UpsertCase(_ context.Context, c domain.ScrapedCase) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, c)
	return nil
}

func (f *caseRepoFake) ListCases(context.Context) ([]domain.ScrapedCase, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.upserts, nil
}

type chunkerFake struct{}

func (chunkerFake) Split(text string) []string {
	return strings.Fields(text)
}

type indexingStoreFake struct {
	storeFake
	indexed map[string][]string
}

func (f *indexingStoreFake) IndexChunks(_ context.Context, source string, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks/vectors length mismatch")
	}
	if f.indexed == nil {
		f.indexed = map[string][]string{}
	}
	f.indexed[source] = chunks
	return nil
}

func newTestRebuild(urls urlSourceFake, fetcher fetcherFake, repo *caseRepoFake, store *indexingStoreFake) *RebuildUseCase {
	return NewRebuildUseCase(
		urls, fetcher, repo, chunkerFake{},
		embedderFake{vector: []float32{1, 0}},
		store, 2, testLogger(),
	)
}

func TestRebuildScrapesChunksAndIndexes(t *testing.T) {
	urls := urlSourceFake{urls: []string{"https://eora.ru/cases/one", "https://eora.ru/cases/two"}}
	fetcher := fetcherFake{pages: map[string]string{
		"https://eora.ru/cases/one": "alpha beta gamma",
		"https://eora.ru/cases/two": "delta",
	}}
	repo := &caseRepoFake{}
	store := &indexingStoreFake{}

	report, err := newTestRebuild(urls, fetcher, repo, store).Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if report.URLs != 2 || report.PagesScraped != 2 || report.Cases != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.ChunksIndexed != 4 {
		t.Fatalf("expected 4 chunks indexed, got %d", report.ChunksIndexed)
	}
	if len(store.indexed["https://eora.ru/cases/one"]) != 3 {
		t.Fatalf("unexpected chunks for case one: %v", store.indexed["https://eora.ru/cases/one"])
	}
}

func TestRebuildSkipsFailedAndEmptyPages(t *testing.T) {
	urls := urlSourceFake{urls: []string{
		"https://eora.ru/cases/ok",
		"https://eora.ru/cases/broken",
		"https://eora.ru/cases/empty",
	}}
	fetcher := fetcherFake{
		pages: map[string]string{
			"https://eora.ru/cases/ok":    "useful content",
			"https://eora.ru/cases/empty": "   ",
		},
		errs: map[string]error{
			"https://eora.ru/cases/broken": errors.New("503"),
		},
	}
	repo := &caseRepoFake{}
	store := &indexingStoreFake{}

	report, err := newTestRebuild(urls, fetcher, repo, store).Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if report.URLs != 3 {
		t.Fatalf("expected 3 urls, got %d", report.URLs)
	}
	if report.PagesScraped != 1 || report.Cases != 1 {
		t.Fatalf("expected 1 scraped case, got %+v", report)
	}
}

func TestRebuildFailsWhenURLExtractionFails(t *testing.T) {
	urls := urlSourceFake{err: errors.New("pdf unreadable")}
	repo := &caseRepoFake{}
	store := &indexingStoreFake{}

	_, err := newTestRebuild(urls, fetcherFake{}, repo, store).Rebuild(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestRebuildReindexesPreviouslyStoredCases(t *testing.T) {
	// No URLs scrape successfully, but cases from an earlier run are
	// still in the repository and must be re-indexed.
	urls := urlSourceFake{urls: []string{"https://eora.ru/cases/broken"}}
	fetcher := fetcherFake{errs: map[string]error{
		"https://eora.ru/cases/broken": errors.New("timeout"),
	}}
	repo := &caseRepoFake{upserts: []domain.ScrapedCase{
		{Source: "https://eora.ru/cases/old", Content: "stored earlier"},
	}}
	store := &indexingStoreFake{}

	report, err := newTestRebuild(urls, fetcher, repo, store).Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if report.PagesScraped != 0 {
		t.Fatalf("expected 0 pages scraped, got %d", report.PagesScraped)
	}
	if report.Cases != 1 || report.ChunksIndexed != 2 {
		t.Fatalf("expected the stored case to be re-indexed, got %+v", report)
	}
}
