package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

type entry struct {
	text   string
	source string
	vector []float32
}

// Store is an in-process vector store for development and tests. It
// mirrors the qdrant client's contract, including Chroma-style cosine
// distances, so the two backends are interchangeable behind the port.
type Store struct {
	mu      sync.RWMutex
	entries []entry
}

func New() *Store {
	return &Store{}
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *Store) IndexChunks(_ context.Context, source string, chunks []string, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Reindexing a source replaces its previous chunks.
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.source != source {
			kept = append(kept, e)
		}
	}
	s.entries = kept

	for i := range chunks {
		s.entries = append(s.entries, entry{
			text:   chunks[i],
			source: source,
			vector: vectors[i],
		})
	}
	return nil
}

func (s *Store) Query(_ context.Context, queryVector []float32, topK int) ([]domain.Candidate, error) {
	if topK <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Candidate, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, domain.Candidate{
			Text:     e.text,
			Source:   e.source,
			Distance: 1 - cosineSimilarity(queryVector, e.vector),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	if topK < len(out) {
		out = out[:topK]
	}
	return out, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
