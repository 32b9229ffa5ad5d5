package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

// rerankByTermOverlap re-scores distance-filtered candidates by literal
// keyword overlap with the question. TF-IDF weights are computed over
// the candidate set only, using the candidate texts as the reference
// corpus: smooth inverse document frequency and l2-normalized rows,
// with vocabulary terms of two or more characters. A candidate's score
// is the sum of its weights for terms also present in the question.
// Zero-score candidates are dropped; ties keep first-seen order.
func rerankByTermOverlap(candidates []domain.Candidate, question string, topK int) []domain.Chunk {
	if len(candidates) == 0 || topK <= 0 {
		return nil
	}

	docs := make([]map[string]float64, len(candidates))
	docFreq := make(map[string]int)
	for i, candidate := range candidates {
		counts := make(map[string]float64)
		for _, term := range tokenizeWords(candidate.Text) {
			if len([]rune(term)) < 2 {
				continue
			}
			counts[term]++
		}
		for term := range counts {
			docFreq[term]++
		}
		docs[i] = counts
	}

	total := float64(len(candidates))
	idf := make(map[string]float64, len(docFreq))
	for term, df := range docFreq {
		idf[term] = math.Log((1+total)/(1+float64(df))) + 1
	}

	queryTerms := make(map[string]struct{})
	for _, term := range tokenizeWords(question) {
		queryTerms[term] = struct{}{}
	}

	scored := make([]domain.ScoredChunk, 0, len(candidates))
	for i, candidate := range candidates {
		weights := docs[i]
		var norm float64
		for term, tf := range weights {
			w := tf * idf[term]
			weights[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
		}

		var score float64
		for term, w := range weights {
			if _, ok := queryTerms[term]; !ok {
				continue
			}
			if norm > 0 {
				score += w / norm
			}
		}
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk: domain.Chunk{Text: candidate.Text, Source: candidate.Source},
			Score: score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK > len(scored) {
		topK = len(scored)
	}
	out := make([]domain.Chunk, 0, topK)
	for _, sc := range scored[:topK] {
		out = append(out, sc.Chunk)
	}
	return out
}

// tokenizeWords lowercases and splits on word boundaries, keeping
// letters, digits and underscore across scripts.
func tokenizeWords(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
