package qdrant

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCountMissingCollectionIsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	count, err := New(server.URL, "eora_cases").Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0, got %d", count)
	}
}

func TestCountParsesResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/eora_cases/points/count" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["exact"] != true {
			t.Errorf("expected exact count request, got %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"count": 42},
		})
	}))
	defer server.Close()

	count, err := New(server.URL, "eora_cases").Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 42 {
		t.Fatalf("expected 42, got %d", count)
	}
}

func TestQueryConvertsScoreToDistance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections/eora_cases/points/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"score": 0.9, "payload": map[string]any{"text": "chunk one", "source": "https://eora.ru/cases/one"}},
				{"score": 0.1, "payload": map[string]any{"text": "chunk two"}},
			},
		})
	}))
	defer server.Close()

	candidates, err := New(server.URL, "eora_cases").Query(context.Background(), []float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if math.Abs(candidates[0].Distance-0.1) > 1e-9 {
		t.Fatalf("expected distance 0.1, got %f", candidates[0].Distance)
	}
	if math.Abs(candidates[1].Distance-0.9) > 1e-9 {
		t.Fatalf("expected distance 0.9, got %f", candidates[1].Distance)
	}
	if candidates[1].Source != "unknown" {
		t.Fatalf("expected default source, got %q", candidates[1].Source)
	}
}

func TestIndexChunksUpsertsDeterministicPoints(t *testing.T) {
	var firstIDs, secondIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/eora_cases":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/eora_cases/points":
			var body struct {
				Points []struct {
					ID      string         `json:"id"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode upsert body: %v", err)
			}
			ids := make([]string, 0, len(body.Points))
			for _, p := range body.Points {
				ids = append(ids, p.ID)
				if p.Payload["source"] != "https://eora.ru/cases/one" {
					t.Errorf("unexpected payload source: %v", p.Payload["source"])
				}
			}
			if firstIDs == nil {
				firstIDs = ids
			} else {
				secondIDs = ids
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := New(server.URL, "eora_cases")
	chunks := []string{"chunk a", "chunk b"}
	vectors := [][]float32{{1, 0}, {0, 1}}

	for i := 0; i < 2; i++ {
		if err := client.IndexChunks(context.Background(), "https://eora.ru/cases/one", chunks, vectors); err != nil {
			t.Fatalf("IndexChunks() error = %v", err)
		}
	}

	if len(firstIDs) != 2 || len(secondIDs) != 2 {
		t.Fatalf("expected two upserts of two points, got %v / %v", firstIDs, secondIDs)
	}
	for i := range firstIDs {
		if firstIDs[i] != secondIDs[i] {
			t.Fatalf("point ids are not deterministic: %v vs %v", firstIDs, secondIDs)
		}
	}
}

func TestIndexChunksTreatsExistingCollectionAsEnsured(t *testing.T) {
	upserts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/collections/eora_cases":
			w.WriteHeader(http.StatusConflict)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/eora_cases/points":
			upserts++
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client := New(server.URL, "eora_cases")
	err := client.IndexChunks(context.Background(), "s", []string{"c"}, [][]float32{{1}})
	if err != nil {
		t.Fatalf("IndexChunks() error = %v", err)
	}
	if upserts != 1 {
		t.Fatalf("expected 1 upsert, got %d", upserts)
	}
}

func TestIndexChunksRejectsMismatchedLengths(t *testing.T) {
	client := New("http://localhost:1", "eora_cases")
	err := client.IndexChunks(context.Background(), "s", []string{"a", "b"}, [][]float32{{1}})
	if err == nil {
		t.Fatalf("expected error for mismatched lengths")
	}
}
