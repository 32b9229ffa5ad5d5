package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/observability/metrics"
)

type answererFake struct {
	state domain.PipelineState
	panic bool
}

func (f answererFake) Answer(context.Context, string) domain.PipelineState {
	if f.panic {
		panic("context assembly received malformed chunks")
	}
	return f.state
}

type adminFake struct {
	err   error
	calls int
}

func (f *adminFake) RequestRebuild(context.Context) error {
	f.calls++
	return f.err
}

func newTestRouter(answerer answererFake, admin *adminFake, options RouterOptions) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(answerer, admin, metrics.NewHTTPServerMetrics("api-test"), logger, options).Handler()
}

func TestAskReturnsAnswerWithSources(t *testing.T) {
	handler := newTestRouter(answererFake{state: domain.PipelineState{
		UserInput: "What did EORA build for retail?",
		Chunks: []domain.Chunk{
			{Text: "a bot", Source: "https://eora.ru/cases/one"},
			{Text: "a search engine", Source: "https://eora.ru/cases/two"},
		},
		Answer: "EORA built a bot [1](https://eora.ru/cases/one).",
	}}, &adminFake{}, RouterOptions{})

	payload, _ := json.Marshal(map[string]any{"question": "What did EORA build for retail?"})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp struct {
		Answer  string   `json:"answer"`
		Sources []string `json:"sources"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "EORA built a bot [1](https://eora.ru/cases/one)." {
		t.Fatalf("unexpected answer: %q", resp.Answer)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", resp.Sources)
	}
}

func TestAskBlankQuestionReturns400(t *testing.T) {
	handler := newTestRouter(answererFake{}, &adminFake{}, RouterOptions{})

	payload, _ := json.Marshal(map[string]any{"question": "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(payload))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestAskInvalidJSONReturns400(t *testing.T) {
	handler := newTestRouter(answererFake{}, &adminFake{}, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader([]byte("{not json")))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestAskEmptyAnswerStillReturns200(t *testing.T) {
	handler := newTestRouter(answererFake{state: domain.PipelineState{
		UserInput: "question",
	}}, &adminFake{}, RouterOptions{})

	payload, _ := json.Marshal(map[string]any{"question": "question"})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(payload))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "" {
		t.Fatalf("expected empty answer, got %q", resp.Answer)
	}
}

func TestAskRecoversFromPanicWith500(t *testing.T) {
	handler := newTestRouter(answererFake{panic: true}, &adminFake{}, RouterOptions{})

	payload, _ := json.Marshal(map[string]any{"question": "question"})
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(payload))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
}

func TestRequestRebuildReturns202(t *testing.T) {
	admin := &adminFake{}
	handler := newTestRouter(answererFake{}, admin, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/v1/kb/rebuild", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	if admin.calls != 1 {
		t.Fatalf("expected 1 publish call, got %d", admin.calls)
	}
}

func TestRequestRebuildMapsTemporaryErrorTo503(t *testing.T) {
	admin := &adminFake{err: domain.WrapError(domain.ErrTemporary, "nats publish", errors.New("no servers"))}
	handler := newTestRouter(answererFake{}, admin, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/v1/kb/rebuild", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestRouter(answererFake{}, &adminFake{}, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}
