package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/ports"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	answerer ports.QuestionAnswerer
	admin    ports.KnowledgeBaseAdmin
	metrics  *metrics.HTTPServerMetrics
	logger   *slog.Logger

	rateLimitRPS   float64
	rateLimitBurst int
	maxInFlight    int
}

type RouterOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MaxInFlight    int
}

func NewRouter(
	answerer ports.QuestionAnswerer,
	admin ports.KnowledgeBaseAdmin,
	m *metrics.HTTPServerMetrics,
	logger *slog.Logger,
	options RouterOptions,
) *Router {
	return &Router{
		answerer:       answerer,
		admin:          admin,
		metrics:        m,
		logger:         logger,
		rateLimitRPS:   options.RateLimitRPS,
		rateLimitBurst: options.RateLimitBurst,
		maxInFlight:    options.MaxInFlight,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/api/ask", rt.ask)
	mux.HandleFunc("/v1/kb/rebuild", rt.requestRebuild)
	mux.Handle("/metrics", rt.metrics.Handler())

	var handler http.Handler = mux
	if rt.maxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.maxInFlight, 100*time.Millisecond)
	}
	if rt.rateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	}
	handler = rt.metrics.Middleware(serviceName, handler)
	handler = accessLogMiddleware(handler)
	handler = recoverMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	state := rt.answerer.Answer(r.Context(), req.Question)
	rt.metrics.RecordRAGObservation(serviceName, "/api/ask", len(state.Chunks), time.Since(start))

	sources := make([]string, 0, len(state.Chunks))
	for _, c := range state.Chunks {
		sources = append(sources, c.Source)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"answer":  state.Answer,
		"sources": sources,
	})
}

func (rt *Router) requestRebuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if err := rt.admin.RequestRebuild(r.Context()); err != nil {
		status := mapErrorToHTTPStatus(err)
		rt.logger.Error("rebuild request failed", "error", err, "request_id", requestIDFromContext(r.Context()))
		writeJSON(w, status, map[string]string{"error": "failed to enqueue rebuild"})
		return
	}

	rt.metrics.RecordRebuildRequest(serviceName)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "rebuild requested"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
