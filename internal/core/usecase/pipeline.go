package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/ports"
)

// systemPrompt fixes the assistant's role for every generation call.
const systemPrompt = "You are an AI expert on EORA company projects."

// ChunkRetriever is the pipeline's view of the relevance ranker. It
// never fails: retrieval problems surface as an empty chunk list.
type ChunkRetriever interface {
	FindRelevantChunks(ctx context.Context, question string, topK int) []domain.Chunk
}

// Pipeline is the fixed five-stage answer flow:
//
//	input -> search -> prompt -> generate -> output
//
// Stages always advance; a stage that cannot produce its field writes
// an empty value instead of halting the chain, so Answer always
// returns a fully shaped state. Only programming errors may escape.
type Pipeline struct {
	retriever ChunkRetriever
	completer ports.CompletionService
	template  string
	topK      int
	logger    *slog.Logger
}

func NewPipeline(
	retriever ChunkRetriever,
	completer ports.CompletionService,
	template string,
	topK int,
	logger *slog.Logger,
) *Pipeline {
	if topK <= 0 {
		topK = 10
	}
	return &Pipeline{
		retriever: retriever,
		completer: completer,
		template:  template,
		topK:      topK,
		logger:    logger,
	}
}

type stage struct {
	name string
	run  func(context.Context, domain.PipelineState) domain.PipelineState
}

// stages returns the pipeline topology. The chain is linear and
// unconditional: no stage looks ahead or branches.
func (p *Pipeline) stages() []stage {
	return []stage{
		{name: "input", run: p.inputStage},
		{name: "search", run: p.searchStage},
		{name: "prompt", run: p.promptStage},
		{name: "generate", run: p.generateStage},
		{name: "output", run: p.outputStage},
	}
}

func (p *Pipeline) Answer(ctx context.Context, question string) domain.PipelineState {
	state := domain.PipelineState{UserInput: question}
	for _, st := range p.stages() {
		state = st.run(ctx, state)
	}
	return state
}

// inputStage is the uniform entry point; it passes state through.
func (p *Pipeline) inputStage(_ context.Context, state domain.PipelineState) domain.PipelineState {
	return state
}

func (p *Pipeline) searchStage(ctx context.Context, state domain.PipelineState) domain.PipelineState {
	if state.UserInput == "" {
		p.logger.Error("search stage: user input is missing")
		state.Chunks = []domain.Chunk{}
		return state
	}
	state.Chunks = p.retriever.FindRelevantChunks(ctx, state.UserInput, p.topK)
	return state
}

func (p *Pipeline) promptStage(_ context.Context, state domain.PipelineState) domain.PipelineState {
	if state.UserInput == "" || len(state.Chunks) == 0 {
		p.logger.Error("prompt stage: missing user input or chunks",
			"question", state.UserInput,
			"chunks", len(state.Chunks),
		)
		state.Prompt = ""
		return state
	}

	contextBlock, err := BuildContext(state.Chunks)
	if err != nil {
		// Chunk records come straight from the ranker, so a shape
		// violation here is an internal invariant break.
		panic(err)
	}

	prompt, err := renderPrompt(p.template, state.UserInput, contextBlock)
	if err != nil {
		p.logger.Error("prompt stage: template formatting failed", "error", err)
		state.Prompt = ""
		return state
	}
	state.Prompt = prompt
	return state
}

func (p *Pipeline) generateStage(ctx context.Context, state domain.PipelineState) domain.PipelineState {
	if state.Prompt == "" {
		p.logger.Error("generate stage: prompt is missing", "question", state.UserInput)
		state.Answer = ""
		return state
	}

	start := time.Now()
	content, err := p.completer.Complete(ctx, systemPrompt, state.Prompt)
	if err != nil {
		p.logger.Error("generate stage: completion failed",
			"question", state.UserInput,
			"error", err,
		)
		state.Answer = ""
		return state
	}

	state.Answer = AttachLinks(content, state.Chunks)
	p.logger.Info("answer generated",
		"question", state.UserInput,
		"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
		"answer_len", len(state.Answer),
	)
	return state
}

// outputStage never fails the pipeline; it exists as a uniform exit
// point and flags empty answers for diagnostics.
func (p *Pipeline) outputStage(_ context.Context, state domain.PipelineState) domain.PipelineState {
	if strings.TrimSpace(state.Answer) == "" {
		p.logger.Warn("pipeline finished without an answer", "question", state.UserInput)
	}
	return state
}
