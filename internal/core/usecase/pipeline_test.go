package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/domain"
)

type retrieverFake struct {
	chunks []domain.Chunk
}

func (f retrieverFake) FindRelevantChunks(context.Context, string, int) []domain.Chunk {
	return f.chunks
}

type completerFake struct {
	answer     string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *completerFake) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.answer, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(retriever ChunkRetriever, completer *completerFake) *Pipeline {
	return NewPipeline(retriever, completer, defaultPromptTemplate, 10, testLogger())
}

func TestAnswerHappyPathAccumulatesAllFields(t *testing.T) {
	chunks := []domain.Chunk{
		{Text: "a delivery bot for KazanExpress", Source: "https://eora.ru/cases/one"},
	}
	completer := &completerFake{answer: "EORA built a delivery bot [1]."}
	p := newTestPipeline(retrieverFake{chunks: chunks}, completer)

	state := p.Answer(context.Background(), "What did EORA build?")

	if state.UserInput != "What did EORA build?" {
		t.Fatalf("user input lost: %q", state.UserInput)
	}
	if len(state.Chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(state.Chunks))
	}
	if state.Prompt == "" {
		t.Fatalf("expected prompt to be rendered")
	}
	if state.Answer != "EORA built a delivery bot [1](https://eora.ru/cases/one)." {
		t.Fatalf("unexpected answer: %q", state.Answer)
	}
	if completer.lastSystem != systemPrompt {
		t.Fatalf("unexpected system prompt: %q", completer.lastSystem)
	}
}

func TestAnswerEmptyQuestionCompletesWithEmptyFields(t *testing.T) {
	completer := &completerFake{answer: "should not be used"}
	p := newTestPipeline(retrieverFake{}, completer)

	state := p.Answer(context.Background(), "")

	if state.Chunks == nil || len(state.Chunks) != 0 {
		t.Fatalf("expected empty chunk slice, got %v", state.Chunks)
	}
	if state.Prompt != "" {
		t.Fatalf("expected empty prompt, got %q", state.Prompt)
	}
	if state.Answer != "" {
		t.Fatalf("expected empty answer, got %q", state.Answer)
	}
	if completer.calls != 0 {
		t.Fatalf("completion should not run without a prompt, got %d calls", completer.calls)
	}
}

func TestAnswerNoChunksSkipsPromptAndGeneration(t *testing.T) {
	completer := &completerFake{answer: "unused"}
	p := newTestPipeline(retrieverFake{chunks: nil}, completer)

	state := p.Answer(context.Background(), "unknown topic")

	if state.Prompt != "" {
		t.Fatalf("expected empty prompt, got %q", state.Prompt)
	}
	if state.Answer != "" {
		t.Fatalf("expected empty answer, got %q", state.Answer)
	}
	if completer.calls != 0 {
		t.Fatalf("expected no completion calls, got %d", completer.calls)
	}
}

func TestAnswerCompletionFailureYieldsEmptyAnswer(t *testing.T) {
	chunks := []domain.Chunk{{Text: "text", Source: "https://eora.ru/cases/one"}}
	completer := &completerFake{err: errors.New("backend down")}
	p := newTestPipeline(retrieverFake{chunks: chunks}, completer)

	state := p.Answer(context.Background(), "question")

	if state.Prompt == "" {
		t.Fatalf("prompt stage should have succeeded")
	}
	if state.Answer != "" {
		t.Fatalf("expected empty answer after completion failure, got %q", state.Answer)
	}
}

func TestAnswerBadTemplateSoftFailsPromptStage(t *testing.T) {
	chunks := []domain.Chunk{{Text: "text", Source: "https://eora.ru/cases/one"}}
	completer := &completerFake{answer: "unused"}
	p := NewPipeline(retrieverFake{chunks: chunks}, completer, "no placeholders here", 10, testLogger())

	state := p.Answer(context.Background(), "question")

	if state.Prompt != "" {
		t.Fatalf("expected empty prompt for bad template, got %q", state.Prompt)
	}
	if completer.calls != 0 {
		t.Fatalf("expected no completion calls, got %d", completer.calls)
	}
}

func TestAnswerPanicsOnMalformedChunks(t *testing.T) {
	chunks := []domain.Chunk{{Text: "", Source: "https://eora.ru/cases/one"}}
	p := newTestPipeline(retrieverFake{chunks: chunks}, &completerFake{})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for malformed chunk")
		}
	}()
	p.Answer(context.Background(), "question")
}

func TestAnswerEmptyCompletionIsFlaggedNotFatal(t *testing.T) {
	chunks := []domain.Chunk{{Text: "text", Source: "https://eora.ru/cases/one"}}
	completer := &completerFake{answer: ""}
	p := newTestPipeline(retrieverFake{chunks: chunks}, completer)

	state := p.Answer(context.Background(), "question")

	if completer.calls != 1 {
		t.Fatalf("expected 1 completion call, got %d", completer.calls)
	}
	if state.Answer != "" {
		t.Fatalf("expected empty answer, got %q", state.Answer)
	}
}
