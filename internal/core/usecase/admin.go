package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/OlgaKalinina101/eora-ai-assistant/internal/core/ports"
)

// RebuildRequester enqueues knowledge-base rebuilds for the worker.
type RebuildRequester struct {
	queue  ports.MessageQueue
	logger *slog.Logger
}

func NewRebuildRequester(queue ports.MessageQueue, logger *slog.Logger) *RebuildRequester {
	return &RebuildRequester{queue: queue, logger: logger}
}

func (r *RebuildRequester) RequestRebuild(ctx context.Context) error {
	if err := r.queue.PublishRebuildRequested(ctx); err != nil {
		return fmt.Errorf("publish rebuild request: %w", err)
	}
	r.logger.Info("rebuild requested")
	return nil
}
