package port

import (
	"context"

	"holdops/internal/domain"
)

// ChatCompleter sends a conversation to an LLM and returns its reply.
type ChatCompleter interface {
	Complete(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)
}
