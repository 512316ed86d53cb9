package ports

import (
	"context"

	"github.com/nexustrade/orderflow/pkg/domain"
)

// Completer generates a single free-form completion for a prompt.
// Calls are synchronous with no internal timeout or retry; callers bound
// latency through the context.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ToolCaller runs one chat turn against a model that may request tool
// invocations. The returned assistant message carries zero or more tool
// calls; a message with no tool calls ends the caller's loop.
type ToolCaller interface {
	Chat(ctx context.Context, messages []domain.Message, tools []domain.Tool) (*domain.Message, error)
}

// ChatModel is the full capability set the workflow engine needs from a
// language model backend.
type ChatModel interface {
	Completer
	ToolCaller
}
