package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nexustrade/orderflow/pkg/domain"
)

// CancelActionName is the single action exposed to the cancellation model.
const CancelActionName = "cancel_order"

func cancelTool() domain.Tool {
	return domain.Tool{
		Name:        CancelActionName,
		Description: "Cancel an order by a free-text reference to its order id",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"request": map[string]any{
					"type":        "string",
					"description": "The user's cancellation request, including the order reference",
				},
			},
			"required": []string{"request"},
		},
	}
}

// runCancelLoop drives the nested cancellation state machine: ask the
// model, execute any requested action, feed the result back, repeat. A
// reply with no tool calls ends the loop. The round cap guards against
// a model that keeps requesting actions forever.
func (e *Engine) runCancelLoop(ctx context.Context, env domain.Envelope) domain.Envelope {
	for round := 0; round < e.maxCancelRounds; round++ {
		reply, err := e.model.Chat(ctx, env.Messages, []domain.Tool{cancelTool()})
		if err != nil {
			return env.WithError(domain.NewFlowError(domain.ErrInternal, "error in model call: %v", err))
		}
		env = env.Append(*reply)

		if len(reply.ToolCalls) == 0 {
			return env
		}

		for _, call := range reply.ToolCalls {
			env = env.Append(e.executeAction(ctx, call))
		}
	}

	return env.WithError(domain.NewFlowError(domain.ErrAction,
		"cancellation did not settle within %d rounds", e.maxCancelRounds))
}

// executeAction dispatches one tool call through the action registry and
// wraps its outcome as a tool message. Action-level failures come back
// as structured {"error": ...} payloads; only infrastructure faults
// reach the error return of the registry.
func (e *Engine) executeAction(ctx context.Context, call domain.ToolCall) domain.Message {
	e.emitToolCall(ctx, call)

	result, err := e.actions.execute(ctx, call.Name, call.Args)
	if err != nil {
		e.logger.WarnContext(ctx, "action failed", "action", call.Name, "err", err)
		result = map[string]any{"error": fmt.Sprintf("error cancelling order: %v", err)}
	}

	payload, merr := json.Marshal(result)
	if merr != nil {
		payload = []byte(fmt.Sprintf(`{"error": %q}`, merr.Error()))
	}

	e.emitToolReturn(ctx, call, result, err != nil)

	return domain.Message{
		Role:       domain.RoleTool,
		Content:    string(payload),
		ToolCallID: call.ID,
	}
}

// cancelOrderAction is the "cancel an order by free-text reference"
// capability. It resolves the target order through a second, narrower
// extraction call, then hard-deletes it from the store. Unresolvable
// references return structured failures, never errors.
func (e *Engine) cancelOrderAction(ctx context.Context, args map[string]any) (any, error) {
	query, _ := args["request"].(string)

	id, err := e.extractor.ExtractOrderID(ctx, query)
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("error cancelling order: %v", err)}, nil
	}
	if id == "" {
		return map[string]any{"error": "no order id found in request"}, nil
	}

	if _, err := e.store.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return map[string]any{"error": fmt.Sprintf("order %s not found", id)}, nil
		}
		return nil, err
	}

	if err := e.store.Delete(ctx, id); err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "order cancelled", "order_id", id)

	return map[string]any{
		"status":   "success",
		"order_id": id,
		"message":  fmt.Sprintf("order %s has been cancelled", id),
	}, nil
}

func (e *Engine) emitToolCall(ctx context.Context, call domain.ToolCall) {
	if e.hooks.OnToolCall == nil {
		return
	}
	e.hooks.OnToolCall(ctx, &domain.ToolEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventToolCall},
		ToolName:  call.Name,
		Input:     call.Args,
	})
}

func (e *Engine) emitToolReturn(ctx context.Context, call domain.ToolCall, result any, isErr bool) {
	if e.hooks.OnToolReturn == nil {
		return
	}
	e.hooks.OnToolReturn(ctx, &domain.ToolEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventToolReturn},
		ToolName:  call.Name,
		Output:    result,
		IsError:   isErr,
	})
}
