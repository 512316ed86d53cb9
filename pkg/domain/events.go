package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter  EventType = "step_enter"
	EventStepLeave  EventType = "step_leave"
	EventToolCall   EventType = "tool_call"
	EventToolReturn EventType = "tool_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	OrderID   string    `json:"order_id,omitempty"`
}

// StepEvent represents entry to or exit from a workflow step.
type StepEvent struct {
	EventBase
	Step string `json:"step"`
	// EnteredAt is set on step_leave to the matching step_enter time, so
	// consumers can derive durations without correlating events. The
	// order ID is no use for that: intake assigns it mid-step.
	EnteredAt time.Time `json:"entered_at,omitzero"`
	// ErrorKind is set on step_leave when the step left an error signal behind.
	ErrorKind ErrorKind `json:"error_kind,omitempty"`
}

// ToolEvent represents a cancellation-action execution.
type ToolEvent struct {
	EventBase
	ToolName string `json:"tool_name"`
	Input    any    `json:"input,omitempty"`
	Output   any    `json:"output,omitempty"`
	IsError  bool   `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter  func(context.Context, *StepEvent)
	OnStepLeave  func(context.Context, *StepEvent)
	OnToolCall   func(context.Context, *ToolEvent)
	OnToolReturn func(context.Context, *ToolEvent)
}
