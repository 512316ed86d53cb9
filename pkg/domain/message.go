package domain

// Role identifies the author of a message in the workflow history.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in the workflow's append-only message history.
// Assistant messages produced by the cancellation loop may carry tool
// calls; tool messages carry the result for a specific call.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Envelope is the value threaded through the workflow graph between
// steps: the message history, an optional snapshot of the current order
// record, and an optional error signal.
//
// The history is append-only. Once Err is set it rides through to the
// finalize step; no later step clears it.
type Envelope struct {
	Messages []Message    `json:"messages"`
	Order    *OrderRecord `json:"order,omitempty"`
	Err      *FlowError   `json:"error,omitempty"`
}

// NewEnvelope starts a history with a single user message.
func NewEnvelope(text string) Envelope {
	return Envelope{Messages: []Message{{Role: RoleUser, Content: text}}}
}

// Append returns a copy of the envelope with msg added to the history.
// The receiver's history is never mutated, so earlier snapshots stay valid.
func (e Envelope) Append(msg Message) Envelope {
	history := make([]Message, 0, len(e.Messages)+1)
	history = append(history, e.Messages...)
	history = append(history, msg)
	e.Messages = history
	return e
}

// WithOrder returns a copy of the envelope carrying the given record snapshot.
func (e Envelope) WithOrder(rec *OrderRecord) Envelope {
	e.Order = rec
	return e
}

// WithError returns a copy of the envelope carrying the error signal.
// An already-set signal is preserved; the first failure wins.
func (e Envelope) WithError(err *FlowError) Envelope {
	if e.Err == nil {
		e.Err = err
	}
	return e
}
