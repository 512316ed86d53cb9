package runtime

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// actionFunc is the signature for an action callable by the cancellation
// model. It receives a context and the model-supplied arguments, and
// returns a JSON-serializable result or an error. Business-level failures
// (an order that does not exist, an unparseable reference) belong in the
// result, not the error: the error path is for infrastructure faults.
type actionFunc func(ctx context.Context, args map[string]any) (any, error)

// actionRegistry maps tool names to their implementations. The engine
// registers each action under the name advertised in the tool schema and
// dispatches the model's tool calls through execute.
type actionRegistry struct {
	mu      sync.RWMutex
	actions map[string]actionFunc
}

func newActionRegistry() *actionRegistry {
	return &actionRegistry{
		actions: make(map[string]actionFunc),
	}
}

// register adds an action. If one with the same name exists, it is
// overwritten.
func (r *actionRegistry) register(name string, fn actionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// execute looks up an action by name and runs it. An unknown name is an
// infrastructure fault and comes back as an error.
func (r *actionRegistry) execute(ctx context.Context, name string, args map[string]any) (any, error) {
	r.mu.RLock()
	fn, ok := r.actions[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("action not found: %s", name)
	}

	return fn(ctx, args)
}

// names returns the registered action names in sorted order.
func (r *actionRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.actions))
	for name := range r.actions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
