package orderflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nexustrade/orderflow/internal/runtime"
	"github.com/nexustrade/orderflow/pkg/adapters/memory"
	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/nexustrade/orderflow/pkg/ports"
)

// Engine is the high-level entry point for the orderflow library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime     *runtime.Engine
	store       ports.OrderStore
	catalog     ports.Catalog
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore injects a custom order store, bypassing the default in-memory one.
func WithStore(s ports.OrderStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithCatalog injects the inventory and customer catalog.
func WithCatalog(c ports.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithShippingRates overrides the per-location shipping rate table.
func WithShippingRates(rates map[string]float64) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithShippingRates(rates))
	}
}

// WithDefaultLocation sets the rate-table key used for locations without
// an entry of their own.
func WithDefaultLocation(location string) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithDefaultLocation(location))
	}
}

// WithMaxCancelRounds caps the number of model round-trips allowed while
// resolving a cancellation request.
func WithMaxCancelRounds(n int) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithMaxCancelRounds(n))
	}
}

// New initializes a new orderflow Engine around the given chat model.
// By default it uses an in-memory order store and an empty catalog.
func New(model ports.ChatModel, opts ...Option) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("chat model is required")
	}

	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	if eng.catalog == nil {
		eng.catalog = memory.NewCatalog(nil, nil)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	}
	runtimeOpts = append(runtimeOpts, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(eng.store, eng.catalog, model, runtimeOpts...)
	return eng, nil
}

// Process runs one customer request through the workflow and returns the
// envelope snapshot taken after each step, in execution order. The last
// snapshot is the final state; its trailing assistant message is the reply.
func (e *Engine) Process(ctx context.Context, request string) []domain.Envelope {
	return e.runtime.Run(ctx, request)
}

// Reply runs one customer request and returns only the final assistant
// message, which is what an end user would see.
func (e *Engine) Reply(ctx context.Context, request string) (string, error) {
	snapshots := e.Process(ctx, request)
	final := snapshots[len(snapshots)-1]

	var reply string
	for i := len(final.Messages) - 1; i >= 0; i-- {
		if final.Messages[i].Role == domain.RoleAssistant {
			reply = final.Messages[i].Content
			break
		}
	}
	if final.Err != nil {
		return reply, final.Err
	}
	return reply, nil
}

// Store returns the underlying order store used by the engine.
func (e *Engine) Store() ports.OrderStore {
	return e.store
}
