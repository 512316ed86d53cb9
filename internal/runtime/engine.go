// Package runtime implements the order workflow engine: a fixed graph
// of pipeline steps driven by an explicit state machine table, a
// cancellation loop built on model tool-calling, and the
// re-fetch-then-merge discipline against the shared order store.
package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nexustrade/orderflow/pkg/domain"
	"github.com/nexustrade/orderflow/pkg/extract"
	"github.com/nexustrade/orderflow/pkg/ports"
)

// Step identifies a node in the workflow graph.
type Step string

const (
	StepRoute           Step = "RouteQuery"
	StepCheckInventory  Step = "CheckInventory"
	StepComputeShipping Step = "ComputeShipping"
	StepProcessPayment  Step = "ProcessPayment"
	StepCancelOrder     Step = "CancelOrder"
	StepFinalize        Step = "ProcessOrderResult"
	StepEnd             Step = "End"
)

// DefaultMaxCancelRounds bounds the cancellation loop. The model drives
// that loop, so without a cap a confused model could spin forever.
const DefaultMaxCancelRounds = 8

// DefaultShippingRates is the per-location rate table. Unrecognized
// locations fall back to the domestic rate.
func DefaultShippingRates() map[string]float64 {
	return map[string]float64{
		"local":         5,
		"domestic":      10,
		"international": 20,
	}
}

// Engine executes one workflow invocation at a time. The order store is
// the only state shared between invocations; the engine itself holds no
// per-invocation state and is safe for concurrent use.
type Engine struct {
	store     ports.OrderStore
	catalog   ports.Catalog
	extractor *extract.Extractor
	model     ports.ToolCaller
	actions   *actionRegistry

	rates           map[string]float64
	defaultLocation string
	maxCancelRounds int

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithShippingRates replaces the per-location rate table. Pair it with
// WithDefaultLocation when the table has no "domestic" entry, otherwise
// unknown locations have no rate to fall back to.
func WithShippingRates(rates map[string]float64) EngineOption {
	return func(e *Engine) {
		if len(rates) > 0 {
			e.rates = rates
		}
	}
}

// WithDefaultLocation sets the rate-table key used for locations that
// have no entry of their own.
func WithDefaultLocation(location string) EngineOption {
	return func(e *Engine) {
		if location != "" {
			e.defaultLocation = location
		}
	}
}

// WithMaxCancelRounds caps the cancellation loop.
func WithMaxCancelRounds(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxCancelRounds = n
		}
	}
}

// WithIDGenerator overrides order ID generation. Used by tests that need
// deterministic IDs.
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithClock overrides the completion timestamp source.
func WithClock(fn func() time.Time) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.now = fn
		}
	}
}

// NewEngine creates an engine bound to its collaborators.
func NewEngine(store ports.OrderStore, catalog ports.Catalog, model ports.ChatModel, opts ...EngineOption) *Engine {
	e := &Engine{
		store:           store,
		catalog:         catalog,
		extractor:       extract.New(model),
		model:           model,
		actions:         newActionRegistry(),
		rates:           DefaultShippingRates(),
		defaultLocation: domain.DefaultLocation,
		maxCancelRounds: DefaultMaxCancelRounds,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:           uuid.NewString,
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.actions.register(CancelActionName, e.cancelOrderAction)

	return e
}

// Run executes one workflow invocation for a raw intake text. It returns
// the ordered sequence of envelope snapshots, one per executed step; the
// last snapshot is final. Run itself never fails: every failure mode is
// an error signal inside the final envelope.
func (e *Engine) Run(ctx context.Context, text string) []domain.Envelope {
	env := domain.NewEnvelope(text)
	snapshots := []domain.Envelope{env}

	for step := StepRoute; step != StepEnd; {
		env = e.execute(ctx, step, env)
		snapshots = append(snapshots, env)
		step = next(step, env)
	}

	return snapshots
}

// execute dispatches a single step with hooks and a panic guard. No step
// is allowed to abort the invocation: a panic becomes a generic internal
// error signal on the envelope.
func (e *Engine) execute(ctx context.Context, step Step, env domain.Envelope) (out domain.Envelope) {
	started := e.now()
	e.emitStepEnter(ctx, step, env, started)
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "step panicked", "step", string(step), "panic", r)
			out = env.WithError(domain.NewFlowError(domain.ErrInternal, "unexpected failure in %s: %v", step, r))
		}
		e.emitStepLeave(ctx, step, out, started)
	}()

	switch step {
	case StepRoute:
		return e.categorize(ctx, env)
	case StepCheckInventory:
		return e.checkInventory(ctx, env)
	case StepComputeShipping:
		return e.computeShipping(ctx, env)
	case StepProcessPayment:
		return e.processPayment(ctx, env)
	case StepCancelOrder:
		return e.runCancelLoop(ctx, env)
	case StepFinalize:
		return e.finalize(ctx, env)
	default:
		return env
	}
}

func (e *Engine) emitStepEnter(ctx context.Context, step Step, env domain.Envelope, started time.Time) {
	if e.hooks.OnStepEnter == nil {
		return
	}
	e.hooks.OnStepEnter(ctx, &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: started, Type: domain.EventStepEnter, OrderID: orderID(env)},
		Step:      string(step),
	})
}

func (e *Engine) emitStepLeave(ctx context.Context, step Step, env domain.Envelope, started time.Time) {
	if e.hooks.OnStepLeave == nil {
		return
	}
	ev := &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventStepLeave, OrderID: orderID(env)},
		Step:      string(step),
		EnteredAt: started,
	}
	if env.Err != nil {
		ev.ErrorKind = env.Err.Kind
	}
	e.hooks.OnStepLeave(ctx, ev)
}

func orderID(env domain.Envelope) string {
	if env.Order == nil {
		return ""
	}
	return env.Order.OrderID
}
