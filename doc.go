// Package orderflow implements a model-driven order processing workflow.
//
// A single customer request, written in natural language, is routed through
// a fixed sequence of steps: intent extraction, inventory check, shipping
// computation, payment, and finalization. Cancellation requests instead
// enter a tool-calling loop in which the chat model drives a cancel action
// against the shared order store.
//
// The package root exposes a small facade (Engine) over the internal
// runtime. Storage, catalog data, and the chat model are injected through
// the interfaces in pkg/ports, with ready-made adapters under pkg/adapters
// (in-memory, Redis, CSV catalogs, and an OpenAI-compatible client).
package orderflow
