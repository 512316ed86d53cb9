/*
Package ports defines the driven ports (interfaces) for the orderflow engine.

These interfaces decouple the core workflow logic from external implementations,
allowing the engine to work with various storage backends, catalog sources, and
language model providers.

# Key Interfaces

  - OrderStore: Persists order records keyed by order ID (memory, Redis).
  - Catalog: Read-only inventory and customer lookups (memory, CSV-backed).
  - Completer / ToolCaller: The opaque language model oracle behind extraction
    and the cancellation loop.
*/
package ports
