/*
Package domain contains the core domain models for the orderflow engine.

It defines the fundamental entities of the workflow: the persisted OrderRecord
and its partial-update OrderPatch, the Envelope threaded between pipeline steps,
the tool-calling types used by the cancellation loop, and the error taxonomy.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - OrderRecord: Persisted state for one order, keyed by its order id.
  - OrderPatch: A field-level merge-update that preserves unmentioned fields.
  - Envelope: The value threaded between steps (message history, order snapshot, error signal).
  - FlowError: A categorized workflow failure carried as a value, never raised across steps.
*/
package domain
