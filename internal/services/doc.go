// Package services defines shared utilities consumed by the workflow flows
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, flow names, execution modes, and
//     the item currently being processed for logging and tracing.
//   - Structured error markers plus the Wrap helper that distinguish the one
//     fatal condition (missing input) from failures that degrade into
//     per-file ledger entries.
//
// Use these helpers when wiring new flow logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
