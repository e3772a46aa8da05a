// Package logging assembles structured slog loggers and formatting helpers
// used across LibrAIry.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so flow code can automatically
// tag log lines with run IDs, flow names, execution mode, and the item being
// processed. The package also provides a no-op logger for tests and wiring
// code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape and routing guarantees.
package logging
