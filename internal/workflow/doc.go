// Package workflow runs the LibrAIry flows end to end: dedupe, organize,
// and purge. A flow is gather, plan, execute, persist, notify. The runner
// owns run identity, the advisory lock, preflight gating, the audit trail,
// history persistence, and notifications; the domain packages below it stay
// free of that machinery.
//
// A run always yields a ledger, even when every item failed. The returned
// status separates "did work", "nothing to do", and "hard failure" so the
// CLI can map them to distinct exit codes.
package workflow
