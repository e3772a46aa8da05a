// Package main hosts the LibrAIry CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the organize, dedupe, purge, and watch
// flows, inspects run history, scaffolds configuration, and exercises the
// preflight checks and the notification channel. It centralizes configuration
// resolution and logger setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
// The workflow runner owns run semantics; commands translate flags and render
// results.
package main
