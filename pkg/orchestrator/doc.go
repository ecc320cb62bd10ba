// Package orchestrator wires the catalog → decorators → visibility → theme →
// renderer pipeline for a single declaration step, providing dependency
// injection friendly helpers for consumers that prefer a single entry point.
package orchestrator
