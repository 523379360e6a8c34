// Package controlplane is the public entry point for tool execution.
//
// ControlPlane.Execute validates an ActionPlan against the safety policy,
// dispatches it through the Router's closed action set, appends exactly one
// entry to the append-only audit log, and returns a uniform Envelope.
// Rejected plans never reach a handler and never grow the audit log.
package controlplane
