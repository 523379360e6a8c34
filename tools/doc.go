// Package tools implements the tool handlers the action router dispatches
// to: knowledge search and ingestion, learner profile updates, interaction
// logging, filesystem access, whitelisted shell commands, web search and
// fetch, sandboxed code execution, and assignments.
//
// Handlers return structured result values. Tool-level failures (missing
// file, permission denied, refused command) are values inside the result,
// not errors: the control plane still considers the execution routed and
// audited. Filesystem and shell handlers enforce the safety policy before
// any mutation.
package tools
