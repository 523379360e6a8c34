// Package main is the entry point for the Tutorbox control plane server.
//
// Tutorbox mediates every tool invocation a tutoring agent makes: action
// plans are validated against a safety policy, routed to exactly one tool
// handler (knowledge search, learner profile updates, filesystem access,
// whitelisted shell commands, or the sandboxed multi-language code
// execution engine), and recorded in an append-only audit log. The server
// speaks MCP over stdio or HTTP.
//
// The application uses Uber's fx framework for dependency injection and
// lifecycle management, with zap for structured logging and viper for
// configuration.
package main
