// Package metrics defines the Prometheus instrumentation for the control
// plane and sandbox. A nil *Metrics disables all observation, so tests and
// embedders can skip registration entirely.
package metrics
