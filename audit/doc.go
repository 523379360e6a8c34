// Package audit provides the append-only execution log owned by the
// control plane.
//
// Every accepted, routed execution appends exactly one Entry; rejected
// requests never do. The log is guarded by a single mutex so the entry
// count reported to callers is consistent under concurrent executions.
package audit
