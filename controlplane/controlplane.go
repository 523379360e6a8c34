package controlplane

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/isdmx/tutorbox/audit"
	"github.com/isdmx/tutorbox/metrics"
	"github.com/isdmx/tutorbox/policy"
)

// ActionPlan is one tool invocation request submitted by the agent layer.
// Plans are treated as immutable once submitted; the control plane makes
// no assumptions about how the action or parameters were derived.
type ActionPlan struct {
	Action     string            `json:"action"`
	Parameters map[string]any    `json:"parameters,omitempty"`
	Context    map[string]string `json:"context,omitempty"`
}

// Metadata describes the execution that produced an Envelope
type Metadata struct {
	ExecutionCount     int  `json:"execution_count"`
	SafetyChecksPassed bool `json:"safety_checks_passed"`
}

// Envelope is the uniform result returned for every plan
type Envelope struct {
	Success  bool     `json:"success"`
	Action   string   `json:"action"`
	Result   any      `json:"result,omitempty"`
	Error    string   `json:"error,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// ControlPlane validates action plans against the safety policy, routes
// them, and maintains the append-only audit log. It is safe for concurrent
// use; only the audit append is serialized.
type ControlPlane struct {
	logger   *zap.Logger
	policy   *policy.Policy
	router   *Router
	auditLog *audit.Log
	metrics  *metrics.Metrics
}

// New creates a ControlPlane with a fresh, empty audit log
func New(logger *zap.Logger, pol *policy.Policy, router *Router, m *metrics.Metrics) *ControlPlane {
	return &ControlPlane{
		logger:   logger,
		policy:   pol,
		router:   router,
		auditLog: audit.NewLog(),
		metrics:  m,
	}
}

// Execute validates the plan, routes it to its tool handler, appends one
// audit entry, and returns the uniform envelope. Validation failures fail
// closed: nothing is routed, the audit log is untouched, and the rejection
// is surfaced as a structured result, never a fault.
func (c *ControlPlane) Execute(ctx context.Context, plan ActionPlan) Envelope {
	if reason, ok := c.validate(plan); !ok {
		c.metrics.ObserveRejection()
		c.logger.Warn("safety validation failed",
			zap.String("action", plan.Action),
			zap.String("reason", reason))
		return Envelope{
			Success: false,
			Action:  plan.Action,
			Error:   "safety validation failed: " + reason,
			Metadata: Metadata{
				ExecutionCount:     c.auditLog.Len(),
				SafetyChecksPassed: false,
			},
		}
	}

	action := policy.NormalizeAction(plan.Action)
	result := c.router.Route(ctx, action, plan.Parameters)

	// Exactly one audit entry per accepted execution, appended
	// unconditionally after routing
	_, count := c.auditLog.Append(action, plan.Parameters, plan.Context, result)
	c.metrics.ObserveExecution()

	c.logger.Info("action executed",
		zap.String("action", action),
		zap.Int("execution_count", count))

	return Envelope{
		Success: true,
		Action:  action,
		Result:  result,
		Metadata: Metadata{
			ExecutionCount:     count,
			SafetyChecksPassed: true,
		},
	}
}

// validate checks the plan against the safety policy without touching any
// state. It returns the rejection reason when the plan fails closed.
func (c *ControlPlane) validate(plan ActionPlan) (string, bool) {
	if strings.TrimSpace(plan.Action) == "" {
		return "action is required", false
	}
	if !c.policy.ActionAllowed(plan.Action) {
		return fmt.Sprintf("action %q is not in the allowed list", plan.Action), false
	}
	if !c.policy.ParameterCountAllowed(len(plan.Parameters)) {
		return fmt.Sprintf("too many parameters: %d exceeds limit of %d",
			len(plan.Parameters), c.policy.MaxParameters()), false
	}
	return "", true
}

// ExecutionCount returns the current audit log length
func (c *ControlPlane) ExecutionCount() int {
	return c.auditLog.Len()
}

// AuditEntries returns a snapshot of the audit log
func (c *ControlPlane) AuditEntries() []audit.Entry {
	return c.auditLog.Entries()
}
