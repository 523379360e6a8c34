package controlplane

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/isdmx/tutorbox/policy"
	"github.com/isdmx/tutorbox/tools"
)

// UnknownActionResult is returned when an action passed validation but has
// no registered handler. Defense in depth: the control plane validates
// first, but the router may be reused by other callers.
type UnknownActionResult struct {
	Error string `json:"error"`
}

// Router maps each validated action to exactly one tool handler. Dispatch
// is a pure switch over the closed action set; the router performs no
// policy logic itself.
type Router struct {
	logger   *zap.Logger
	registry *tools.Registry
}

// NewRouter creates a Router over the given tool registry
func NewRouter(logger *zap.Logger, registry *tools.Registry) *Router {
	return &Router{logger: logger, registry: registry}
}

// Route invokes the handler for the named action with structurally
// coerced parameters. Parameter keys are tool-specific and validated
// structurally, not semantically; unknown keys are ignored.
func (r *Router) Route(ctx context.Context, name string, params map[string]any) any {
	action, ok := ParseAction(policy.NormalizeAction(name))
	if !ok {
		r.logger.Warn("no handler for action", zap.String("action", name))
		return UnknownActionResult{Error: fmt.Sprintf("unknown action: %s", name)}
	}

	switch action {
	case ActionSearchKnowledge:
		return r.registry.SearchKnowledge(ctx,
			stringParam(params, "query"),
			stringMapParam(params, "filters"),
			stringParam(params, "session_id"))
	case ActionIngestDocument:
		return r.registry.IngestDocument(ctx,
			stringParam(params, "path"),
			stringParam(params, "session_id"))
	case ActionAssessUnderstanding:
		return r.registry.AssessUnderstanding(stringParam(params, "topic"))
	case ActionUpdateLearnerProfile:
		return r.registry.UpdateLearnerProfile(ctx,
			stringParam(params, "topic"),
			stringParam(params, "proficiency"))
	case ActionLogInteraction:
		return r.registry.LogInteraction(ctx,
			stringParam(params, "event"),
			mapParam(params, "details"))
	case ActionReadFile:
		return r.registry.ReadFile(stringParam(params, "path"))
	case ActionListDirectory:
		return r.registry.ListDirectory(stringParam(params, "path"))
	case ActionWriteFile:
		return r.registry.WriteFile(
			stringParam(params, "path"),
			stringParam(params, "content"))
	case ActionDeleteFile:
		return r.registry.DeleteFile(stringParam(params, "path"))
	case ActionWebSearch:
		return r.registry.WebSearch(ctx, stringParam(params, "query"))
	case ActionFetchURL:
		return r.registry.FetchURL(ctx, stringParam(params, "url"))
	case ActionExecuteCommand:
		return r.registry.ExecuteCommand(ctx,
			stringParam(params, "command"),
			stringSliceParam(params, "args"))
	case ActionRunCode:
		return r.registry.RunCode(ctx,
			stringParam(params, "code"),
			stringParam(params, "language"))
	case ActionSetAssignment:
		return r.registry.SetAssignment(
			stringParam(params, "description"),
			stringParam(params, "language"))
	}

	return UnknownActionResult{Error: fmt.Sprintf("unknown action: %s", name)}
}

func stringParam(params map[string]any, key string) string {
	if value, ok := params[key].(string); ok {
		return value
	}
	return ""
}

func mapParam(params map[string]any, key string) map[string]any {
	if value, ok := params[key].(map[string]any); ok {
		return value
	}
	return nil
}

func stringMapParam(params map[string]any, key string) map[string]string {
	raw, ok := params[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func stringSliceParam(params map[string]any, key string) []string {
	switch value := params[key].(type) {
	case []string:
		return value
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
