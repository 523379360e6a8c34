package tools

import (
	"context"

	"go.uber.org/zap"

	"github.com/isdmx/tutorbox/sandbox"
)

// RunCodeResult is the outcome of a run_code invocation
type RunCodeResult struct {
	Tool     string         `json:"tool"`
	Language string         `json:"language"`
	Status   sandbox.Status `json:"status"`
	Stdout   string         `json:"stdout"`
	Stderr   string         `json:"stderr"`
	ExitCode int            `json:"exit_code"`
}

// AssignmentResult is the outcome of a set_assignment invocation
type AssignmentResult struct {
	Tool        string `json:"tool"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Message     string `json:"message"`
}

// RunCode executes source code in the sandbox
func (r *Registry) RunCode(ctx context.Context, code, language string) any {
	if language == "" {
		language = "python"
	}

	result := r.sandbox.Run(ctx, language, code)
	r.metrics.ObserveSandboxRun(string(result.Status), result.Duration)

	r.logger.Info("sandbox run finished",
		zap.String("language", language),
		zap.String("status", string(result.Status)),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration))

	return RunCodeResult{
		Tool:     "run_code",
		Language: language,
		Status:   result.Status,
		Stdout:   result.Stdout,
		Stderr:   result.Stderr,
		ExitCode: result.ExitCode,
	}
}

// SetAssignment publishes a coding assignment for the student workspace.
// Rendering belongs to the UI layer; this just echoes the structured record.
func (r *Registry) SetAssignment(description, language string) any {
	if language == "" {
		language = "python"
	}
	return AssignmentResult{
		Tool:        "set_assignment",
		Status:      "assignment_set",
		Description: description,
		Language:    language,
		Message:     "Assignment has been set in the coding workspace.",
	}
}
