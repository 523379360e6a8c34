package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// maxShellOutputChars bounds stdout/stderr returned by execute_command
const maxShellOutputChars = 1000

// CommandResult is the outcome of an execute_command invocation
type CommandResult struct {
	Tool       string `json:"tool"`
	Status     string `json:"status"`
	Command    string `json:"command"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ReturnCode int    `json:"return_code"`
}

// ExecuteCommand runs a whitelisted shell command. The command name must be
// in the shell whitelist; arguments pass through unexamined but always as
// an argument vector, never a shell string, so nothing is interpolated.
func (r *Registry) ExecuteCommand(ctx context.Context, command string, args []string) any {
	if !r.policy.CommandAllowed(command) {
		r.logger.Warn("command refused by whitelist", zap.String("command", command))
		return ErrorResult{
			Error: fmt.Sprintf("command not allowed. whitelist: %s", strings.Join(r.policy.ShellWhitelist(), ", ")),
		}
	}

	cmdCtx, cancel := context.WithTimeout(ctx, r.policy.ExecTimeout())
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, command, args...) //nolint:gosec // command name is whitelist-checked above
	cmd.Dir = r.commandDir()

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()

	if cmdCtx.Err() == context.DeadlineExceeded {
		return ErrorResult{Error: fmt.Sprintf("command timed out (%s limit)", r.policy.ExecTimeout())}
	}

	returnCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			returnCode = exitErr.ExitCode()
		} else {
			return ErrorResult{Error: fmt.Sprintf("failed to execute command: %v", err)}
		}
	}

	return CommandResult{
		Tool:       "execute_command",
		Status:     "success",
		Command:    strings.Join(append([]string{command}, args...), " "),
		Stdout:     truncate(stdoutBuf.String(), maxShellOutputChars),
		Stderr:     truncate(stderrBuf.String(), maxShellOutputChars),
		ReturnCode: returnCode,
	}
}

// commandDir picks the working directory for shell commands: the first
// writable root that exists, or the process working directory.
func (r *Registry) commandDir() string {
	for _, root := range r.policy.WritableRoots() {
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			return root
		}
	}
	return ""
}
