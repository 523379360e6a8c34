package tools

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteCommandWhitelist(t *testing.T) {
	registry := newTestRegistry(t, nil)

	result := registry.ExecuteCommand(context.Background(), "rm", []string{"-rf", "/"})
	failure, ok := result.(ErrorResult)
	require.True(t, ok)
	assert.Contains(t, failure.Error, "command not allowed")
	assert.Contains(t, failure.Error, "cat, echo, ls")
}

func TestExecuteCommandSuccess(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	registry := newTestRegistry(t, []string{t.TempDir()})

	result := registry.ExecuteCommand(context.Background(), "echo", []string{"hello"})
	command, ok := result.(CommandResult)
	require.True(t, ok)
	assert.Equal(t, "success", command.Status)
	assert.Equal(t, "echo hello", command.Command)
	assert.Equal(t, "hello\n", command.Stdout)
	assert.Equal(t, 0, command.ReturnCode)
}

func TestExecuteCommandNonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("ls"); err != nil {
		t.Skip("ls not available")
	}

	registry := newTestRegistry(t, []string{t.TempDir()})

	result := registry.ExecuteCommand(context.Background(), "ls", []string{"/no/such/path"})
	command, ok := result.(CommandResult)
	require.True(t, ok)
	assert.Equal(t, "success", command.Status, "a failing command is still a completed execution")
	assert.NotEqual(t, 0, command.ReturnCode)
	assert.NotEmpty(t, command.Stderr)
}

func TestExecuteCommandArgumentsAreNotInterpolated(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	registry := newTestRegistry(t, []string{t.TempDir()})

	// A shell metacharacter in an argument must be passed through literally
	result := registry.ExecuteCommand(context.Background(), "echo", []string{"$(whoami)"})
	command, ok := result.(CommandResult)
	require.True(t, ok)
	assert.Equal(t, "$(whoami)\n", command.Stdout)
}
