package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

// CommandRunner defines an interface for executing system commands with
// bounded output capture. It exists so executor behavior can be tested
// without host toolchains.
type CommandRunner interface {
	RunCommand(ctx context.Context, dir string, maxOutputBytes int, argv []string) (stdout, stderr string, exitCode int, err error)
}

// RealCommandRunner implements CommandRunner using actual exec commands
type RealCommandRunner struct{}

// RunCommand executes argv with the working directory dir. The child runs
// in its own process group and the whole group is SIGKILLed when ctx is
// cancelled, so no grandchild survives a timeout. Stdout and stderr are
// each capped at maxOutputBytes.
func (RealCommandRunner) RunCommand(ctx context.Context, dir string, maxOutputBytes int, argv []string) (string, string, int, error) {
	if len(argv) < 1 {
		return "", "", 0, fmt.Errorf("no command provided")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // argv comes from the static language table
	cmd.Dir = dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		return nil
	}
	// Do not wait on inherited pipes after the group is killed
	cmd.WaitDelay = time.Second

	stdoutBuf := newCappedBuffer(maxOutputBytes)
	stderrBuf := newCappedBuffer(maxOutputBytes)
	cmd.Stdout = stdoutBuf
	cmd.Stderr = stderrBuf

	err := cmd.Run()

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
			err = nil
		}
	}

	return stdoutBuf.String(), stderrBuf.String(), exitCode, err
}

// cappedBuffer is an io.Writer that retains at most limit bytes and counts
// everything beyond that, so runaway program output cannot grow memory
// unboundedly.
type cappedBuffer struct {
	limit   int
	buf     bytes.Buffer
	dropped int64
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			p = p[:room]
		}
		b.buf.Write(p)
		b.dropped += int64(n - len(p))
	} else {
		b.dropped += int64(n)
	}
	return n, nil
}

func (b *cappedBuffer) String() string {
	if b.dropped > 0 {
		return fmt.Sprintf("%s\n... (%d bytes truncated)", b.buf.String(), b.dropped)
	}
	return b.buf.String()
}
