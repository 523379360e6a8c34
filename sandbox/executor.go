package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/isdmx/tutorbox/config"
)

// Executor runs untrusted source code in an isolated, time-bounded
// working directory. Executors share no mutable state across calls, so
// concurrent runs need no locking beyond the OS process table.
type Executor struct {
	logger   *zap.Logger
	config   Config
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// Option defines a functional option for Executor
type Option func(*Executor)

// WithCommandRunner sets the CommandRunner for the Executor
func WithCommandRunner(runner CommandRunner) Option {
	return func(e *Executor) {
		e.runner = runner
	}
}

// WithLookPath sets the PATH lookup function for the Executor
func WithLookPath(lookPath func(string) (string, error)) Option {
	return func(e *Executor) {
		e.lookPath = lookPath
	}
}

// New creates a new Executor with default implementations and optional interfaces
func New(logger *zap.Logger, cfg Config, opts ...Option) *Executor {
	e := &Executor{
		logger:   logger,
		config:   cfg,
		runner:   RealCommandRunner{},
		lookPath: exec.LookPath,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// NewFromConfig creates an Executor from the application configuration
func NewFromConfig(logger *zap.Logger, appCfg *config.Config) *Executor {
	return New(logger, Config{
		ExecTimeout:    appCfg.ExecTimeout(),
		CompileTimeout: appCfg.CompileTimeout(),
		ScratchDir:     appCfg.Sandbox.ScratchDir,
		MaxOutputKB:    appCfg.Sandbox.MaxOutputKB,
	})
}

// Run materializes source as a file, compiles it when the language requires
// it, executes it, and removes every temporary artifact before returning.
// All failure modes are reported in the Result status; Run never panics.
func (e *Executor) Run(ctx context.Context, language, source string) Result {
	start := time.Now()

	// Phase 1: validate. Nothing is allocated yet.
	profile, ok := ProfileFor(language)
	if !ok {
		return e.internalError(start, fmt.Sprintf("unsupported language: %s (supported: %s)",
			language, strings.Join(SupportedLanguages(), ", ")))
	}

	if _, err := e.lookPath(profile.Toolchain()); err != nil {
		return e.internalError(start, fmt.Sprintf("toolchain %q not found on PATH", profile.Toolchain()))
	}

	// Phase 2: materialize. The working directory is the first resource
	// acquired; its release is scheduled before anything else can fail.
	workDir, err := os.MkdirTemp(e.config.ScratchDir, "tutorbox-job-*")
	if err != nil {
		return e.internalError(start, fmt.Sprintf("failed to create working directory: %v", err))
	}
	defer func() {
		if rmErr := os.RemoveAll(workDir); rmErr != nil {
			// A cleanup failure is logged but never masks the run outcome
			e.logger.Warn("failed to remove sandbox working directory",
				zap.String("dir", workDir),
				zap.Error(rmErr))
		}
	}()

	sourcePath := filepath.Join(workDir, "main"+profile.Extension)
	if err := os.WriteFile(sourcePath, []byte(source), 0600); err != nil {
		return e.internalError(start, fmt.Sprintf("failed to write source file: %v", err))
	}

	var runArgv []string
	if profile.Compiled() {
		// Phase 3: compile, under its own budget
		binaryPath := filepath.Join(workDir, "app")
		out, timedOut, compileErr := e.runPhase(ctx, e.config.CompileTimeout, workDir,
			[]string{profile.Compiler, sourcePath, "-o", binaryPath})
		switch {
		case timedOut:
			e.logger.Warn("compilation timed out",
				zap.String("language", language),
				zap.Duration("budget", e.config.CompileTimeout))
			return Result{
				Status:   StatusTimeout,
				Stderr:   out.stderr,
				ExitCode: -1,
				Duration: time.Since(start),
			}
		case compileErr != nil:
			return e.internalError(start, fmt.Sprintf("compiler failed to start: %v", compileErr))
		case out.exitCode != 0:
			e.logger.Info("compilation failed",
				zap.String("language", language),
				zap.Int("exit_code", out.exitCode))
			return Result{
				Status:   StatusCompilationError,
				Stderr:   out.stderr,
				ExitCode: out.exitCode,
				Duration: time.Since(start),
			}
		}
		runArgv = []string{binaryPath}
	} else {
		runArgv = append(slices.Clone(profile.RunArgs), sourcePath)
	}

	// Phase 4: execute, under the execution budget
	out, timedOut, runErr := e.runPhase(ctx, e.config.ExecTimeout, workDir, runArgv)
	switch {
	case timedOut:
		e.logger.Warn("execution timed out",
			zap.String("language", language),
			zap.Duration("budget", e.config.ExecTimeout))
		return Result{
			Status:   StatusTimeout,
			Stdout:   out.stdout,
			Stderr:   out.stderr,
			ExitCode: -1,
			Duration: time.Since(start),
		}
	case runErr != nil:
		return e.internalError(start, fmt.Sprintf("failed to execute program: %v", runErr))
	}

	// A non-zero exit code with captured stderr is still a successful run:
	// the sandbox did its job, the program failed on its own terms.
	return Result{
		Status:   StatusSuccess,
		Stdout:   out.stdout,
		Stderr:   out.stderr,
		ExitCode: out.exitCode,
		Duration: time.Since(start),
	}
}

type phaseOutput struct {
	stdout   string
	stderr   string
	exitCode int
}

// runPhase runs one bounded child process and reports whether its budget
// expired. Timeout detection is based on the phase context, so it holds for
// both the real runner and injected test runners.
func (e *Executor) runPhase(ctx context.Context, budget time.Duration, dir string, argv []string) (phaseOutput, bool, error) {
	phaseCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	stdout, stderr, exitCode, err := e.runner.RunCommand(phaseCtx, dir, e.config.MaxOutputKB*1024, argv)
	out := phaseOutput{stdout: stdout, stderr: stderr, exitCode: exitCode}

	if phaseCtx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) {
		return out, true, nil
	}
	return out, false, err
}

func (e *Executor) internalError(start time.Time, message string) Result {
	e.logger.Error("sandbox internal error", zap.String("reason", message))
	return Result{
		Status:   StatusInternalError,
		Stderr:   message,
		ExitCode: -1,
		Duration: time.Since(start),
	}
}
