// Package sandbox provides secure multi-language code execution.
//
// The sandbox package implements the execution engine for running untrusted
// code. Each run gets its own temporary working directory, a compile phase
// (Rust, C, C++) bounded by the compilation budget, and an execution phase
// bounded by the execution budget. On timeout the child's entire process
// group is killed; on every exit path the working directory and all
// artifacts in it are removed.
//
// Usage:
//
//	executor := sandbox.New(logger, sandbox.Config{
//	    ExecTimeout:    10 * time.Second,
//	    CompileTimeout: 30 * time.Second,
//	    MaxOutputKB:    64,
//	})
//	result := executor.Run(ctx, "python", "print(2+2)")
package sandbox
