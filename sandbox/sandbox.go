package sandbox

import (
	"sort"
	"time"
)

// Status classifies the outcome of one sandbox run
type Status string

const (
	// StatusSuccess means the program was executed. The program itself may
	// still have failed; inspect ExitCode and Stderr for that.
	StatusSuccess Status = "success"
	// StatusCompilationError means the compiler exited non-zero
	StatusCompilationError Status = "compilation_error"
	// StatusTimeout means the compile or execute phase exceeded its budget
	// and the process tree was killed
	StatusTimeout Status = "timeout"
	// StatusInternalError means the host could not run the job at all:
	// unsupported language, missing toolchain, or a filesystem fault
	StatusInternalError Status = "internal_error"
)

// Result is the outcome of one sandbox run. Every failure mode is reported
// here as a value; Run never panics and never terminates the process.
type Result struct {
	Status   Status        `json:"status"`
	Stdout   string        `json:"stdout"`
	Stderr   string        `json:"stderr"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
}

// Config holds sandbox execution parameters. Compiled languages get a
// separate, longer compilation budget because toolchain startup costs
// materially more than interpreted execution.
type Config struct {
	ExecTimeout    time.Duration
	CompileTimeout time.Duration
	ScratchDir     string // empty means the system temp directory
	MaxOutputKB    int
}

// Profile describes how one language is materialized and run
type Profile struct {
	Extension string
	RunArgs   []string // interpreter argv prefix; empty for compiled languages
	Compiler  string   // compiler binary; empty for interpreted languages
}

// Compiled reports whether the language needs a compile phase
func (p Profile) Compiled() bool {
	return p.Compiler != ""
}

// Toolchain returns the host binary the language depends on
func (p Profile) Toolchain() string {
	if p.Compiler != "" {
		return p.Compiler
	}
	return p.RunArgs[0]
}

// profiles is the static language table. Toolchains are invoked by name
// and must be present on the host PATH.
var profiles = map[string]Profile{
	"python":     {Extension: ".py", RunArgs: []string{"python3"}},
	"javascript": {Extension: ".js", RunArgs: []string{"node"}},
	"go":         {Extension: ".go", RunArgs: []string{"go", "run"}},
	"rust":       {Extension: ".rs", Compiler: "rustc"},
	"c":          {Extension: ".c", Compiler: "gcc"},
	"cpp":        {Extension: ".cpp", Compiler: "g++"},
}

// ProfileFor returns the language profile for the given language name
func ProfileFor(language string) (Profile, bool) {
	p, ok := profiles[language]
	return p, ok
}

// SupportedLanguages returns the supported language names in sorted order
func SupportedLanguages() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
