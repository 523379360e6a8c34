package policy

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/isdmx/tutorbox/config"
)

// Policy is the immutable safety policy enforced by the control plane and
// the tool registry. It is built once at startup from configuration and is
// safe for concurrent use because it is never mutated afterwards.
type Policy struct {
	allowedActions map[string]bool
	maxParameters  int
	writableRoots  []string
	shellWhitelist map[string]bool
	execTimeout    time.Duration
	compileTimeout time.Duration
}

// FromConfig builds a Policy from the loaded application configuration
func FromConfig(cfg *config.Config) *Policy {
	return New(
		cfg.Safety.AllowedActions,
		cfg.Safety.MaxParameters,
		cfg.Safety.WritableRoots,
		cfg.Safety.ShellWhitelist,
		cfg.ExecTimeout(),
		cfg.CompileTimeout(),
	)
}

// New builds a Policy from explicit values. Writable roots are cleaned so
// that the later prefix checks compare canonical paths.
func New(allowedActions []string, maxParameters int, writableRoots []string, shellWhitelist []string, execTimeout, compileTimeout time.Duration) *Policy {
	p := &Policy{
		allowedActions: make(map[string]bool, len(allowedActions)),
		maxParameters:  maxParameters,
		writableRoots:  make([]string, 0, len(writableRoots)),
		shellWhitelist: make(map[string]bool, len(shellWhitelist)),
		execTimeout:    execTimeout,
		compileTimeout: compileTimeout,
	}

	for _, action := range allowedActions {
		p.allowedActions[action] = true
	}
	for _, root := range writableRoots {
		p.writableRoots = append(p.writableRoots, filepath.Clean(root))
	}
	for _, cmd := range shellWhitelist {
		p.shellWhitelist[cmd] = true
	}

	return p
}

// NormalizeAction reduces an action identifier to its bare name. Upstream
// planners sometimes emit call-style strings such as "run_code(print(1))";
// everything from the first opening parenthesis onward is discarded and
// surrounding whitespace trimmed before the whitelist comparison.
func NormalizeAction(action string) string {
	name, _, _ := strings.Cut(action, "(")
	return strings.TrimSpace(name)
}

// ActionAllowed reports whether the normalized action name is whitelisted.
// An empty name is never allowed.
func (p *Policy) ActionAllowed(action string) bool {
	name := NormalizeAction(action)
	if name == "" {
		return false
	}
	return p.allowedActions[name]
}

// ParameterCountAllowed reports whether a request with n parameters is
// within the configured ceiling.
func (p *Policy) ParameterCountAllowed(n int) bool {
	return n <= p.maxParameters
}

// MaxParameters returns the per-request parameter ceiling
func (p *Policy) MaxParameters() int {
	return p.maxParameters
}

// ResolveWritablePath canonicalizes path and reports whether it falls under
// one of the writable roots. The returned path is absolute and cleaned; it
// is only meaningful when allowed is true. The check happens before any
// filesystem mutation.
func (p *Policy) ResolveWritablePath(path string) (resolved string, allowed bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	abs = filepath.Clean(abs)

	for _, root := range p.writableRoots {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return abs, true
		}
	}
	return abs, false
}

// WritableRoots returns a copy of the configured writable roots, for use in
// permission-denied diagnostics.
func (p *Policy) WritableRoots() []string {
	roots := make([]string, len(p.writableRoots))
	copy(roots, p.writableRoots)
	return roots
}

// CommandAllowed reports whether the command name is in the shell
// whitelist. Only the bare command name is checked; arguments are passed
// through as an argument vector and never interpolated into a shell string.
func (p *Policy) CommandAllowed(command string) bool {
	return p.shellWhitelist[command]
}

// ShellWhitelist returns the whitelisted command names in sorted order,
// for use in refusal diagnostics.
func (p *Policy) ShellWhitelist() []string {
	cmds := make([]string, 0, len(p.shellWhitelist))
	for cmd := range p.shellWhitelist {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

// ExecTimeout returns the sandbox and shell execution budget
func (p *Policy) ExecTimeout() time.Duration {
	return p.execTimeout
}

// CompileTimeout returns the sandbox compilation budget
func (p *Policy) CompileTimeout() time.Duration {
	return p.compileTimeout
}
