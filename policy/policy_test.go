package policy

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPolicy(writableRoots []string) *Policy {
	return New(
		[]string{"run_code", "read_file", "write_file"},
		10,
		writableRoots,
		[]string{"ls", "cat", "echo"},
		10*time.Second,
		30*time.Second,
	)
}

func TestNormalizeAction(t *testing.T) {
	t.Run("BareName", func(t *testing.T) {
		assert.Equal(t, "run_code", NormalizeAction("run_code"))
	})

	t.Run("CallStyleSuffix", func(t *testing.T) {
		assert.Equal(t, "run_code", NormalizeAction("run_code(print(1))"))
	})

	t.Run("SurroundingWhitespace", func(t *testing.T) {
		assert.Equal(t, "read_file", NormalizeAction("  read_file (path='x')"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeAction(""))
		assert.Equal(t, "", NormalizeAction("(oops)"))
	})
}

func TestActionAllowed(t *testing.T) {
	p := newTestPolicy(nil)

	t.Run("Whitelisted", func(t *testing.T) {
		assert.True(t, p.ActionAllowed("run_code"))
	})

	t.Run("WhitelistedWithArgSuffix", func(t *testing.T) {
		assert.True(t, p.ActionAllowed("run_code(code='print(1)')"))
	})

	t.Run("NotWhitelisted", func(t *testing.T) {
		assert.False(t, p.ActionAllowed("delete_everything"))
	})

	t.Run("EmptyName", func(t *testing.T) {
		assert.False(t, p.ActionAllowed(""))
		assert.False(t, p.ActionAllowed("   "))
	})
}

func TestParameterCountAllowed(t *testing.T) {
	p := newTestPolicy(nil)

	assert.True(t, p.ParameterCountAllowed(0))
	assert.True(t, p.ParameterCountAllowed(10))
	assert.False(t, p.ParameterCountAllowed(11))
}

func TestResolveWritablePath(t *testing.T) {
	root := t.TempDir()
	p := newTestPolicy([]string{root})

	t.Run("InsideRoot", func(t *testing.T) {
		resolved, allowed := p.ResolveWritablePath(filepath.Join(root, "notes.txt"))
		require.True(t, allowed)
		assert.Equal(t, filepath.Join(root, "notes.txt"), resolved)
	})

	t.Run("RootItself", func(t *testing.T) {
		_, allowed := p.ResolveWritablePath(root)
		assert.True(t, allowed)
	})

	t.Run("OutsideRoot", func(t *testing.T) {
		_, allowed := p.ResolveWritablePath("/etc/passwd")
		assert.False(t, allowed)
	})

	t.Run("TraversalOutOfRoot", func(t *testing.T) {
		_, allowed := p.ResolveWritablePath(filepath.Join(root, "..", "escape.txt"))
		assert.False(t, allowed)
	})

	t.Run("SiblingPrefixIsNotInside", func(t *testing.T) {
		// A sibling directory sharing the root's name as a string prefix
		// must not pass the check
		_, allowed := p.ResolveWritablePath(root + "-sibling/file.txt")
		assert.False(t, allowed)
	})
}

func TestCommandAllowed(t *testing.T) {
	p := newTestPolicy(nil)

	assert.True(t, p.CommandAllowed("ls"))
	assert.False(t, p.CommandAllowed("rm"))
	assert.False(t, p.CommandAllowed(""))

	assert.Equal(t, []string{"cat", "echo", "ls"}, p.ShellWhitelist())
}

func TestTimeouts(t *testing.T) {
	p := newTestPolicy(nil)

	assert.Equal(t, 10*time.Second, p.ExecTimeout())
	assert.Equal(t, 30*time.Second, p.CompileTimeout())
}
