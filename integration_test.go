package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdmx/tutorbox/config"
	"github.com/isdmx/tutorbox/controlplane"
	"github.com/isdmx/tutorbox/knowledge"
	"github.com/isdmx/tutorbox/logger"
	"github.com/isdmx/tutorbox/mcpserver"
	"github.com/isdmx/tutorbox/metrics"
	"github.com/isdmx/tutorbox/policy"
	"github.com/isdmx/tutorbox/sandbox"
	"github.com/isdmx/tutorbox/store"
	"github.com/isdmx/tutorbox/tools"
)

func integrationConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Transport: "stdio",
			HTTPPort:  8080,
		},
		Logging: config.LoggingConfig{
			Mode:  "development",
			Level: "debug",
		},
		Safety: config.SafetyConfig{
			AllowedActions: config.DefaultAllowedActions,
			MaxParameters:  10,
			WritableRoots:  []string{t.TempDir()},
			ShellWhitelist: []string{"ls"},
		},
		Sandbox: config.SandboxConfig{
			ExecTimeoutSec:    10,
			CompileTimeoutSec: 30,
			ScratchDir:        t.TempDir(),
			MaxOutputKB:       64,
		},
		Store:     config.StoreConfig{Path: filepath.Join(t.TempDir(), "tutorbox.db")},
		Knowledge: config.KnowledgeConfig{Path: ""},
		Web:       config.WebConfig{TimeoutSec: 5, MaxFetchKB: 50},
	}
}

// buildPlane wires the full stack from configuration the same way the fx
// application does
func buildPlane(t *testing.T, cfg *config.Config) *controlplane.ControlPlane {
	t.Helper()

	log, err := logger.NewFromConfig(cfg)
	require.NoError(t, err)

	pol := policy.FromConfig(cfg)
	executor := sandbox.NewFromConfig(log, cfg)

	kb, err := knowledge.NewFromConfig(log, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kb.Close() })

	st, err := store.OpenFromConfig(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	registry, err := tools.New(log, pol, executor, kb, st, metrics.New(nil), cfg)
	require.NoError(t, err)

	return controlplane.New(log, pol, controlplane.NewRouter(log, registry), metrics.New(nil))
}

func TestControlPlaneEndToEnd(t *testing.T) {
	cfg := integrationConfig(t)
	plane := buildPlane(t, cfg)
	ctx := context.Background()

	t.Run("AssignmentFlow", func(t *testing.T) {
		envelope := plane.Execute(ctx, controlplane.ActionPlan{
			Action: "set_assignment",
			Parameters: map[string]any{
				"description": "Implement binary search.",
				"language":    "python",
			},
			Context: map[string]string{"session_id": "sess-1"},
		})
		require.True(t, envelope.Success)
		assert.Equal(t, 1, envelope.Metadata.ExecutionCount)

		assignment, ok := envelope.Result.(tools.AssignmentResult)
		require.True(t, ok)
		assert.Equal(t, "assignment_set", assignment.Status)
	})

	t.Run("FileFlow", func(t *testing.T) {
		root := cfg.Safety.WritableRoots[0]
		path := filepath.Join(root, "solution.py")

		envelope := plane.Execute(ctx, controlplane.ActionPlan{
			Action:     "write_file",
			Parameters: map[string]any{"path": path, "content": "print('hi')"},
		})
		require.True(t, envelope.Success)

		envelope = plane.Execute(ctx, controlplane.ActionPlan{
			Action:     "read_file",
			Parameters: map[string]any{"path": path},
		})
		require.True(t, envelope.Success)
		read, ok := envelope.Result.(tools.ReadResult)
		require.True(t, ok)
		assert.Equal(t, "print('hi')", read.Content)
	})

	t.Run("RejectionLeavesAuditUntouched", func(t *testing.T) {
		before := plane.ExecutionCount()

		envelope := plane.Execute(ctx, controlplane.ActionPlan{Action: "format_disk"})
		assert.False(t, envelope.Success)
		assert.Equal(t, before, plane.ExecutionCount())

		protected := "/etc/passwd-should-never-exist.txt"
		envelope = plane.Execute(ctx, controlplane.ActionPlan{
			Action:     "write_file",
			Parameters: map[string]any{"path": protected, "content": "x"},
		})
		// The action itself is whitelisted; the path refusal is a tool-level
		// result and still audited
		require.True(t, envelope.Success)
		assert.IsType(t, tools.ErrorResult{}, envelope.Result)
		_, err := os.Stat(protected)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("KnowledgeAndProfileFlow", func(t *testing.T) {
		notes := filepath.Join(cfg.Safety.WritableRoots[0], "notes.md")
		require.NoError(t, os.WriteFile(notes, []byte("Binary search halves the interval each step."), 0600))

		envelope := plane.Execute(ctx, controlplane.ActionPlan{
			Action:     "ingest_document",
			Parameters: map[string]any{"path": notes, "session_id": "sess-1"},
		})
		require.True(t, envelope.Success)

		envelope = plane.Execute(ctx, controlplane.ActionPlan{
			Action:     "search_knowledge",
			Parameters: map[string]any{"query": "binary search", "session_id": "sess-1"},
		})
		require.True(t, envelope.Success)
		search, ok := envelope.Result.(tools.SearchResult)
		require.True(t, ok)
		assert.Equal(t, 1, search.Count)

		envelope = plane.Execute(ctx, controlplane.ActionPlan{
			Action:     "update_learner_profile",
			Parameters: map[string]any{"topic": "binary search", "proficiency": "intermediate"},
		})
		require.True(t, envelope.Success)
		profile, ok := envelope.Result.(tools.ProfileResult)
		require.True(t, ok)
		assert.Contains(t, profile.Profile.TopicsCovered, "binary search")
	})

	t.Run("AuditTrailIsComplete", func(t *testing.T) {
		entries := plane.AuditEntries()
		assert.Equal(t, plane.ExecutionCount(), len(entries))
		for _, entry := range entries {
			assert.NotEmpty(t, entry.Action)
			assert.False(t, entry.Timestamp.IsZero())
		}
	})
}

func TestServerConstructionFromConfig(t *testing.T) {
	cfg := integrationConfig(t)

	log, err := logger.NewFromConfig(cfg)
	require.NoError(t, err)

	server, err := mcpserver.New(cfg, log, buildPlane(t, cfg))
	require.NoError(t, err)
	assert.NotNil(t, server.GetMCPServer())
}
