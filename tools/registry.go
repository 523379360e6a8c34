package tools

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/isdmx/tutorbox/config"
	"github.com/isdmx/tutorbox/knowledge"
	"github.com/isdmx/tutorbox/metrics"
	"github.com/isdmx/tutorbox/policy"
	"github.com/isdmx/tutorbox/sandbox"
	"github.com/isdmx/tutorbox/store"
)

// ErrorResult is the structured failure value a tool returns when it cannot
// complete. Tool-level failures are values inside the result, not transport
// errors: the surrounding execution still succeeded.
type ErrorResult struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

// Registry holds the tool handlers the action router dispatches to. All
// policy enforcement for filesystem and shell tools happens here, before
// any mutation.
type Registry struct {
	logger        *zap.Logger
	policy        *policy.Policy
	sandbox       *sandbox.Executor
	knowledge     *knowledge.Index
	store         *store.Store
	metrics       *metrics.Metrics
	httpClient    *http.Client
	maxFetchBytes int
	questions     map[string][]string
}

// New creates the tool registry
func New(
	logger *zap.Logger,
	pol *policy.Policy,
	executor *sandbox.Executor,
	kb *knowledge.Index,
	st *store.Store,
	m *metrics.Metrics,
	cfg *config.Config,
) (*Registry, error) {
	questions, err := loadQuestionBank()
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}

	return &Registry{
		logger:        logger,
		policy:        pol,
		sandbox:       executor,
		knowledge:     kb,
		store:         st,
		metrics:       m,
		httpClient:    &http.Client{Timeout: cfg.WebTimeout()},
		maxFetchBytes: cfg.Web.MaxFetchKB * 1024,
		questions:     questions,
	}, nil
}

func loadQuestionBank() (map[string][]string, error) {
	questions := make(map[string][]string)
	if err := yaml.Unmarshal(questionBankYAML, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// truncate bounds s to max characters, marking the cut
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "... (truncated)"
}
