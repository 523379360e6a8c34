package tools

import (
	"context"
	"fmt"

	"github.com/isdmx/tutorbox/store"
)

// ProfileResult is the outcome of an update_learner_profile invocation
type ProfileResult struct {
	Tool    string        `json:"tool"`
	Status  string        `json:"status"`
	Profile store.Profile `json:"profile"`
}

// LogResult is the outcome of a log_interaction invocation
type LogResult struct {
	Tool    string `json:"tool"`
	Status  string `json:"status"`
	EntryID string `json:"entry_id"`
}

// UpdateLearnerProfile records a covered topic and proficiency level
func (r *Registry) UpdateLearnerProfile(ctx context.Context, topic, proficiency string) any {
	profile, err := r.store.UpdateProfile(ctx, topic, proficiency)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to update profile: %v", err)}
	}
	return ProfileResult{
		Tool:    "update_learner_profile",
		Status:  "updated",
		Profile: profile,
	}
}

// LogInteraction persists an interaction event for audit and debugging
func (r *Registry) LogInteraction(ctx context.Context, event string, details map[string]any) any {
	id, err := r.store.LogInteraction(ctx, event, details)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("failed to log interaction: %v", err)}
	}
	return LogResult{
		Tool:    "log_interaction",
		Status:  "logged",
		EntryID: id,
	}
}
