package models

import (
	"time"

	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
)

// RequirementStatus tracks a compliance work item to completion.
type RequirementStatus string

const (
	RequirementNotStarted RequirementStatus = "not_started"
	RequirementInProgress RequirementStatus = "in_progress"
	RequirementComplete   RequirementStatus = "complete"
)

// IsValid reports whether s is a known requirement status.
func (s RequirementStatus) IsValid() bool {
	switch s {
	case RequirementNotStarted, RequirementInProgress, RequirementComplete:
		return true
	}
	return false
}

// Requirement is a named compliance work item (e.g. "Security review")
// tracked independently of document upload.
//
// Invariant: CompletedAt is set only while Status is complete. The
// compliance tracker stamps it on entry to complete and clears it on exit;
// callers never write it directly.
type Requirement struct {
	ID          id.RequirementID  `json:"id"`
	Name        string            `json:"name"`
	Status      RequirementStatus `json:"status"`
	Owner       string            `json:"owner,omitempty"`
	Evidence    []string          `json:"evidence,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Required    bool              `json:"required"`
}

// NewRequirement validates and constructs a requirement in not_started state.
func NewRequirement(requirementID id.RequirementID, name string, required bool) (Requirement, error) {
	if name == "" {
		return Requirement{}, dErrors.New(dErrors.CodeInvariantViolation, "requirement name cannot be empty")
	}
	return Requirement{
		ID:       requirementID,
		Name:     name,
		Status:   RequirementNotStarted,
		Required: required,
	}, nil
}
