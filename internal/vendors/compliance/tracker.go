// Package compliance owns the rules for compliance requirement updates.
//
// Requirement completion is tracked independently of document upload, and is
// deliberately advisory for activation: compliance paperwork can lag without
// blocking a conditional approval, while expired or missing critical legal
// documents (the readiness evaluator's concern) always block. Keep the two
// policies separate; merging them silently changes activation semantics.
package compliance

import (
	"strings"
	"time"

	"vendra/internal/vendors/models"
	dErrors "vendra/pkg/domain-errors"
)

// Field names accepted by SetField.
const (
	FieldName     = "name"
	FieldStatus   = "status"
	FieldOwner    = "owner"
	FieldRequired = "required"
)

// SetField applies a single field update to a requirement, enforcing the
// CompletedAt invariant here rather than trusting callers:
//   - entering complete stamps CompletedAt from the injected clock when the
//     requirement does not already carry one
//   - leaving complete always clears CompletedAt
func SetField(req *models.Requirement, field, value string, now time.Time) error {
	switch field {
	case FieldName:
		value = strings.TrimSpace(value)
		if value == "" {
			return dErrors.New(dErrors.CodeValidation, "requirement name cannot be empty")
		}
		req.Name = value
	case FieldOwner:
		req.Owner = strings.TrimSpace(value)
	case FieldRequired:
		switch value {
		case "true":
			req.Required = true
		case "false":
			req.Required = false
		default:
			return dErrors.New(dErrors.CodeValidation, "required must be true or false")
		}
	case FieldStatus:
		status := models.RequirementStatus(value)
		if !status.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "unknown requirement status %q", value)
		}
		applyStatus(req, status, now)
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown requirement field %q", field)
	}
	return nil
}

func applyStatus(req *models.Requirement, status models.RequirementStatus, now time.Time) {
	switch {
	case status == models.RequirementComplete && req.CompletedAt == nil:
		completed := now
		req.CompletedAt = &completed
	case status != models.RequirementComplete:
		req.CompletedAt = nil
	}
	req.Status = status
}

// AttachEvidence appends an evidence reference to the requirement.
func AttachEvidence(req *models.Requirement, evidence string) error {
	evidence = strings.TrimSpace(evidence)
	if evidence == "" {
		return dErrors.New(dErrors.CodeValidation, "evidence reference cannot be empty")
	}
	req.Evidence = append(req.Evidence, evidence)
	return nil
}

// RemoveEvidence deletes one evidence reference by exact value.
func RemoveEvidence(req *models.Requirement, evidence string) error {
	for i, e := range req.Evidence {
		if e == evidence {
			req.Evidence = append(req.Evidence[:i], req.Evidence[i+1:]...)
			return nil
		}
	}
	return dErrors.New(dErrors.CodeNotFound, "evidence reference not found")
}

// ActivationBlocking reports whether any required requirement is not yet
// complete. Surfaced to operators on the vendor payload; never enforced as a
// transition precondition.
func ActivationBlocking(v *models.Vendor) bool {
	for _, req := range v.Requirements {
		if req.Required && req.Status != models.RequirementComplete {
			return true
		}
	}
	return false
}
