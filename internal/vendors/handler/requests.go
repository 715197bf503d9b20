package handler

import (
	"strings"
	"time"

	dErrors "vendra/pkg/domain-errors"
)

const maxNameLength = 128

// CreateVendorRequest is the intake payload. A caller that already finished
// onboarding sets onboarding_complete to start in pending_approval.
type CreateVendorRequest struct {
	Name               string `json:"name"`
	Website            string `json:"website,omitempty"`
	ContactName        string `json:"contact_name,omitempty"`
	ContactEmail       string `json:"contact_email,omitempty"`
	ContactPhone       string `json:"contact_phone,omitempty"`
	OnboardingComplete bool   `json:"onboarding_complete,omitempty"`
}

func (r *CreateVendorRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Website = strings.TrimSpace(r.Website)
	r.ContactName = strings.TrimSpace(r.ContactName)
	r.ContactEmail = strings.TrimSpace(r.ContactEmail)
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
}

func (r *CreateVendorRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "name exceeds max length")
	}
	return nil
}

// CheckDuplicateRequest probes for existing vendors by exact name or contact
// email, case-insensitively.
type CheckDuplicateRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r *CheckDuplicateRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *CheckDuplicateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Name == "" && r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "name or email is required")
	}
	return nil
}

// TransitionRequest carries a lifecycle decision: activate, reject, or
// archive. Reason is mandatory for reject and optional for archive.
type TransitionRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

func (r *TransitionRequest) Normalize() {
	if r == nil {
		return
	}
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r *TransitionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Action == "" {
		return dErrors.New(dErrors.CodeValidation, "action is required")
	}
	return nil
}

// AddRequirementRequest appends a compliance work item.
type AddRequirementRequest struct {
	Name     string `json:"name"`
	Required bool   `json:"required,omitempty"`
}

func (r *AddRequirementRequest) Normalize() {
	if r == nil {
		return
	}
	r.Name = strings.TrimSpace(r.Name)
}

func (r *AddRequirementRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// UpdateRequirementRequest sets a single requirement field.
type UpdateRequirementRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (r *UpdateRequirementRequest) Normalize() {
	if r == nil {
		return
	}
	r.Field = strings.ToLower(strings.TrimSpace(r.Field))
	r.Value = strings.TrimSpace(r.Value)
}

func (r *UpdateRequirementRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Field == "" {
		return dErrors.New(dErrors.CodeValidation, "field is required")
	}
	return nil
}

// EvidenceRequest attaches or removes one evidence reference.
type EvidenceRequest struct {
	Evidence string `json:"evidence"`
}

func (r *EvidenceRequest) Normalize() {
	if r == nil {
		return
	}
	r.Evidence = strings.TrimSpace(r.Evidence)
}

func (r *EvidenceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Evidence == "" {
		return dErrors.New(dErrors.CodeValidation, "evidence is required")
	}
	return nil
}

// UploadDocumentRequest registers a document on the vendor.
type UploadDocumentRequest struct {
	Kind      string     `json:"kind"`
	FileName  string     `json:"file_name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func (r *UploadDocumentRequest) Normalize() {
	if r == nil {
		return
	}
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	r.FileName = strings.TrimSpace(r.FileName)
}

func (r *UploadDocumentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Kind == "" {
		return dErrors.New(dErrors.CodeValidation, "kind is required")
	}
	if r.FileName == "" {
		return dErrors.New(dErrors.CodeValidation, "file_name is required")
	}
	return nil
}

// InviteMemberRequest adds a user to the vendor.
type InviteMemberRequest struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (r *InviteMemberRequest) Normalize() {
	if r == nil {
		return
	}
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

func (r *InviteMemberRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	return nil
}

// IssueKeyRequest mints an API key in the given environment.
type IssueKeyRequest struct {
	Environment string `json:"environment"`
}

func (r *IssueKeyRequest) Normalize() {
	if r == nil {
		return
	}
	r.Environment = strings.ToLower(strings.TrimSpace(r.Environment))
}

func (r *IssueKeyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Environment == "" {
		return dErrors.New(dErrors.CodeValidation, "environment is required")
	}
	return nil
}
