package handler

import (
	"time"

	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
)

// VendorResponse is the wire shape of a vendor record. Key secret hashes and
// the raw audit log are deliberately not part of it; the trail has its own
// endpoint.
type VendorResponse struct {
	ID      id.VendorID `json:"id"`
	Name    string      `json:"name"`
	Website string      `json:"website,omitempty"`

	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`

	Status             models.VendorStatus `json:"status"`
	OnboardingComplete bool                `json:"onboarding_complete"`

	Readiness          models.Readiness `json:"readiness"`
	ReadinessBlockers  []string         `json:"readiness_blockers,omitempty"`
	ActivationBlocking bool             `json:"activation_blocking"`

	Documents    []DocumentResponse    `json:"documents"`
	Requirements []RequirementResponse `json:"compliance_requirements"`
	Members      []MemberResponse      `json:"members"`
	APIKeys      []APIKeyResponse      `json:"api_keys"`

	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	ActivatedBy string     `json:"activated_by,omitempty"`

	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectedBy      string     `json:"rejected_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`

	ArchivedAt    *time.Time `json:"archived_at,omitempty"`
	ArchivedBy    string     `json:"archived_by,omitempty"`
	ArchiveReason string     `json:"archive_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DocumentResponse struct {
	ID         id.DocumentID       `json:"id"`
	Kind       models.DocumentKind `json:"kind"`
	FileName   string              `json:"file_name"`
	ExpiresAt  *time.Time          `json:"expires_at,omitempty"`
	UploadedAt time.Time           `json:"uploaded_at"`
	UploadedBy string              `json:"uploaded_by"`
}

type RequirementResponse struct {
	ID          id.RequirementID         `json:"id"`
	Name        string                   `json:"name"`
	Status      models.RequirementStatus `json:"status"`
	Owner       string                   `json:"owner,omitempty"`
	Evidence    []string                 `json:"evidence,omitempty"`
	CompletedAt *time.Time               `json:"completed_at,omitempty"`
	Required    bool                     `json:"required"`
}

type MemberResponse struct {
	ID        id.MemberID `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name,omitempty"`
	Role      string      `json:"role,omitempty"`
	InvitedAt time.Time   `json:"invited_at"`
	InvitedBy string      `json:"invited_by"`
}

// APIKeyResponse never carries the secret or its hash.
type APIKeyResponse struct {
	ID          id.APIKeyID           `json:"id"`
	Environment models.KeyEnvironment `json:"environment"`
	Status      models.KeyStatus      `json:"status"`
	RotatedFrom *id.APIKeyID          `json:"rotated_from,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CreatedBy   string                `json:"created_by"`
	RevokedAt   *time.Time            `json:"revoked_at,omitempty"`
}

// IssuedKeyResponse returns the plaintext secret exactly once, at issue or
// rotation time.
type IssuedKeyResponse struct {
	Vendor VendorResponse `json:"vendor"`
	KeyID  id.APIKeyID    `json:"key_id"`
	Secret string         `json:"secret"`
}

type AuditEntryResponse struct {
	Seq       int               `json:"seq"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     string            `json:"actor"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details,omitempty"`
}

type DuplicateResponse struct {
	IsDuplicate bool             `json:"is_duplicate"`
	Matches     []VendorResponse `json:"matches"`
}

type ListResponse struct {
	Vendors []VendorResponse `json:"vendors"`
}

func toVendorResponse(v *models.Vendor) VendorResponse {
	resp := VendorResponse{
		ID:                 v.ID,
		Name:               v.Name,
		Website:            v.Website,
		ContactName:        v.ContactName,
		ContactEmail:       v.ContactEmail,
		ContactPhone:       v.ContactPhone,
		Status:             v.Status,
		OnboardingComplete: v.OnboardingComplete,
		Readiness:          v.Readiness,
		ReadinessBlockers:  v.ReadinessBlockers,
		ActivationBlocking: v.ActivationBlocking,
		Documents:          make([]DocumentResponse, 0, len(v.Documents)),
		Requirements:       make([]RequirementResponse, 0, len(v.Requirements)),
		Members:            make([]MemberResponse, 0, len(v.Members)),
		APIKeys:            make([]APIKeyResponse, 0, len(v.APIKeys)),
		ActivatedAt:        v.ActivatedAt,
		ActivatedBy:        v.ActivatedBy,
		RejectedAt:         v.RejectedAt,
		RejectedBy:         v.RejectedBy,
		RejectionReason:    v.RejectionReason,
		ArchivedAt:         v.ArchivedAt,
		ArchivedBy:         v.ArchivedBy,
		ArchiveReason:      v.ArchiveReason,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
	for _, d := range v.Documents {
		resp.Documents = append(resp.Documents, DocumentResponse{
			ID:         d.ID,
			Kind:       d.Kind,
			FileName:   d.FileName,
			ExpiresAt:  d.ExpiresAt,
			UploadedAt: d.UploadedAt,
			UploadedBy: d.UploadedBy,
		})
	}
	for _, r := range v.Requirements {
		resp.Requirements = append(resp.Requirements, RequirementResponse{
			ID:          r.ID,
			Name:        r.Name,
			Status:      r.Status,
			Owner:       r.Owner,
			Evidence:    r.Evidence,
			CompletedAt: r.CompletedAt,
			Required:    r.Required,
		})
	}
	for _, m := range v.Members {
		resp.Members = append(resp.Members, MemberResponse{
			ID:        m.ID,
			Email:     m.Email,
			Name:      m.Name,
			Role:      m.Role,
			InvitedAt: m.InvitedAt,
			InvitedBy: m.InvitedBy,
		})
	}
	for _, k := range v.APIKeys {
		resp.APIKeys = append(resp.APIKeys, APIKeyResponse{
			ID:          k.ID,
			Environment: k.Environment,
			Status:      k.Status,
			RotatedFrom: k.RotatedFrom,
			CreatedAt:   k.CreatedAt,
			CreatedBy:   k.CreatedBy,
			RevokedAt:   k.RevokedAt,
		})
	}
	return resp
}

func toVendorResponses(vendors []*models.Vendor) []VendorResponse {
	out := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, toVendorResponse(v))
	}
	return out
}

func toAuditResponses(entries []models.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			Seq:       e.Seq,
			Timestamp: e.Timestamp,
			Actor:     e.Actor,
			Action:    e.Action,
			Details:   e.Details,
		})
	}
	return out
}
