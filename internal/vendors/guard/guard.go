// Package guard authorizes secondary vendor operations from vendor status.
//
// Status-dependent gating lives here and nowhere else: every caller (service
// methods, handlers deciding what to render) asks the same question and gets
// the same allow/deny plus reason.
package guard

import (
	"vendra/internal/vendors/models"
	dErrors "vendra/pkg/domain-errors"
)

// Operation is a guarded secondary operation on a vendor.
type Operation string

const (
	OpInviteMember   Operation = "invite_member"
	OpRemoveMember   Operation = "remove_member"
	OpIssueAPIKey    Operation = "issue_api_key"
	OpRotateAPIKey   Operation = "rotate_api_key"
	OpRevokeAPIKey   Operation = "revoke_api_key"
	OpUploadDocument Operation = "upload_document"
	OpRemoveDocument Operation = "remove_document"
)

// Check returns nil when op is permitted for the vendor's current status.
//
// Credential and membership operations require an active vendor; document
// operations are permitted in any status except archived, because paperwork
// is collected throughout onboarding and review.
func Check(v *models.Vendor, op Operation) error {
	switch op {
	case OpInviteMember, OpRemoveMember, OpIssueAPIKey, OpRotateAPIKey, OpRevokeAPIKey:
		if !v.IsActive() {
			return dErrors.Newf(dErrors.CodeVendorNotActive,
				"%s requires an active vendor (status is %s)", op, v.Status)
		}
		return nil
	case OpUploadDocument, OpRemoveDocument:
		if v.IsArchived() {
			return dErrors.Newf(dErrors.CodeVendorArchived,
				"%s is not permitted on an archived vendor", op)
		}
		return nil
	default:
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown guarded operation %q", op)
	}
}
