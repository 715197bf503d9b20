package models

import (
	"sort"
	"time"
)

// Audit action names. Every mutating operation writes exactly one entry
// under one of these actions; the set is closed so downstream consumers can
// route on it.
const (
	ActionVendorCreated       = "vendor_created"
	ActionOnboardingCompleted = "onboarding_completed"
	ActionVendorActivated     = "vendor_activated"
	ActionVendorRejected      = "vendor_rejected"
	ActionVendorArchived      = "vendor_archived"
	ActionRequirementUpdated  = "requirement_updated"
	ActionEvidenceAttached    = "evidence_attached"
	ActionEvidenceRemoved     = "evidence_removed"
	ActionDocumentUploaded    = "document_uploaded"
	ActionDocumentRemoved     = "document_removed"
	ActionMemberInvited       = "member_invited"
	ActionMemberRemoved       = "member_removed"
	ActionAPIKeyIssued        = "api_key_issued"
	ActionAPIKeyRotated       = "api_key_rotated"
	ActionAPIKeyRevoked       = "api_key_revoked"
)

// AuditEntry records one state-changing operation on a vendor. Entries are
// append-only: no update or delete path exists anywhere in the engine.
type AuditEntry struct {
	// Seq is the insertion order within the vendor's log, assigned by
	// AppendAudit. It breaks timestamp ties deterministically.
	Seq       int               `json:"seq"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     string            `json:"actor"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details,omitempty"`
}

// AppendAudit appends one entry to the vendor's log. It is the only write
// path into AuditLog; callers never construct entries with a Seq themselves.
func (v *Vendor) AppendAudit(now time.Time, actor, action string, details map[string]string) {
	v.AuditLog = append(v.AuditLog, AuditEntry{
		Seq:       len(v.AuditLog),
		Timestamp: now,
		Actor:     actor,
		Action:    action,
		Details:   details,
	})
}

// Trail returns the audit log newest-first. Timestamp ties are broken by
// insertion order, later entries first. The vendor's stored log is not
// modified.
func (v *Vendor) Trail() []AuditEntry {
	trail := make([]AuditEntry, len(v.AuditLog))
	copy(trail, v.AuditLog)
	sort.SliceStable(trail, func(i, j int) bool {
		if trail[i].Timestamp.Equal(trail[j].Timestamp) {
			return trail[i].Seq > trail[j].Seq
		}
		return trail[i].Timestamp.After(trail[j].Timestamp)
	})
	return trail
}
