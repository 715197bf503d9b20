package models

import (
	"fmt"
	"strings"
	"time"

	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
)

// Vendor is the aggregate root for a third-party vendor record.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Status only changes through the Can/Apply transition methods below,
//     executed under the store's per-vendor lock
//   - Readiness and ReadinessBlockers are derived; only the readiness
//     evaluator writes them, after every mutation to status, documents, or
//     compliance state
//   - AuditLog is append-only; no entry is ever edited or removed
//   - The lifecycle is one-way: no un-reject, no un-archive
//
// The status write, readiness recompute, and audit append for any operation
// are applied inside a single store Execute call, so no reader can observe
// "status changed but readiness stale" or "status changed but no audit
// entry".
type Vendor struct {
	ID      id.VendorID `json:"id"`
	Name    string      `json:"name"`
	Website string      `json:"website,omitempty"`

	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`

	Status             VendorStatus `json:"status"`
	OnboardingComplete bool         `json:"onboarding_complete"`

	Readiness          Readiness `json:"readiness"`
	ReadinessBlockers  []string  `json:"readiness_blockers,omitempty"`
	ActivationBlocking bool      `json:"activation_blocking"`

	Documents    []Document    `json:"documents"`
	Requirements []Requirement `json:"compliance_requirements"`
	Members      []Member      `json:"members"`
	APIKeys      []APIKey      `json:"api_keys"`
	AuditLog     []AuditEntry  `json:"audit_log"`

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

	// Version supports optimistic version-check writes in stores that do
	// not hold a row lock across the validate/mutate window.
	Version int64 `json:"version"`
}

// TransitionError identifies an attempted lifecycle edge that is not in the
// transition table.
type TransitionError struct {
	From VendorStatus
	To   VendorStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

func illegalTransition(from, to VendorStatus) error {
	te := &TransitionError{From: from, To: to}
	return dErrors.Wrap(te, dErrors.CodeIllegalTransition, te.Error())
}

// NewVendor constructs a vendor in draft or pending_approval depending on
// whether onboarding was completed by the caller.
func NewVendor(vendorID id.VendorID, name, contactName, contactEmail string, onboardingComplete bool, now time.Time) (*Vendor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vendor name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vendor name must be 128 characters or less")
	}
	status := StatusDraft
	if onboardingComplete {
		status = StatusPendingApproval
	}
	return &Vendor{
		ID:                 vendorID,
		Name:               name,
		ContactName:        contactName,
		ContactEmail:       strings.TrimSpace(contactEmail),
		Status:             status,
		OnboardingComplete: onboardingComplete,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// IsActive reports whether the vendor may hold credentials and members.
func (v *Vendor) IsActive() bool {
	return v.Status == StatusActive
}

// IsArchived reports whether the vendor reached the terminal state.
func (v *Vendor) IsArchived() bool {
	return v.Status == StatusArchived
}

// -----------------------------------------------------------------------------
// Lifecycle transitions
// -----------------------------------------------------------------------------

// CanCompleteOnboarding checks the draft → pending_approval edge.
// Returns an error if the transition is not allowed.
// Use with ApplyCompleteOnboarding in Execute callbacks.
func (v *Vendor) CanCompleteOnboarding() error {
	if !v.Status.CanTransitionTo(StatusPendingApproval) {
		return illegalTransition(v.Status, StatusPendingApproval)
	}
	return nil
}

// ApplyCompleteOnboarding transitions the vendor to pending_approval.
// Call CanCompleteOnboarding first to validate the transition.
func (v *Vendor) ApplyCompleteOnboarding(now time.Time) {
	v.Status = StatusPendingApproval
	v.OnboardingComplete = true
	v.UpdatedAt = now
}

// CanActivate checks the pending_approval → active edge.
// Returns an error if the transition is not allowed.
// Use with ApplyActivation in Execute callbacks.
func (v *Vendor) CanActivate() error {
	if !v.Status.CanTransitionTo(StatusActive) {
		return illegalTransition(v.Status, StatusActive)
	}
	return nil
}

// ApplyActivation transitions the vendor to active and stamps the approval
// metadata. Call CanActivate first to validate the transition.
func (v *Vendor) ApplyActivation(actor string, now time.Time) {
	v.Status = StatusActive
	v.ActivatedAt = &now
	v.ActivatedBy = actor
	v.UpdatedAt = now
}

// CanReject checks the pending_approval → rejected edge. A non-empty reason
// is required; rejection without one fails before the edge is even
// considered, so a bad reason never consumes the transition.
func (v *Vendor) CanReject(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return dErrors.New(dErrors.CodeMissingReason, "rejection requires a non-empty reason")
	}
	if !v.Status.CanTransitionTo(StatusRejected) {
		return illegalTransition(v.Status, StatusRejected)
	}
	return nil
}

// ApplyRejection transitions the vendor to rejected and stamps the decision
// metadata. Call CanReject first to validate the transition.
func (v *Vendor) ApplyRejection(actor, reason string, now time.Time) {
	v.Status = StatusRejected
	v.RejectedAt = &now
	v.RejectedBy = actor
	v.RejectionReason = strings.TrimSpace(reason)
	v.UpdatedAt = now
}

// CanArchive checks the active|rejected → archived edge.
// Returns an error if the transition is not allowed.
// Use with ApplyArchival in Execute callbacks.
func (v *Vendor) CanArchive() error {
	if !v.Status.CanTransitionTo(StatusArchived) {
		return illegalTransition(v.Status, StatusArchived)
	}
	return nil
}

// ApplyArchival transitions the vendor to archived and stamps the archival
// metadata. Call CanArchive first to validate the transition.
func (v *Vendor) ApplyArchival(actor, reason string, now time.Time) {
	v.Status = StatusArchived
	v.ArchivedAt = &now
	v.ArchivedBy = actor
	v.ArchiveReason = strings.TrimSpace(reason)
	v.UpdatedAt = now
}

// -----------------------------------------------------------------------------
// Collections
// -----------------------------------------------------------------------------

// FindDocument returns the document with the given id, or false.
func (v *Vendor) FindDocument(documentID id.DocumentID) (Document, bool) {
	for _, d := range v.Documents {
		if d.ID == documentID {
			return d, true
		}
	}
	return Document{}, false
}

// AddDocument appends a document to the vendor.
func (v *Vendor) AddDocument(doc Document, now time.Time) {
	v.Documents = append(v.Documents, doc)
	v.UpdatedAt = now
}

// RemoveDocument deletes the document with the given id. Returns the removed
// document or a not-found error.
func (v *Vendor) RemoveDocument(documentID id.DocumentID, now time.Time) (Document, error) {
	for i, d := range v.Documents {
		if d.ID == documentID {
			v.Documents = append(v.Documents[:i], v.Documents[i+1:]...)
			v.UpdatedAt = now
			return d, nil
		}
	}
	return Document{}, dErrors.New(dErrors.CodeNotFound, "document not found")
}

// FindRequirement returns a pointer into the vendor's requirement slice so
// the compliance tracker can mutate it in place under the store lock.
func (v *Vendor) FindRequirement(requirementID id.RequirementID) (*Requirement, bool) {
	for i := range v.Requirements {
		if v.Requirements[i].ID == requirementID {
			return &v.Requirements[i], true
		}
	}
	return nil, false
}

// AddRequirement appends a compliance requirement to the vendor.
func (v *Vendor) AddRequirement(req Requirement, now time.Time) {
	v.Requirements = append(v.Requirements, req)
	v.UpdatedAt = now
}

// FindMember returns the member with the given id, or false.
func (v *Vendor) FindMember(memberID id.MemberID) (Member, bool) {
	for _, m := range v.Members {
		if m.ID == memberID {
			return m, true
		}
	}
	return Member{}, false
}

// AddMember appends a member to the vendor.
func (v *Vendor) AddMember(member Member, now time.Time) {
	v.Members = append(v.Members, member)
	v.UpdatedAt = now
}

// RemoveMember deletes the member with the given id. Returns the removed
// member or a not-found error.
func (v *Vendor) RemoveMember(memberID id.MemberID, now time.Time) (Member, error) {
	for i, m := range v.Members {
		if m.ID == memberID {
			v.Members = append(v.Members[:i], v.Members[i+1:]...)
			v.UpdatedAt = now
			return m, nil
		}
	}
	return Member{}, dErrors.New(dErrors.CodeNotFound, "member not found")
}

// FindAPIKey returns a pointer into the vendor's key slice so revocation can
// mark the key in place under the store lock. The key's identity is never
// mutated.
func (v *Vendor) FindAPIKey(keyID id.APIKeyID) (*APIKey, bool) {
	for i := range v.APIKeys {
		if v.APIKeys[i].ID == keyID {
			return &v.APIKeys[i], true
		}
	}
	return nil, false
}

// AddAPIKey appends an issued key to the vendor.
func (v *Vendor) AddAPIKey(key APIKey, now time.Time) {
	v.APIKeys = append(v.APIKeys, key)
	v.UpdatedAt = now
}

// Clone returns a deep copy. Stores hand clones to callers so no caller ever
// holds a reference into store-owned state.
func (v *Vendor) Clone() *Vendor {
	clone := *v
	clone.ReadinessBlockers = append([]string(nil), v.ReadinessBlockers...)
	clone.Documents = append([]Document(nil), v.Documents...)
	clone.Members = append([]Member(nil), v.Members...)
	clone.APIKeys = append([]APIKey(nil), v.APIKeys...)
	clone.AuditLog = append([]AuditEntry(nil), v.AuditLog...)
	clone.Requirements = make([]Requirement, len(v.Requirements))
	for i, r := range v.Requirements {
		clone.Requirements[i] = r
		clone.Requirements[i].Evidence = append([]string(nil), r.Evidence...)
	}
	return &clone
}
