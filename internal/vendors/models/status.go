package models

// VendorStatus is the lifecycle state of a vendor record.
//
// The lifecycle is one-way by design: there is no un-reject and no
// un-archive. An onboarding record is audit-grade history, so a vendor that
// needs a second chance gets a new record, not a rewound one.
type VendorStatus string

const (
	// StatusDraft is an incomplete onboarding. Never leaves draft
	// automatically; a caller must explicitly complete onboarding.
	StatusDraft VendorStatus = "draft"

	// StatusPendingApproval awaits an approval decision.
	StatusPendingApproval VendorStatus = "pending_approval"

	// StatusActive vendors may hold credentials and receive traffic.
	StatusActive VendorStatus = "active"

	// StatusRejected vendors failed the approval decision.
	StatusRejected VendorStatus = "rejected"

	// StatusArchived is terminal.
	StatusArchived VendorStatus = "archived"
)

// legalTransitions is the full status transition table. Any (from, to) pair
// not listed here is an illegal transition, no exceptions.
var legalTransitions = map[VendorStatus][]VendorStatus{
	StatusDraft:           {StatusPendingApproval},
	StatusPendingApproval: {StatusActive, StatusRejected},
	StatusActive:          {StatusArchived},
	StatusRejected:        {StatusArchived},
	StatusArchived:        {},
}

// CanTransitionTo reports whether the edge from s to target is in the
// transition table.
func (s VendorStatus) CanTransitionTo(target VendorStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsValid reports whether s is a known lifecycle status.
func (s VendorStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusActive, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s VendorStatus) IsTerminal() bool {
	return len(legalTransitions[s]) == 0
}

// Readiness is the derived indicator of whether a vendor can safely receive
// traffic and credentials. It is never set by callers; only the readiness
// evaluator writes it, after every mutation to status, documents, or
// compliance state.
type Readiness string

const (
	ReadinessReady               Readiness = "ready"
	ReadinessPendingRequirements Readiness = "pending_requirements"
	ReadinessBlocked             Readiness = "blocked"
)
