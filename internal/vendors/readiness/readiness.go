// Package readiness computes the derived readiness indicator for a vendor.
//
// Evaluation is a pure function of the vendor record and the supplied clock:
// no side effects, no hidden time source. Callers recompute readiness after
// every mutation to status, documents, or compliance state and store the
// result on the record; nothing else writes the readiness fields.
package readiness

import (
	"fmt"
	"time"

	"vendra/internal/vendors/models"
)

// DefaultMinDocuments is the document-count threshold below which an
// otherwise unblocked vendor stays in pending_requirements. The threshold is
// an operational heuristic for "enough paperwork", not a legal rule, so it
// is configurable rather than hard-coded.
const DefaultMinDocuments = 2

// Result is the outcome of one evaluation. Blockers accumulate for display
// even though the blocked shortcut fires on the first matching rule.
type Result struct {
	Readiness models.Readiness
	Blockers  []string
}

// Evaluator holds the evaluation policy knobs.
type Evaluator struct {
	// MinDocuments is the total document count required before a vendor
	// leaves pending_requirements. Zero means DefaultMinDocuments.
	MinDocuments int
}

// New returns an evaluator with the given document threshold; pass 0 for the
// default.
func New(minDocuments int) Evaluator {
	if minDocuments <= 0 {
		minDocuments = DefaultMinDocuments
	}
	return Evaluator{MinDocuments: minDocuments}
}

// Evaluate computes readiness for v at the instant now.
//
// Rules, in order:
//  1. a vendor that is not active is blocked, with a blocker naming the
//     status (and the rejection reason when rejected)
//  2. a missing or expired critical document (agreement, security
//     certificate) blocks, one blocker line per document
//  3. fewer than MinDocuments total documents means pending_requirements
//  4. otherwise ready
func (e Evaluator) Evaluate(v *models.Vendor, now time.Time) Result {
	if v.Status != models.StatusActive {
		return Result{
			Readiness: models.ReadinessBlocked,
			Blockers:  []string{statusBlocker(v)},
		}
	}

	var blockers []string
	for _, kind := range []models.DocumentKind{models.DocumentAgreement, models.DocumentSecurityCertificate} {
		blockers = append(blockers, criticalDocBlockers(v, kind, now)...)
	}
	if len(blockers) > 0 {
		return Result{Readiness: models.ReadinessBlocked, Blockers: blockers}
	}

	min := e.MinDocuments
	if min <= 0 {
		min = DefaultMinDocuments
	}
	if len(v.Documents) < min {
		return Result{
			Readiness: models.ReadinessPendingRequirements,
			Blockers: []string{fmt.Sprintf("vendor has %d of %d required documents on file",
				len(v.Documents), min)},
		}
	}

	return Result{Readiness: models.ReadinessReady}
}

// Apply evaluates v and writes the result onto the record. Intended for use
// inside store Execute mutations so the stored readiness is never stale
// relative to the mutation that triggered it.
func (e Evaluator) Apply(v *models.Vendor, now time.Time) {
	result := e.Evaluate(v, now)
	v.Readiness = result.Readiness
	v.ReadinessBlockers = result.Blockers
}

func statusBlocker(v *models.Vendor) string {
	switch v.Status {
	case models.StatusDraft:
		return "Vendor is Draft: onboarding has not been completed"
	case models.StatusPendingApproval:
		return "Vendor is Pending Approval: awaiting an approval decision"
	case models.StatusRejected:
		if v.RejectionReason != "" {
			return fmt.Sprintf("Vendor is Rejected: %s", v.RejectionReason)
		}
		return "Vendor is Rejected"
	case models.StatusArchived:
		return "Vendor is Archived"
	default:
		return fmt.Sprintf("Vendor is %s", v.Status)
	}
}

// criticalDocBlockers returns one line per problem with the given critical
// document kind: a missing line when no unexpired document of the kind
// exists, plus an expired line (including the date) for each expired copy.
func criticalDocBlockers(v *models.Vendor, kind models.DocumentKind, now time.Time) []string {
	var blockers []string
	haveValid := false
	for _, d := range v.Documents {
		if d.Kind != kind {
			continue
		}
		if d.Expired(now) {
			blockers = append(blockers, fmt.Sprintf("%s %q expired on %s",
				kindLabel(kind), d.FileName, d.ExpiresAt.Format("2006-01-02")))
			continue
		}
		haveValid = true
	}
	if !haveValid {
		blockers = append(blockers, fmt.Sprintf("missing valid %s", kindLabel(kind)))
	}
	return blockers
}

func kindLabel(kind models.DocumentKind) string {
	switch kind {
	case models.DocumentAgreement:
		return "agreement"
	case models.DocumentSecurityCertificate:
		return "security certificate"
	case models.DocumentInsuranceCertificate:
		return "insurance certificate"
	default:
		return string(kind)
	}
}
