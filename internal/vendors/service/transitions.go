package service

import (
	"context"
	"time"

	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/requestcontext"
)

// TransitionAction names a caller-requested lifecycle decision.
type TransitionAction string

const (
	ActionActivate TransitionAction = "activate"
	ActionReject   TransitionAction = "reject"
	ActionArchive  TransitionAction = "archive"
)

// Transition dispatches the decision actions exposed to external callers.
// Completing onboarding is its own explicit call, not a decision action:
// drafts never leave draft through this path.
func (s *Service) Transition(ctx context.Context, vendorID id.VendorID, action TransitionAction, reason string) (*models.Vendor, error) {
	switch action {
	case ActionActivate:
		return s.Activate(ctx, vendorID)
	case ActionReject:
		return s.Reject(ctx, vendorID, reason)
	case ActionArchive:
		return s.Archive(ctx, vendorID, reason)
	default:
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "unknown transition action %q", action)
	}
}

// CompleteOnboarding moves a draft vendor to pending_approval. This is the
// only edge out of draft and it is always caller-driven.
func (s *Service) CompleteOnboarding(ctx context.Context, vendorID id.VendorID) (*models.Vendor, error) {
	return s.transition(ctx, vendorID, models.StatusPendingApproval,
		models.ActionOnboardingCompleted, nil,
		func(v *models.Vendor) error { return v.CanCompleteOnboarding() },
		func(v *models.Vendor, now time.Time, _ string) { v.ApplyCompleteOnboarding(now) },
	)
}

// Activate approves a pending vendor. Compliance requirement completion is
// deliberately not checked here: requirement state is advisory, while the
// readiness evaluator keeps an under-documented vendor blocked from
// credentials after activation.
func (s *Service) Activate(ctx context.Context, vendorID id.VendorID) (*models.Vendor, error) {
	return s.transition(ctx, vendorID, models.StatusActive,
		models.ActionVendorActivated, nil,
		func(v *models.Vendor) error { return v.CanActivate() },
		func(v *models.Vendor, now time.Time, by string) { v.ApplyActivation(by, now) },
	)
}

// Reject declines a pending vendor. The reason is mandatory and recorded on
// both the record and the audit entry.
func (s *Service) Reject(ctx context.Context, vendorID id.VendorID, reason string) (*models.Vendor, error) {
	return s.transition(ctx, vendorID, models.StatusRejected,
		models.ActionVendorRejected, map[string]string{"reason": reason},
		func(v *models.Vendor) error { return v.CanReject(reason) },
		func(v *models.Vendor, now time.Time, by string) { v.ApplyRejection(by, reason, now) },
	)
}

// Archive retires an active or rejected vendor. The reason is optional.
func (s *Service) Archive(ctx context.Context, vendorID id.VendorID, reason string) (*models.Vendor, error) {
	var details map[string]string
	if reason != "" {
		details = map[string]string{"reason": reason}
	}
	return s.transition(ctx, vendorID, models.StatusArchived,
		models.ActionVendorArchived, details,
		func(v *models.Vendor) error { return v.CanArchive() },
		func(v *models.Vendor, now time.Time, by string) { v.ApplyArchival(by, reason, now) },
	)
}

// transition runs one lifecycle edge as a single atomic unit: validate the
// edge, apply it, recompute readiness, and append the audit entry, all
// inside the store's per-vendor lock. A failed validation leaves no trace.
func (s *Service) transition(
	ctx context.Context,
	vendorID id.VendorID,
	target models.VendorStatus,
	auditAction string,
	auditDetails map[string]string,
	validate func(*models.Vendor) error,
	apply func(v *models.Vendor, now time.Time, by string),
) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}

	start := time.Now()
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	var from models.VendorStatus
	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			from = v.Status
			return validate(v)
		},
		func(v *models.Vendor) {
			apply(v, now, by)
			s.refresh(ctx, v)
			details := map[string]string{"from": string(from), "to": string(target)}
			for k, val := range auditDetails {
				details[k] = val
			}
			v.AppendAudit(now, by, auditAction, details)
		},
	)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementTransitionDenied(string(dErrors.CodeOf(wrapVendorErr(err))))
		}
		return nil, wrapVendorErr(err)
	}

	s.mirrorLast(ctx, v)
	if s.metrics != nil {
		s.metrics.ObserveTransition(string(target), start)
	}
	s.logger.InfoContext(ctx, "vendor transitioned",
		"vendor_id", v.ID, "from", from, "to", v.Status,
		"readiness", v.Readiness, "actor", by)
	return v, nil
}
