package service

import (
	"context"
	"strings"

	"vendra/internal/vendors/models"
	vendorstore "vendra/internal/vendors/store/vendorstore"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/requestcontext"
)

// CreateVendorRequest carries the fields for vendor intake. Callers that
// finished onboarding set OnboardingComplete to create the record directly
// in pending_approval; otherwise it starts as a draft.
type CreateVendorRequest struct {
	Name               string
	Website            string
	ContactName        string
	ContactEmail       string
	ContactPhone       string
	OnboardingComplete bool
}

// defaultRequirements is the compliance checklist stamped onto every new
// vendor. Operators can add more afterwards; these are the baseline items
// every onboarding tracks.
var defaultRequirements = []struct {
	name     string
	required bool
}{
	{"Security review", true},
	{"Data processing agreement", true},
	{"Insurance verification", false},
	{"Sandbox integration test", false},
}

// Create registers a new vendor record and writes its first audit entry.
func (s *Service) Create(ctx context.Context, req CreateVendorRequest) (*models.Vendor, error) {
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	v, err := models.NewVendor(id.NewVendorID(), req.Name, req.ContactName, req.ContactEmail, req.OnboardingComplete, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	v.Website = strings.TrimSpace(req.Website)
	v.ContactPhone = strings.TrimSpace(req.ContactPhone)

	for _, r := range defaultRequirements {
		req, err := models.NewRequirement(id.NewRequirementID(), r.name, r.required)
		if err != nil {
			return nil, err
		}
		v.AddRequirement(req, now)
	}

	s.refresh(ctx, v)
	v.AppendAudit(now, by, models.ActionVendorCreated, map[string]string{
		"status": string(v.Status),
		"name":   v.Name,
	})

	if err := s.vendors.Create(ctx, v); err != nil {
		return nil, wrapVendorErr(err)
	}

	s.mirrorLast(ctx, v)
	if s.metrics != nil {
		s.metrics.IncrementVendorsCreated()
	}
	s.logger.InfoContext(ctx, "vendor created",
		"vendor_id", v.ID, "status", v.Status, "actor", by)
	return v, nil
}

// Get returns one vendor by id.
func (s *Service) Get(ctx context.Context, vendorID id.VendorID) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	v, err := s.vendors.FindByID(ctx, vendorID)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	return v, nil
}

// List returns vendors matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter vendorstore.Filter) ([]*models.Vendor, error) {
	vendors, err := s.vendors.List(ctx, filter)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	return vendors, nil
}

// Trail returns the vendor's audit log newest-first, timestamp ties broken
// by insertion order.
func (s *Service) Trail(ctx context.Context, vendorID id.VendorID) ([]models.AuditEntry, error) {
	v, err := s.Get(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return v.Trail(), nil
}

// DuplicateResult reports existing vendors colliding with a prospective
// intake.
type DuplicateResult struct {
	IsDuplicate bool
	Matches     []*models.Vendor
}

// CheckDuplicate looks for existing vendors whose name or contact email
// equals the given values, case-insensitively. Read-only and advisory; it
// never blocks creation.
func (s *Service) CheckDuplicate(ctx context.Context, name, email string) (DuplicateResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" && email == "" {
		return DuplicateResult{}, dErrors.New(dErrors.CodeValidation, "name or email is required")
	}
	matches, err := s.vendors.FindMatches(ctx, name, email)
	if err != nil {
		return DuplicateResult{}, wrapVendorErr(err)
	}
	return DuplicateResult{IsDuplicate: len(matches) > 0, Matches: matches}, nil
}
