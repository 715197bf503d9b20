package service

import (
	"context"

	"vendra/internal/vendors/compliance"
	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/requestcontext"
)

func activationBlocking(v *models.Vendor) bool {
	return compliance.ActivationBlocking(v)
}

// AddRequirement appends a compliance work item to the vendor's checklist.
func (s *Service) AddRequirement(ctx context.Context, vendorID id.VendorID, name string, required bool) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	req, err := models.NewRequirement(id.NewRequirementID(), name, required)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error { return nil },
		func(v *models.Vendor) {
			v.AddRequirement(req, now)
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionRequirementUpdated, map[string]string{
				"requirement_id": req.ID.String(),
				"name":           req.Name,
				"change":         "added",
			})
		},
	)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, nil
}

// SetRequirementField updates one field of one compliance requirement. The
// CompletedAt stamping/clearing invariant is enforced by the compliance
// tracker inside the mutation, not trusted to callers.
func (s *Service) SetRequirementField(ctx context.Context, vendorID id.VendorID, requirementID id.RequirementID, field, value string) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			req, ok := v.FindRequirement(requirementID)
			if !ok {
				return dErrors.New(dErrors.CodeNotFound, "requirement not found")
			}
			// Dry-run on a copy so a rejected update has zero side effects.
			probe := *req
			probe.Evidence = append([]string(nil), req.Evidence...)
			return compliance.SetField(&probe, field, value, now)
		},
		func(v *models.Vendor) {
			req, _ := v.FindRequirement(requirementID)
			_ = compliance.SetField(req, field, value, now)
			v.UpdatedAt = now
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionRequirementUpdated, map[string]string{
				"requirement_id": requirementID.String(),
				"field":          field,
				"value":          value,
			})
		},
	)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, nil
}

// AttachEvidence records an evidence reference on a requirement.
func (s *Service) AttachEvidence(ctx context.Context, vendorID id.VendorID, requirementID id.RequirementID, evidence string) (*models.Vendor, error) {
	return s.evidenceChange(ctx, vendorID, requirementID, evidence, models.ActionEvidenceAttached,
		func(req *models.Requirement) error { return compliance.AttachEvidence(req, evidence) })
}

// RemoveEvidence deletes an evidence reference from a requirement.
func (s *Service) RemoveEvidence(ctx context.Context, vendorID id.VendorID, requirementID id.RequirementID, evidence string) (*models.Vendor, error) {
	return s.evidenceChange(ctx, vendorID, requirementID, evidence, models.ActionEvidenceRemoved,
		func(req *models.Requirement) error { return compliance.RemoveEvidence(req, evidence) })
}

func (s *Service) evidenceChange(
	ctx context.Context,
	vendorID id.VendorID,
	requirementID id.RequirementID,
	evidence string,
	auditAction string,
	change func(*models.Requirement) error,
) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			req, ok := v.FindRequirement(requirementID)
			if !ok {
				return dErrors.New(dErrors.CodeNotFound, "requirement not found")
			}
			probe := *req
			probe.Evidence = append([]string(nil), req.Evidence...)
			return change(&probe)
		},
		func(v *models.Vendor) {
			req, _ := v.FindRequirement(requirementID)
			_ = change(req)
			v.UpdatedAt = now
			s.refresh(ctx, v)
			v.AppendAudit(now, by, auditAction, map[string]string{
				"requirement_id": requirementID.String(),
				"evidence":       evidence,
			})
		},
	)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, nil
}
