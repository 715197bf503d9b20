package service

import (
	"context"
	"time"

	"vendra/internal/vendors/guard"
	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/requestcontext"
)

// UploadDocumentRequest carries a compliance document upload.
type UploadDocumentRequest struct {
	Kind      models.DocumentKind
	FileName  string
	ExpiresAt *time.Time
}

// UploadDocument attaches a compliance document. Permitted in any status
// except archived; readiness is recomputed in the same atomic unit because
// documents feed the evaluator directly.
func (s *Service) UploadDocument(ctx context.Context, vendorID id.VendorID, req UploadDocumentRequest) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	doc, err := models.NewDocument(id.NewDocumentID(), req.Kind, req.FileName, req.ExpiresAt, by, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			return s.checkGuard(v, guard.OpUploadDocument)
		},
		func(v *models.Vendor) {
			v.AddDocument(doc, now)
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionDocumentUploaded, map[string]string{
				"document_id": doc.ID.String(),
				"kind":        string(doc.Kind),
				"file_name":   doc.FileName,
			})
		},
	)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, nil
}

// RemoveDocument deletes a compliance document. Permitted in any status
// except archived.
func (s *Service) RemoveDocument(ctx context.Context, vendorID id.VendorID, documentID id.DocumentID) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	var removed models.Document
	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			if err := s.checkGuard(v, guard.OpRemoveDocument); err != nil {
				return err
			}
			doc, ok := v.FindDocument(documentID)
			if !ok {
				return dErrors.New(dErrors.CodeNotFound, "document not found")
			}
			removed = doc
			return nil
		},
		func(v *models.Vendor) {
			_, _ = v.RemoveDocument(documentID, now)
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionDocumentRemoved, map[string]string{
				"document_id": documentID.String(),
				"kind":        string(removed.Kind),
				"file_name":   removed.FileName,
			})
		},
	)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, nil
}

// checkGuard applies the status guard and counts denials.
func (s *Service) checkGuard(v *models.Vendor, op guard.Operation) error {
	if err := guard.Check(v, op); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementGuardDenied(string(op))
		}
		return err
	}
	return nil
}
