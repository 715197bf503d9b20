package service

import (
	"context"
	"time"

	"vendra/internal/vendors/guard"
	"vendra/internal/vendors/models"
	"vendra/internal/vendors/secrets"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/requestcontext"
)

// IssuedKey carries the one-time plaintext secret of a newly issued key.
// The secret is never stored; callers that lose it must rotate.
type IssuedKey struct {
	KeyID  id.APIKeyID
	Secret string
}

// IssueAPIKey mints a credential for an active vendor.
func (s *Service) IssueAPIKey(ctx context.Context, vendorID id.VendorID, environment models.KeyEnvironment) (*models.Vendor, IssuedKey, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, IssuedKey{}, err
	}
	if !environment.IsValid() {
		return nil, IssuedKey{}, dErrors.New(dErrors.CodeValidation, "environment must be sandbox or production")
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	key, issued, err := s.mintKey(environment, by, now)
	if err != nil {
		return nil, IssuedKey{}, err
	}

	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			return s.checkGuard(v, guard.OpIssueAPIKey)
		},
		func(v *models.Vendor) {
			v.AddAPIKey(key, now)
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionAPIKeyIssued, map[string]string{
				"key_id":      key.ID.String(),
				"environment": string(key.Environment),
			})
		},
	)
	if err != nil {
		return nil, IssuedKey{}, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, issued, nil
}

// RotateAPIKey revokes an active key and issues its successor as one atomic
// unit. The old key's identity is never mutated: it remains resolvable,
// marked revoked, and the new key records it in RotatedFrom.
func (s *Service) RotateAPIKey(ctx context.Context, vendorID id.VendorID, keyID id.APIKeyID) (*models.Vendor, IssuedKey, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, IssuedKey{}, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	var (
		successor models.APIKey
		issued    IssuedKey
	)
	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			if err := s.checkGuard(v, guard.OpRotateAPIKey); err != nil {
				return err
			}
			old, ok := v.FindAPIKey(keyID)
			if !ok {
				return dErrors.New(dErrors.CodeNotFound, "api key not found")
			}
			if old.Status != models.KeyStatusActive {
				return dErrors.Newf(dErrors.CodeConflict, "cannot rotate a %s key", old.Status)
			}
			key, ik, err := s.mintKey(old.Environment, by, now)
			if err != nil {
				return err
			}
			predecessor := keyID
			key.RotatedFrom = &predecessor
			successor, issued = key, ik
			return nil
		},
		func(v *models.Vendor) {
			old, _ := v.FindAPIKey(keyID)
			old.Status = models.KeyStatusRevoked
			old.RevokedAt = &now
			v.AddAPIKey(successor, now)
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionAPIKeyRotated, map[string]string{
				"old_key_id":  keyID.String(),
				"new_key_id":  successor.ID.String(),
				"environment": string(successor.Environment),
			})
		},
	)
	if err != nil {
		return nil, IssuedKey{}, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, issued, nil
}

// RevokeAPIKey marks a key revoked. Requires an active vendor.
func (s *Service) RevokeAPIKey(ctx context.Context, vendorID id.VendorID, keyID id.APIKeyID) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			if err := s.checkGuard(v, guard.OpRevokeAPIKey); err != nil {
				return err
			}
			key, ok := v.FindAPIKey(keyID)
			if !ok {
				return dErrors.New(dErrors.CodeNotFound, "api key not found")
			}
			if key.Status != models.KeyStatusActive {
				return dErrors.Newf(dErrors.CodeConflict, "key is already %s", key.Status)
			}
			return nil
		},
		func(v *models.Vendor) {
			key, _ := v.FindAPIKey(keyID)
			key.Status = models.KeyStatusRevoked
			key.RevokedAt = &now
			v.UpdatedAt = now
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionAPIKeyRevoked, map[string]string{
				"key_id": keyID.String(),
			})
		},
	)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, nil
}

// mintKey generates a secret, hashes it, and constructs the key record.
func (s *Service) mintKey(environment models.KeyEnvironment, by string, now time.Time) (models.APIKey, IssuedKey, error) {
	secret, err := secrets.Generate()
	if err != nil {
		return models.APIKey{}, IssuedKey{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate key secret")
	}
	hash, err := secrets.Hash(secret)
	if err != nil {
		return models.APIKey{}, IssuedKey{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash key secret")
	}
	key, err := models.NewAPIKey(id.NewAPIKeyID(), environment, hash, by, now)
	if err != nil {
		return models.APIKey{}, IssuedKey{}, err
	}
	return key, IssuedKey{KeyID: key.ID, Secret: secret}, nil
}
