package service

import (
	"context"
	"strings"

	"vendra/internal/vendors/guard"
	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/requestcontext"
)

// InviteMemberRequest carries a member invitation.
type InviteMemberRequest struct {
	Email string
	Name  string
	Role  string
}

// InviteMember adds a user to the vendor. Requires an active vendor.
func (s *Service) InviteMember(ctx context.Context, vendorID id.VendorID, req InviteMemberRequest) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	member, err := models.NewMember(id.NewMemberID(), req.Email, req.Name, req.Role, by, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			if err := s.checkGuard(v, guard.OpInviteMember); err != nil {
				return err
			}
			for _, m := range v.Members {
				if strings.EqualFold(m.Email, member.Email) {
					return dErrors.New(dErrors.CodeConflict, "member with this email already exists")
				}
			}
			return nil
		},
		func(v *models.Vendor) {
			v.AddMember(member, now)
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionMemberInvited, map[string]string{
				"member_id": member.ID.String(),
				"email":     member.Email,
			})
		},
	)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, nil
}

// RemoveMember removes a user from the vendor. Requires an active vendor.
func (s *Service) RemoveMember(ctx context.Context, vendorID id.VendorID, memberID id.MemberID) (*models.Vendor, error) {
	if err := requireVendorID(vendorID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	by := actor(ctx)

	var removed models.Member
	v, err := s.vendors.Execute(ctx, vendorID,
		func(v *models.Vendor) error {
			if err := s.checkGuard(v, guard.OpRemoveMember); err != nil {
				return err
			}
			m, ok := v.FindMember(memberID)
			if !ok {
				return dErrors.New(dErrors.CodeNotFound, "member not found")
			}
			removed = m
			return nil
		},
		func(v *models.Vendor) {
			_, _ = v.RemoveMember(memberID, now)
			s.refresh(ctx, v)
			v.AppendAudit(now, by, models.ActionMemberRemoved, map[string]string{
				"member_id": memberID.String(),
				"email":     removed.Email,
			})
		},
	)
	if err != nil {
		return nil, wrapVendorErr(err)
	}
	s.mirrorLast(ctx, v)
	return v, nil
}
