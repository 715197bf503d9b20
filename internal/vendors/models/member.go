package models

import (
	"strings"
	"time"

	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
)

// Member is a user invited to act on behalf of a vendor.
type Member struct {
	ID        id.MemberID `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name,omitempty"`
	Role      string      `json:"role,omitempty"`
	InvitedAt time.Time   `json:"invited_at"`
	InvitedBy string      `json:"invited_by"`
}

// NewMember validates and constructs a member.
func NewMember(memberID id.MemberID, email, name, role, invitedBy string, now time.Time) (Member, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return Member{}, dErrors.New(dErrors.CodeInvariantViolation, "member email must be a valid address")
	}
	return Member{
		ID:        memberID,
		Email:     email,
		Name:      name,
		Role:      role,
		InvitedAt: now,
		InvitedBy: invitedBy,
	}, nil
}
