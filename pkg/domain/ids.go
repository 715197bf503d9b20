// Package domain defines typed identifiers shared across modules.
//
// Each aggregate gets its own UUID-backed type so the compiler rejects
// cross-type assignment (a DocumentID can never be passed where a VendorID
// is expected). Parse functions enforce the trust-boundary invariant that
// IDs are valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "vendra/pkg/domain-errors"
)

type (
	// VendorID identifies a vendor record.
	VendorID uuid.UUID

	// DocumentID identifies a compliance document within a vendor.
	DocumentID uuid.UUID

	// RequirementID identifies a compliance requirement within a vendor.
	RequirementID uuid.UUID

	// MemberID identifies a vendor member (invited user).
	MemberID uuid.UUID

	// APIKeyID identifies an issued API key within a vendor.
	APIKeyID uuid.UUID
)

func (id VendorID) String() string      { return uuid.UUID(id).String() }
func (id DocumentID) String() string    { return uuid.UUID(id).String() }
func (id RequirementID) String() string { return uuid.UUID(id).String() }
func (id MemberID) String() string      { return uuid.UUID(id).String() }
func (id APIKeyID) String() string      { return uuid.UUID(id).String() }

// The ID types are named array types, so they do not inherit uuid.UUID's
// text marshaling; without these methods encoding/json would emit the raw
// byte array.
func (id VendorID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id DocumentID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }
func (id RequirementID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id MemberID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id APIKeyID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }

func (id *VendorID) UnmarshalText(b []byte) error {
	parsed, err := ParseVendorID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DocumentID) UnmarshalText(b []byte) error {
	parsed, err := ParseDocumentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RequirementID) UnmarshalText(b []byte) error {
	parsed, err := ParseRequirementID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *MemberID) UnmarshalText(b []byte) error {
	parsed, err := ParseMemberID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *APIKeyID) UnmarshalText(b []byte) error {
	parsed, err := ParseAPIKeyID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id VendorID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id RequirementID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MemberID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id APIKeyID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// NewVendorID generates a fresh vendor identifier.
func NewVendorID() VendorID { return VendorID(uuid.New()) }

// NewDocumentID generates a fresh document identifier.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewRequirementID generates a fresh requirement identifier.
func NewRequirementID() RequirementID { return RequirementID(uuid.New()) }

// NewMemberID generates a fresh member identifier.
func NewMemberID() MemberID { return MemberID(uuid.New()) }

// NewAPIKeyID generates a fresh API key identifier.
func NewAPIKeyID() APIKeyID { return APIKeyID(uuid.New()) }

// ParseVendorID parses and validates a vendor ID from its string form.
func ParseVendorID(s string) (VendorID, error) {
	u, err := parseUUID(s, "vendor id")
	return VendorID(u), err
}

// ParseDocumentID parses and validates a document ID from its string form.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document id")
	return DocumentID(u), err
}

// ParseRequirementID parses and validates a requirement ID from its string form.
func ParseRequirementID(s string) (RequirementID, error) {
	u, err := parseUUID(s, "requirement id")
	return RequirementID(u), err
}

// ParseMemberID parses and validates a member ID from its string form.
func ParseMemberID(s string) (MemberID, error) {
	u, err := parseUUID(s, "member id")
	return MemberID(u), err
}

// ParseAPIKeyID parses and validates an API key ID from its string form.
func ParseAPIKeyID(s string) (APIKeyID, error) {
	u, err := parseUUID(s, "api key id")
	return APIKeyID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", what)
	}
	return u, nil
}
