package models

import (
	"time"

	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
)

// KeyEnvironment scopes an API key to sandbox or production traffic.
type KeyEnvironment string

const (
	EnvironmentSandbox    KeyEnvironment = "sandbox"
	EnvironmentProduction KeyEnvironment = "production"
)

// IsValid reports whether e is a known key environment.
func (e KeyEnvironment) IsValid() bool {
	return e == EnvironmentSandbox || e == EnvironmentProduction
}

// KeyStatus is the state of an issued API key.
type KeyStatus string

const (
	KeyStatusActive  KeyStatus = "active"
	KeyStatusRevoked KeyStatus = "revoked"
	KeyStatusExpired KeyStatus = "expired"
)

// APIKey is a credential issued to a vendor.
//
// Invariants:
//   - SecretHash holds a bcrypt hash; the plaintext secret is returned once
//     at issue time and never stored
//   - Rotation never mutates the old key's identity: the predecessor is
//     revoked in place and the successor records it in RotatedFrom
type APIKey struct {
	ID          id.APIKeyID    `json:"id"`
	Environment KeyEnvironment `json:"environment"`
	Status      KeyStatus      `json:"status"`
	// SecretHash is the bcrypt hash of the key secret. Persisted with the
	// aggregate; transport response types never include it.
	SecretHash  string         `json:"secret_hash,omitempty"`
	RotatedFrom *id.APIKeyID   `json:"rotated_from,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CreatedBy   string         `json:"created_by"`
	RevokedAt   *time.Time     `json:"revoked_at,omitempty"`
}

// NewAPIKey validates and constructs an active key.
func NewAPIKey(keyID id.APIKeyID, environment KeyEnvironment, secretHash, createdBy string, now time.Time) (APIKey, error) {
	if !environment.IsValid() {
		return APIKey{}, dErrors.New(dErrors.CodeInvariantViolation, "unknown key environment")
	}
	if secretHash == "" {
		return APIKey{}, dErrors.New(dErrors.CodeInvariantViolation, "api key secret hash cannot be empty")
	}
	return APIKey{
		ID:          keyID,
		Environment: environment,
		Status:      KeyStatusActive,
		SecretHash:  secretHash,
		CreatedAt:   now,
		CreatedBy:   createdBy,
	}, nil
}
