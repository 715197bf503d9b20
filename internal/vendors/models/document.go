package models

import (
	"time"

	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
)

// DocumentKind classifies a compliance document.
type DocumentKind string

const (
	DocumentAgreement            DocumentKind = "agreement"
	DocumentSecurityCertificate  DocumentKind = "security_certificate"
	DocumentInsuranceCertificate DocumentKind = "insurance_certificate"
	DocumentOther                DocumentKind = "other"
)

// IsValid reports whether k is a known document kind.
func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentAgreement, DocumentSecurityCertificate, DocumentInsuranceCertificate, DocumentOther:
		return true
	}
	return false
}

// IsCritical reports whether the kind is expiration-checked and required for
// readiness. Agreements and security certificates gate traffic; insurance
// and other paperwork do not.
func (k DocumentKind) IsCritical() bool {
	return k == DocumentAgreement || k == DocumentSecurityCertificate
}

// Document is a compliance document attached to a vendor.
type Document struct {
	ID         id.DocumentID `json:"id"`
	Kind       DocumentKind  `json:"kind"`
	FileName   string        `json:"file_name"`
	ExpiresAt  *time.Time    `json:"expires_at,omitempty"`
	UploadedAt time.Time     `json:"uploaded_at"`
	UploadedBy string        `json:"uploaded_by"`
}

// Expired reports whether the document carries an expiration date in the
// past relative to now.
func (d Document) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}

// NewDocument validates and constructs a document.
func NewDocument(documentID id.DocumentID, kind DocumentKind, fileName string, expiresAt *time.Time, uploadedBy string, now time.Time) (Document, error) {
	if !kind.IsValid() {
		return Document{}, dErrors.New(dErrors.CodeInvariantViolation, "unknown document kind")
	}
	if fileName == "" {
		return Document{}, dErrors.New(dErrors.CodeInvariantViolation, "document file name cannot be empty")
	}
	return Document{
		ID:         documentID,
		Kind:       kind,
		FileName:   fileName,
		ExpiresAt:  expiresAt,
		UploadedAt: now,
		UploadedBy: uploadedBy,
	}, nil
}
