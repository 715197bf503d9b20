package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vendra/pkg/domain-errors"
)

func TestCreateVendorRequest(t *testing.T) {
	t.Run("normalize trims every field", func(t *testing.T) {
		req := CreateVendorRequest{
			Name:         "  Acme  ",
			Website:      " https://acme.test ",
			ContactEmail: " jo@acme.test ",
		}
		req.Normalize()
		assert.Equal(t, "Acme", req.Name)
		assert.Equal(t, "https://acme.test", req.Website)
		assert.Equal(t, "jo@acme.test", req.ContactEmail)
	})

	t.Run("name required", func(t *testing.T) {
		req := CreateVendorRequest{Name: "   "}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("name length cap", func(t *testing.T) {
		req := CreateVendorRequest{Name: strings.Repeat("a", maxNameLength+1)}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		req.Name = strings.Repeat("a", maxNameLength)
		assert.NoError(t, req.Validate())
	})

	t.Run("nil receiver", func(t *testing.T) {
		var req *CreateVendorRequest
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestTransitionRequest(t *testing.T) {
	req := TransitionRequest{Action: " ACTIVATE ", Reason: " why "}
	req.Normalize()
	assert.Equal(t, "activate", req.Action)
	assert.Equal(t, "why", req.Reason)
	assert.NoError(t, req.Validate())

	empty := TransitionRequest{}
	empty.Normalize()
	err := empty.Validate()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCheckDuplicateRequest(t *testing.T) {
	t.Run("either field satisfies", func(t *testing.T) {
		byName := CheckDuplicateRequest{Name: "Acme"}
		assert.NoError(t, byName.Validate())

		byEmail := CheckDuplicateRequest{Email: "jo@acme.test"}
		assert.NoError(t, byEmail.Validate())
	})

	t.Run("both blank rejected", func(t *testing.T) {
		req := CheckDuplicateRequest{Name: "  ", Email: " "}
		req.Normalize()
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestUploadDocumentRequest(t *testing.T) {
	req := UploadDocumentRequest{Kind: " AGREEMENT ", FileName: " msa.pdf "}
	req.Normalize()
	assert.Equal(t, "agreement", req.Kind)
	assert.Equal(t, "msa.pdf", req.FileName)
	assert.NoError(t, req.Validate())

	t.Run("kind and file name both required", func(t *testing.T) {
		noKind := UploadDocumentRequest{FileName: "msa.pdf"}
		noKind.Normalize()
		assert.Error(t, noKind.Validate())

		noFile := UploadDocumentRequest{Kind: "agreement"}
		noFile.Normalize()
		assert.Error(t, noFile.Validate())
	})
}

func TestUpdateRequirementRequest(t *testing.T) {
	req := UpdateRequirementRequest{Field: " Status ", Value: " Complete "}
	req.Normalize()
	assert.Equal(t, "status", req.Field)
	// Values keep their case; only fields are case-insensitive.
	assert.Equal(t, "Complete", req.Value)
	assert.NoError(t, req.Validate())
}

func TestInviteMemberRequest(t *testing.T) {
	req := InviteMemberRequest{Email: " dev@acme.test ", Role: " ADMIN "}
	req.Normalize()
	assert.Equal(t, "dev@acme.test", req.Email)
	assert.Equal(t, "admin", req.Role)
	assert.NoError(t, req.Validate())

	empty := InviteMemberRequest{}
	err := empty.Validate()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestIssueKeyRequest(t *testing.T) {
	req := IssueKeyRequest{Environment: " PRODUCTION "}
	req.Normalize()
	assert.Equal(t, "production", req.Environment)
	assert.NoError(t, req.Validate())

	empty := IssueKeyRequest{}
	assert.Error(t, empty.Validate())
}
