package service_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendra/internal/vendors/models"
	"vendra/internal/vendors/secrets"
	"vendra/internal/vendors/service"
	vendorstore "vendra/internal/vendors/store/vendorstore"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/requestcontext"
	"vendra/pkg/testutil"
)

var baseTime = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T) *service.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return service.New(vendorstore.NewInMemory(), service.WithLogger(logger))
}

func ctxAt(offsetMinutes int) context.Context {
	return testutil.FixedClockContext("ops@example.test", baseTime.Add(time.Duration(offsetMinutes)*time.Minute))
}

// createActiveVendor walks a vendor to active with both critical documents
// on file, returning it ready for credential operations.
func createActiveVendor(t *testing.T, svc *service.Service) *models.Vendor {
	t.Helper()

	v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{
		Name:               "Acme Logistics",
		ContactEmail:       "jo@acme.test",
		OnboardingComplete: true,
	})
	require.NoError(t, err)

	_, err = svc.Activate(ctxAt(1), v.ID)
	require.NoError(t, err)

	_, err = svc.UploadDocument(ctxAt(2), v.ID, service.UploadDocumentRequest{
		Kind: models.DocumentAgreement, FileName: "msa.pdf",
	})
	require.NoError(t, err)
	active, err := svc.UploadDocument(ctxAt(3), v.ID, service.UploadDocumentRequest{
		Kind: models.DocumentSecurityCertificate, FileName: "soc2.pdf",
	})
	require.NoError(t, err)

	require.Equal(t, models.ReadinessReady, active.Readiness)
	return active
}

func TestCreate(t *testing.T) {
	t.Run("draft by default with seeded requirements", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme"})
		require.NoError(t, err)

		assert.Equal(t, models.StatusDraft, v.Status)
		assert.Equal(t, models.ReadinessBlocked, v.Readiness)
		assert.True(t, v.ActivationBlocking)
		assert.Len(t, v.Requirements, 4)

		require.Len(t, v.AuditLog, 1)
		entry := v.AuditLog[0]
		assert.Equal(t, models.ActionVendorCreated, entry.Action)
		assert.Equal(t, "ops@example.test", entry.Actor)
		assert.Equal(t, baseTime, entry.Timestamp)
	})

	t.Run("pending when onboarding complete", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme", OnboardingComplete: true})
		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingApproval, v.Status)
	})

	t.Run("empty name is a validation error", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "   "})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("unauthenticated context records the system actor", func(t *testing.T) {
		svc := newService(t)
		ctx := requestcontext.WithTime(context.Background(), baseTime)
		v, err := svc.Create(ctx, service.CreateVendorRequest{Name: "Acme"})
		require.NoError(t, err)
		assert.Equal(t, "system", v.AuditLog[0].Actor)
	})
}

func TestLifecycle(t *testing.T) {
	t.Run("draft to pending to active", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme"})
		require.NoError(t, err)

		v, err = svc.CompleteOnboarding(ctxAt(1), v.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingApproval, v.Status)

		v, err = svc.Activate(ctxAt(2), v.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, v.Status)
		assert.Equal(t, "ops@example.test", v.ActivatedBy)
		// Active with no documents: blocked on both critical kinds.
		assert.Equal(t, models.ReadinessBlocked, v.Readiness)
		assert.Contains(t, v.ReadinessBlockers, "missing valid agreement")
		assert.Contains(t, v.ReadinessBlockers, "missing valid security certificate")
	})

	t.Run("illegal transition leaves the record untouched", func(t *testing.T) {
		svc := newService(t)
		created, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme"})
		require.NoError(t, err)

		_, err = svc.Activate(ctxAt(1), created.ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIllegalTransition))

		after, err := svc.Get(ctxAt(2), created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, after.Status)
		assert.Equal(t, created.UpdatedAt, after.UpdatedAt)
		assert.Len(t, after.AuditLog, 1, "failed transition must not write an audit entry")
	})

	t.Run("reject requires a reason and a denied attempt leaves no trace", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme", OnboardingComplete: true})
		require.NoError(t, err)

		_, err = svc.Reject(ctxAt(1), v.ID, "   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMissingReason))

		after, err := svc.Get(ctxAt(2), v.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPendingApproval, after.Status)
		assert.Len(t, after.AuditLog, 1)
	})

	t.Run("rejection reason lands on record, blockers, and audit entry", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme", OnboardingComplete: true})
		require.NoError(t, err)

		v, err = svc.Reject(ctxAt(1), v.ID, "failed security review")
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, v.Status)
		assert.Equal(t, "failed security review", v.RejectionReason)
		assert.Equal(t, []string{"Vendor is Rejected: failed security review"}, v.ReadinessBlockers)

		last := v.AuditLog[len(v.AuditLog)-1]
		assert.Equal(t, models.ActionVendorRejected, last.Action)
		assert.Equal(t, "failed security review", last.Details["reason"])
		assert.Equal(t, string(models.StatusPendingApproval), last.Details["from"])
	})

	t.Run("archive from active and rejected, then terminal", func(t *testing.T) {
		svc := newService(t)
		v := createActiveVendor(t, svc)

		archived, err := svc.Archive(ctxAt(10), v.ID, "relationship ended")
		require.NoError(t, err)
		assert.Equal(t, models.StatusArchived, archived.Status)
		assert.Equal(t, models.ReadinessBlocked, archived.Readiness)

		_, err = svc.Archive(ctxAt(11), v.ID, "again")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeIllegalTransition))
	})

	t.Run("unknown transition action", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme", OnboardingComplete: true})
		require.NoError(t, err)

		_, err = svc.Transition(ctxAt(1), v.ID, service.TransitionAction("promote"), "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestReadinessFollowsDocuments(t *testing.T) {
	svc := newService(t)
	v := createActiveVendor(t, svc)

	// Removing a critical document flips readiness back in the same commit.
	var agreementID id.DocumentID
	for _, d := range v.Documents {
		if d.Kind == models.DocumentAgreement {
			agreementID = d.ID
		}
	}
	after, err := svc.RemoveDocument(ctxAt(5), v.ID, agreementID)
	require.NoError(t, err)
	assert.Equal(t, models.ReadinessBlocked, after.Readiness)
	assert.Contains(t, after.ReadinessBlockers, "missing valid agreement")
}

func TestGuardedOperations(t *testing.T) {
	t.Run("issue key on pending vendor is denied with no side effects", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme", OnboardingComplete: true})
		require.NoError(t, err)

		_, _, err = svc.IssueAPIKey(ctxAt(1), v.ID, models.EnvironmentSandbox)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeVendorNotActive))

		after, err := svc.Get(ctxAt(2), v.ID)
		require.NoError(t, err)
		assert.Empty(t, after.APIKeys)
		assert.Len(t, after.AuditLog, 1)
	})

	t.Run("documents allowed before activation but not after archive", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme"})
		require.NoError(t, err)

		_, err = svc.UploadDocument(ctxAt(1), v.ID, service.UploadDocumentRequest{
			Kind: models.DocumentAgreement, FileName: "msa.pdf",
		})
		require.NoError(t, err, "draft vendors collect paperwork")

		archived := newService(t)
		av := createActiveVendor(t, archived)
		_, err = archived.Archive(ctxAt(4), av.ID, "done")
		require.NoError(t, err)

		_, err = archived.UploadDocument(ctxAt(5), av.ID, service.UploadDocumentRequest{
			Kind: models.DocumentAgreement, FileName: "late.pdf",
		})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeVendorArchived))

		_, err = archived.RemoveDocument(ctxAt(6), av.ID, av.Documents[0].ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeVendorArchived))
	})

	t.Run("member operations require an active vendor", func(t *testing.T) {
		svc := newService(t)
		v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme"})
		require.NoError(t, err)

		_, err = svc.InviteMember(ctxAt(1), v.ID, service.InviteMemberRequest{Email: "a@b.test"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeVendorNotActive))
	})
}

func TestMembers(t *testing.T) {
	svc := newService(t)
	v := createActiveVendor(t, svc)

	withMember, err := svc.InviteMember(ctxAt(5), v.ID, service.InviteMemberRequest{
		Email: "dev@acme.test", Name: "Dev", Role: "admin",
	})
	require.NoError(t, err)
	require.Len(t, withMember.Members, 1)
	assert.Equal(t, models.ActionMemberInvited, withMember.AuditLog[len(withMember.AuditLog)-1].Action)

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		_, err := svc.InviteMember(ctxAt(6), v.ID, service.InviteMemberRequest{Email: "DEV@ACME.TEST"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("remove", func(t *testing.T) {
		after, err := svc.RemoveMember(ctxAt(7), v.ID, withMember.Members[0].ID)
		require.NoError(t, err)
		assert.Empty(t, after.Members)

		_, err = svc.RemoveMember(ctxAt(8), v.ID, withMember.Members[0].ID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestAPIKeys(t *testing.T) {
	svc := newService(t)
	v := createActiveVendor(t, svc)

	withKey, issued, err := svc.IssueAPIKey(ctxAt(5), v.ID, models.EnvironmentProduction)
	require.NoError(t, err)
	require.Len(t, withKey.APIKeys, 1)
	require.NotEmpty(t, issued.Secret)

	stored := withKey.APIKeys[0]
	assert.Equal(t, issued.KeyID, stored.ID)
	assert.Equal(t, models.KeyStatusActive, stored.Status)
	assert.NotEqual(t, issued.Secret, stored.SecretHash, "plaintext must never be stored")
	assert.NoError(t, secrets.Verify(issued.Secret, stored.SecretHash))

	t.Run("invalid environment", func(t *testing.T) {
		_, _, err := svc.IssueAPIKey(ctxAt(6), v.ID, models.KeyEnvironment("staging"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rotation revokes the old key and links the new one", func(t *testing.T) {
		rotated, reissued, err := svc.RotateAPIKey(ctxAt(7), v.ID, issued.KeyID)
		require.NoError(t, err)
		require.Len(t, rotated.APIKeys, 2)
		require.NotEmpty(t, reissued.Secret)
		assert.NotEqual(t, issued.Secret, reissued.Secret)

		old, ok := rotated.Clone().FindAPIKey(issued.KeyID)
		require.True(t, ok, "rotated key stays resolvable")
		assert.Equal(t, models.KeyStatusRevoked, old.Status)
		require.NotNil(t, old.RevokedAt)

		successor, ok := rotated.Clone().FindAPIKey(reissued.KeyID)
		require.True(t, ok)
		assert.Equal(t, models.KeyStatusActive, successor.Status)
		require.NotNil(t, successor.RotatedFrom)
		assert.Equal(t, issued.KeyID, *successor.RotatedFrom)

		// Rotation is one atomic unit: exactly one audit entry.
		last := rotated.AuditLog[len(rotated.AuditLog)-1]
		assert.Equal(t, models.ActionAPIKeyRotated, last.Action)
		assert.Equal(t, issued.KeyID.String(), last.Details["old_key_id"])
		assert.Equal(t, reissued.KeyID.String(), last.Details["new_key_id"])

		t.Run("rotating a revoked key is a conflict", func(t *testing.T) {
			_, _, err := svc.RotateAPIKey(ctxAt(8), v.ID, issued.KeyID)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
		})

		t.Run("revoking a revoked key is a conflict", func(t *testing.T) {
			_, err := svc.RevokeAPIKey(ctxAt(9), v.ID, issued.KeyID)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
		})

		t.Run("revoke the successor", func(t *testing.T) {
			after, err := svc.RevokeAPIKey(ctxAt(10), v.ID, reissued.KeyID)
			require.NoError(t, err)
			key, ok := after.FindAPIKey(reissued.KeyID)
			require.True(t, ok)
			assert.Equal(t, models.KeyStatusRevoked, key.Status)
		})
	})
}

func TestCompliance(t *testing.T) {
	svc := newService(t)
	v, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme"})
	require.NoError(t, err)
	reqID := v.Requirements[0].ID

	t.Run("complete stamps CompletedAt from the request clock", func(t *testing.T) {
		after, err := svc.SetRequirementField(ctxAt(1), v.ID, reqID, "status", "complete")
		require.NoError(t, err)

		updated, ok := after.FindRequirement(reqID)
		require.True(t, ok)
		require.NotNil(t, updated.CompletedAt)
		assert.Equal(t, baseTime.Add(time.Minute), *updated.CompletedAt)
	})

	t.Run("invalid update has zero side effects", func(t *testing.T) {
		before, err := svc.Get(ctxAt(2), v.ID)
		require.NoError(t, err)

		_, err = svc.SetRequirementField(ctxAt(3), v.ID, reqID, "status", "done")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		after, err := svc.Get(ctxAt(4), v.ID)
		require.NoError(t, err)
		assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
		assert.Len(t, after.AuditLog, len(before.AuditLog))
	})

	t.Run("evidence lifecycle", func(t *testing.T) {
		after, err := svc.AttachEvidence(ctxAt(5), v.ID, reqID, "https://evidence.test/report")
		require.NoError(t, err)
		updated, _ := after.FindRequirement(reqID)
		assert.Equal(t, []string{"https://evidence.test/report"}, updated.Evidence)

		after, err = svc.RemoveEvidence(ctxAt(6), v.ID, reqID, "https://evidence.test/report")
		require.NoError(t, err)
		updated, _ = after.FindRequirement(reqID)
		assert.Empty(t, updated.Evidence)

		_, err = svc.RemoveEvidence(ctxAt(7), v.ID, reqID, "gone")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("activation blocking tracks required requirements only", func(t *testing.T) {
		fresh := newService(t)
		created, err := fresh.Create(ctxAt(0), service.CreateVendorRequest{Name: "Beta"})
		require.NoError(t, err)
		assert.True(t, created.ActivationBlocking)

		var after *models.Vendor
		for _, r := range created.Requirements {
			if r.Required {
				after, err = fresh.SetRequirementField(ctxAt(1), created.ID, r.ID, "status", "complete")
				require.NoError(t, err)
			}
		}
		assert.False(t, after.ActivationBlocking)
	})

	t.Run("add requirement", func(t *testing.T) {
		after, err := svc.AddRequirement(ctxAt(8), v.ID, "Pen test", true)
		require.NoError(t, err)
		assert.Len(t, after.Requirements, 5)
		assert.Equal(t, models.ActionRequirementUpdated, after.AuditLog[len(after.AuditLog)-1].Action)
	})
}

func TestAuditTrail(t *testing.T) {
	svc := newService(t)
	v := createActiveVendor(t, svc)

	trail, err := svc.Trail(ctxAt(10), v.ID)
	require.NoError(t, err)
	// create, activate, two uploads: four mutations, four entries.
	require.Len(t, trail, 4)

	assert.Equal(t, models.ActionDocumentUploaded, trail[0].Action)
	assert.Equal(t, models.ActionVendorCreated, trail[len(trail)-1].Action)

	for i := 1; i < len(trail); i++ {
		assert.False(t, trail[i-1].Timestamp.Before(trail[i].Timestamp),
			"trail must be newest-first")
	}
}

func TestCheckDuplicate(t *testing.T) {
	svc := newService(t)
	_, err := svc.Create(ctxAt(0), service.CreateVendorRequest{Name: "Acme Logistics", ContactEmail: "jo@acme.test"})
	require.NoError(t, err)

	t.Run("matches name case-insensitively", func(t *testing.T) {
		result, err := svc.CheckDuplicate(ctxAt(1), "ACME LOGISTICS", "")
		require.NoError(t, err)
		assert.True(t, result.IsDuplicate)
		require.Len(t, result.Matches, 1)
	})

	t.Run("matches email case-insensitively", func(t *testing.T) {
		result, err := svc.CheckDuplicate(ctxAt(2), "", "JO@ACME.TEST")
		require.NoError(t, err)
		assert.True(t, result.IsDuplicate)
	})

	t.Run("no match", func(t *testing.T) {
		result, err := svc.CheckDuplicate(ctxAt(3), "Other Corp", "")
		require.NoError(t, err)
		assert.False(t, result.IsDuplicate)
		assert.Empty(t, result.Matches)
	})

	t.Run("requires at least one of name or email", func(t *testing.T) {
		_, err := svc.CheckDuplicate(ctxAt(4), "  ", "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestNotFoundAndInvalidIDs(t *testing.T) {
	svc := newService(t)

	_, err := svc.Get(ctxAt(0), id.NewVendorID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = svc.Get(ctxAt(0), id.VendorID{})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

	_, err = svc.Activate(ctxAt(0), id.NewVendorID())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
