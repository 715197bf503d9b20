package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "vendra/pkg/domain"
)

func TestAppendAudit(t *testing.T) {
	v, err := NewVendor(id.NewVendorID(), "Acme", "", "", false, fixedNow)
	require.NoError(t, err)

	v.AppendAudit(fixedNow, "ops", ActionVendorCreated, map[string]string{"status": "draft"})
	v.AppendAudit(fixedNow.Add(time.Minute), "ops", ActionDocumentUploaded, nil)

	require.Len(t, v.AuditLog, 2)
	assert.Equal(t, 0, v.AuditLog[0].Seq)
	assert.Equal(t, 1, v.AuditLog[1].Seq)
	assert.Equal(t, "ops", v.AuditLog[0].Actor)
	assert.Equal(t, ActionVendorCreated, v.AuditLog[0].Action)
	assert.Equal(t, "draft", v.AuditLog[0].Details["status"])
}

func TestTrail(t *testing.T) {
	t.Run("newest first", func(t *testing.T) {
		v, err := NewVendor(id.NewVendorID(), "Acme", "", "", false, fixedNow)
		require.NoError(t, err)

		v.AppendAudit(fixedNow, "ops", ActionVendorCreated, nil)
		v.AppendAudit(fixedNow.Add(time.Minute), "ops", ActionOnboardingCompleted, nil)
		v.AppendAudit(fixedNow.Add(2*time.Minute), "ops", ActionVendorActivated, nil)

		trail := v.Trail()
		require.Len(t, trail, 3)
		assert.Equal(t, ActionVendorActivated, trail[0].Action)
		assert.Equal(t, ActionOnboardingCompleted, trail[1].Action)
		assert.Equal(t, ActionVendorCreated, trail[2].Action)
	})

	t.Run("timestamp ties broken by insertion order, later first", func(t *testing.T) {
		v, err := NewVendor(id.NewVendorID(), "Acme", "", "", false, fixedNow)
		require.NoError(t, err)

		// Two entries written within one request share one clock reading.
		v.AppendAudit(fixedNow, "ops", ActionVendorCreated, nil)
		v.AppendAudit(fixedNow, "ops", ActionDocumentUploaded, nil)
		v.AppendAudit(fixedNow, "ops", ActionMemberInvited, nil)

		trail := v.Trail()
		require.Len(t, trail, 3)
		assert.Equal(t, ActionMemberInvited, trail[0].Action)
		assert.Equal(t, ActionDocumentUploaded, trail[1].Action)
		assert.Equal(t, ActionVendorCreated, trail[2].Action)
	})

	t.Run("does not mutate the stored log", func(t *testing.T) {
		v, err := NewVendor(id.NewVendorID(), "Acme", "", "", false, fixedNow)
		require.NoError(t, err)

		v.AppendAudit(fixedNow, "ops", ActionVendorCreated, nil)
		v.AppendAudit(fixedNow.Add(time.Minute), "ops", ActionVendorActivated, nil)

		_ = v.Trail()
		assert.Equal(t, ActionVendorCreated, v.AuditLog[0].Action)
		assert.Equal(t, 0, v.AuditLog[0].Seq)
	})
}
