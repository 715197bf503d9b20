//go:build integration

package vendor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
	"vendra/pkg/testutil/containers"
)

func newCachedStore(t *testing.T) (Store, *containers.RedisContainer) {
	t.Helper()
	rc := containers.NewRedisContainer(t)
	return NewCached(NewInMemory(), rc.Client, time.Minute), rc
}

func TestCached_FindByIDServesSnapshot(t *testing.T) {
	ctx := context.Background()
	store, rc := newCachedStore(t)
	require.NoError(t, rc.FlushAll(ctx))

	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	v, err := models.NewVendor(id.NewVendorID(), "Acme", "", "", false, now)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, v))

	// Create snapshots eagerly; the key must already be present.
	payload, err := rc.Client.Get(ctx, cacheKey(v.ID)).Bytes()
	require.NoError(t, err)
	var cached models.Vendor
	require.NoError(t, json.Unmarshal(payload, &cached))
	assert.Equal(t, v.ID, cached.ID)

	found, err := store.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)
}

func TestCached_ExecuteRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	store, rc := newCachedStore(t)
	require.NoError(t, rc.FlushAll(ctx))

	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	v, err := models.NewVendor(id.NewVendorID(), "Acme", "", "", false, now)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, v))

	_, err = store.Execute(ctx, v.ID,
		func(*models.Vendor) error { return nil },
		func(rec *models.Vendor) { rec.Name = "Acme Logistics" },
	)
	require.NoError(t, err)

	// A read straight after the write observes the committed mutation even
	// when served from the snapshot.
	found, err := store.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Logistics", found.Name)
	assert.Equal(t, int64(1), found.Version)

	payload, err := rc.Client.Get(ctx, cacheKey(v.ID)).Bytes()
	require.NoError(t, err)
	var cached models.Vendor
	require.NoError(t, json.Unmarshal(payload, &cached))
	assert.Equal(t, "Acme Logistics", cached.Name)
}

func TestCached_StaleSnapshotIsServedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	require.NoError(t, rc.FlushAll(ctx))

	inner := NewInMemory()
	store := NewCached(inner, rc.Client, time.Minute)

	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	v, err := models.NewVendor(id.NewVendorID(), "Acme", "", "", false, now)
	require.NoError(t, err)
	require.NoError(t, store.Create(ctx, v))

	// Mutate behind the cache's back.
	_, err = inner.Execute(ctx, v.ID,
		func(*models.Vendor) error { return nil },
		func(rec *models.Vendor) { rec.Name = "Renamed" },
	)
	require.NoError(t, err)

	stale, err := store.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stale.Name, "snapshot reads tolerate staleness")

	cached, ok := store.(*Cached)
	require.True(t, ok)
	require.NoError(t, cached.Invalidate(ctx, v.ID))

	fresh, err := store.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fresh.Name)
}

func TestNewCached_NilClientReturnsInner(t *testing.T) {
	inner := NewInMemory()
	assert.Same(t, inner, NewCached(inner, nil, time.Minute))
}
