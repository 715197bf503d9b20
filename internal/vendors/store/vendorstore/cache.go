package vendor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
)

// Store is the full vendor persistence contract, implemented by InMemory,
// Postgres, and the caching decorator.
type Store interface {
	Create(ctx context.Context, v *models.Vendor) error
	FindByID(ctx context.Context, vendorID id.VendorID) (*models.Vendor, error)
	List(ctx context.Context, filter Filter) ([]*models.Vendor, error)
	FindMatches(ctx context.Context, name, email string) ([]*models.Vendor, error)
	Execute(ctx context.Context, vendorID id.VendorID, validate func(*models.Vendor) error, mutate func(*models.Vendor)) (*models.Vendor, error)
	Count(ctx context.Context) (int, error)
}

// Cached decorates a Store with a Redis read-side snapshot cache for
// FindByID. Reads never take the writer path; a snapshot at most TTL stale
// is acceptable for queries, while Execute always goes to the backing store
// and refreshes the snapshot with its committed result.
type Cached struct {
	Store

	client *redis.Client
	ttl    time.Duration
}

// NewCached wraps inner with a snapshot cache. A nil client disables
// caching and returns inner unchanged.
func NewCached(inner Store, client *redis.Client, ttl time.Duration) Store {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cached{Store: inner, client: client, ttl: ttl}
}

func cacheKey(vendorID id.VendorID) string {
	return "vendra:vendor:" + vendorID.String()
}

func (c *Cached) FindByID(ctx context.Context, vendorID id.VendorID) (*models.Vendor, error) {
	payload, err := c.client.Get(ctx, cacheKey(vendorID)).Bytes()
	if err == nil {
		var v models.Vendor
		if err := json.Unmarshal(payload, &v); err == nil {
			return &v, nil
		}
		// Corrupt snapshot: fall through to the backing store.
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not fail reads; serve from the store.
	}

	v, err := c.Store.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	c.snapshot(ctx, v)
	return v, nil
}

func (c *Cached) Create(ctx context.Context, v *models.Vendor) error {
	if err := c.Store.Create(ctx, v); err != nil {
		return err
	}
	c.snapshot(ctx, v)
	return nil
}

func (c *Cached) Execute(
	ctx context.Context,
	vendorID id.VendorID,
	validate func(*models.Vendor) error,
	mutate func(*models.Vendor),
) (*models.Vendor, error) {
	v, err := c.Store.Execute(ctx, vendorID, validate, mutate)
	if err != nil {
		return nil, err
	}
	c.snapshot(ctx, v)
	return v, nil
}

// snapshot best-effort writes the committed record to Redis. Cache failures
// are invisible to callers; the backing store is the source of truth.
func (c *Cached) snapshot(ctx context.Context, v *models.Vendor) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey(v.ID), payload, c.ttl).Err()
}

// Invalidate drops the snapshot for a vendor.
func (c *Cached) Invalidate(ctx context.Context, vendorID id.VendorID) error {
	if err := c.client.Del(ctx, cacheKey(vendorID)).Err(); err != nil {
		return fmt.Errorf("invalidate vendor snapshot: %w", err)
	}
	return nil
}
