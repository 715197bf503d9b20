package vendor

import (
	"context"
	"sort"
	"strings"
	"sync"

	"vendra/internal/vendors/models"
	id "vendra/pkg/domain"
	"vendra/pkg/platform/sentinel"
)

// InMemory is the in-memory vendor store used by unit tests and local
// development. The mutex gives the single-writer-per-record guarantee: two
// concurrent Execute calls on the same vendor serialize, so both cannot
// succeed against the same prior state.
type InMemory struct {
	mu      sync.RWMutex
	vendors map[id.VendorID]*models.Vendor
}

func NewInMemory() *InMemory {
	return &InMemory{vendors: make(map[id.VendorID]*models.Vendor)}
}

// Create stores a new vendor record.
func (s *InMemory) Create(_ context.Context, v *models.Vendor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vendors[v.ID]; exists {
		return sentinel.ErrConflict
	}
	s.vendors[v.ID] = v.Clone()
	return nil
}

// FindByID returns a deep copy of the vendor, or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, vendorID id.VendorID) (*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, exists := s.vendors[vendorID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return v.Clone(), nil
}

// List returns vendors matching the filter, newest first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Vendor
	for _, v := range s.vendors {
		if filter.matches(v) {
			out = append(out, v.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// FindMatches returns vendors whose name or contact email equals the given
// values case-insensitively. Either argument may be empty.
func (s *InMemory) FindMatches(_ context.Context, name, email string) ([]*models.Vendor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name = strings.ToLower(strings.TrimSpace(name))
	email = strings.ToLower(strings.TrimSpace(email))

	var out []*models.Vendor
	for _, v := range s.vendors {
		if name != "" && strings.ToLower(v.Name) == name {
			out = append(out, v.Clone())
			continue
		}
		if email != "" && strings.ToLower(v.ContactEmail) == email {
			out = append(out, v.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// Execute runs an atomic validate-then-mutate against one vendor while
// holding the store lock. If validate fails, the stored record is untouched
// and the validation error is returned as-is. On success the mutated record
// (with a bumped version) replaces the stored one and a deep copy is
// returned.
func (s *InMemory) Execute(
	_ context.Context,
	vendorID id.VendorID,
	validate func(*models.Vendor) error,
	mutate func(*models.Vendor),
) (*models.Vendor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.vendors[vendorID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}

	// Validate and mutate a clone so a failed validation (or a panicking
	// mutation) can never leave a half-applied record behind.
	working := current.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	working.Version++

	s.vendors[vendorID] = working
	return working.Clone(), nil
}

// Count returns the number of stored vendors.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vendors), nil
}
