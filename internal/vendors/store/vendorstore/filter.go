package vendor

import (
	"strings"

	"vendra/internal/vendors/models"
)

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Status    models.VendorStatus
	Readiness models.Readiness
	// Search matches case-insensitively against vendor name and contact
	// email as a substring.
	Search string
}

func (f Filter) matches(v *models.Vendor) bool {
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	if f.Readiness != "" && v.Readiness != f.Readiness {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(v.Name), q) &&
			!strings.Contains(strings.ToLower(v.ContactEmail), q) {
			return false
		}
	}
	return true
}
