package audit

import (
	"time"

	id "vendra/pkg/domain"
)

// Event mirrors one vendor audit entry to external sinks. The embedded
// per-vendor audit log is the source of truth; events exist so downstream
// consumers (SIEM, compliance warehouse) can follow along without reading
// vendor records. Keep it transport-agnostic so sinks can fan out.
type Event struct {
	VendorID  id.VendorID       `json:"vendor_id"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     string            `json:"actor"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details,omitempty"`

	// Request correlation, populated from request context when available.
	RequestID string `json:"request_id,omitempty"`
	ClientIP  string `json:"client_ip,omitempty"`
	Device    string `json:"device,omitempty"`
}
