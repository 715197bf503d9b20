// Package service is the vendor directory: the single entry point external
// callers use to read and mutate vendor records. It composes the lifecycle
// transition rules, the readiness evaluator, the compliance tracker, and
// the credential/membership guard, and writes every mutation through the
// vendor's embedded audit log.
package service

import (
	"context"
	"errors"
	"log/slog"

	"vendra/internal/audit"
	vendormetrics "vendra/internal/vendors/metrics"
	"vendra/internal/vendors/models"
	"vendra/internal/vendors/readiness"
	vendorstore "vendra/internal/vendors/store/vendorstore"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/platform/sentinel"
	"vendra/pkg/requestcontext"
)

// VendorStore is the persistence contract the directory needs. Execute must
// run validate and mutate atomically under a per-vendor lock: if validate
// fails the stored record is untouched, and no two Execute calls on the
// same vendor can both succeed against the same prior state.
type VendorStore interface {
	Create(ctx context.Context, v *models.Vendor) error
	FindByID(ctx context.Context, vendorID id.VendorID) (*models.Vendor, error)
	List(ctx context.Context, filter vendorstore.Filter) ([]*models.Vendor, error)
	FindMatches(ctx context.Context, name, email string) ([]*models.Vendor, error)
	Execute(ctx context.Context, vendorID id.VendorID, validate func(*models.Vendor) error, mutate func(*models.Vendor)) (*models.Vendor, error)
	Count(ctx context.Context) (int, error)
}

// Service orchestrates the vendor lifecycle.
type Service struct {
	vendors   VendorStore
	evaluator readiness.Evaluator
	logger    *slog.Logger
	metrics   *vendormetrics.Metrics
	publisher audit.Publisher
}

// Option configures the Service.
type Option func(s *Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *vendormetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher sets the external audit mirror sink.
func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithEvaluator overrides the readiness evaluation policy (for example a
// non-default document threshold).
func WithEvaluator(e readiness.Evaluator) Option {
	return func(s *Service) { s.evaluator = e }
}

// New constructs the vendor directory service.
func New(vendors VendorStore, opts ...Option) *Service {
	s := &Service{
		vendors:   vendors,
		evaluator: readiness.New(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// actor resolves the identity performing the operation; "system" when the
// call did not come through an authenticated request.
func actor(ctx context.Context) string {
	if a := requestcontext.Actor(ctx); a != "" {
		return a
	}
	return "system"
}

// refresh recomputes every derived field on the record. Called inside every
// Execute mutation so derived state is committed with the mutation that
// caused it, never after.
func (s *Service) refresh(ctx context.Context, v *models.Vendor) {
	s.evaluator.Apply(v, requestcontext.Now(ctx))
	v.ActivationBlocking = activationBlocking(v)
}

// mirror forwards one committed audit entry to the external sink, enriched
// with request correlation metadata. Best-effort: the authoritative entry
// is already inside the committed record.
func (s *Service) mirror(ctx context.Context, vendorID id.VendorID, entry models.AuditEntry) {
	if s.publisher == nil {
		return
	}
	s.publisher.Emit(ctx, audit.Event{
		VendorID:  vendorID,
		Timestamp: entry.Timestamp,
		Actor:     entry.Actor,
		Action:    entry.Action,
		Details:   entry.Details,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
		Device:    requestcontext.Device(ctx),
	})
}

// mirrorLast forwards the newest entry of a just-committed record.
func (s *Service) mirrorLast(ctx context.Context, v *models.Vendor) {
	if len(v.AuditLog) == 0 {
		return
	}
	s.mirror(ctx, v.ID, v.AuditLog[len(v.AuditLog)-1])
}

// wrapVendorErr translates store sentinel errors into domain errors and
// passes already-coded domain errors through untouched.
func wrapVendorErr(err error) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "vendor not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "vendor was modified concurrently")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "vendor store failure")
	}
}

func requireVendorID(vendorID id.VendorID) error {
	if vendorID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "vendor id is required")
	}
	return nil
}
