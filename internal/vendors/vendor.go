package vendor

import (
	"log/slog"

	"vendra/internal/vendors/handler"
	"vendra/internal/vendors/service"
)

// Service exposes vendor lifecycle orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the vendor service.
type Handler = handler.Handler

// NewService constructs the vendor service with required dependencies.
func NewService(vendors service.VendorStore, opts ...service.Option) *Service {
	return service.New(vendors, opts...)
}

// NewHandler constructs an HTTP handler for admin-facing vendor routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
