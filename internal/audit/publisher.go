package audit

import (
	"context"
	"log/slog"
)

// Publisher delivers audit event mirrors to an external sink.
//
// Mirroring is best-effort by contract: the authoritative append already
// committed inside the vendor record's transaction, so a sink failure must
// never fail the business operation. Implementations log and drop.
type Publisher interface {
	Emit(ctx context.Context, event Event)
}

// LogPublisher writes audit events to structured logs. It is the default
// sink and always safe to wire.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) {
	p.logger.InfoContext(ctx, "audit event",
		"vendor_id", event.VendorID,
		"actor", event.Actor,
		"action", event.Action,
		"request_id", event.RequestID,
		"timestamp", event.Timestamp,
	)
}

// Fanout delivers each event to every configured sink in order.
type Fanout []Publisher

func (f Fanout) Emit(ctx context.Context, event Event) {
	for _, p := range f {
		p.Emit(ctx, event)
	}
}
