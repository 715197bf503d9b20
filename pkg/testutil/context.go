package testutil

import (
	"context"
	"time"

	"vendra/pkg/requestcontext"
)

// AuthedContext returns a context carrying an authenticated actor, as the
// auth middleware would set it for a real request.
func AuthedContext(actor string) context.Context {
	return requestcontext.WithActor(context.Background(), actor)
}

// FixedClockContext returns a context carrying both an actor and a pinned
// request time, so service tests observe deterministic timestamps.
func FixedClockContext(actor string, now time.Time) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actor)
	return requestcontext.WithTime(ctx, now)
}
