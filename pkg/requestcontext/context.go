// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Values are set by middleware (or tests) and consumed by services. Keeping
// this package free of net/http lets services import only what they need.
//
// Usage in services (read values):
//
//	account := requestcontext.AccountID(ctx)
//	height, ok := requestcontext.Height(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithAccountID(ctx, account)
//	ctx = requestcontext.WithPrivileged(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithHeight(ctx, 42)
package requestcontext

import (
	"context"
	"time"

	"rollbook/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	accountIDKey   struct{}
	privilegedKey  struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	heightKey      struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyAccountID   = accountIDKey{}
	ContextKeyPrivileged  = privilegedKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyHeight      = heightKey{}
)

// AccountID retrieves the authenticated account from the context.
// Returns the zero value if no signed origin is attached.
func AccountID(ctx context.Context) domain.AccountID {
	if account, ok := ctx.Value(ContextKeyAccountID).(domain.AccountID); ok {
		return account
	}
	return domain.AccountID{}
}

// WithAccountID injects an authenticated account into the context.
func WithAccountID(ctx context.Context, account domain.AccountID) context.Context {
	return context.WithValue(ctx, ContextKeyAccountID, account)
}

// Privileged reports whether the call carries the privileged (root) origin.
func Privileged(ctx context.Context) bool {
	priv, ok := ctx.Value(ContextKeyPrivileged).(bool)
	return ok && priv
}

// WithPrivileged marks the context as a privileged (root) origin.
func WithPrivileged(ctx context.Context) context.Context {
	return context.WithValue(ctx, ContextKeyPrivileged, true)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}

// Height retrieves a pinned chain height from context, if one was injected.
// Services fall back to the ledger sequencer when absent.
func Height(ctx context.Context) (uint64, bool) {
	h, ok := ctx.Value(ContextKeyHeight).(uint64)
	return h, ok
}

// WithHeight pins the chain height for the operation.
// Useful for service unit tests that need deterministic timestamps.
func WithHeight(ctx context.Context, height uint64) context.Context {
	return context.WithValue(ctx, ContextKeyHeight, height)
}
