// Package requestctx carries the per-request correlation id through
// context so handlers can echo it in response envelopes and logs.
package requestctx

import "context"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the id set by the request id middleware, or an
// empty string for contexts outside the HTTP pipeline.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
