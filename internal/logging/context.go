package logging

import "context"

type requestIDKey struct{}

// WithRequestID tags ctx with the ID of the request running under it so that
// trace entries from deeper layers can be correlated.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the ID stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
