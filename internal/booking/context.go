package booking

import "context"

type contextKey string

const idempotencyKey contextKey = "bookingIdempotencyKey"

// NewContextWithIdempotencyKey marks a create request so that a retry with the
// same key returns the booking created first instead of appending a new one.
func NewContextWithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey, key)
}

func IdempotencyKeyFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(idempotencyKey).(string)

	return key, ok && key != ""
}
