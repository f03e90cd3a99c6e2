package logging

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	queryKey     contextKey = "query"
)

// WithRequestID adds a catalog request ID to the context.
func WithRequestID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// WithQuery adds the search query that spawned a request to the context.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey, query)
}

// GetRequestID retrieves the request ID from the context.
// Returns 0 if not present.
func GetRequestID(ctx context.Context) uint64 {
	if id, ok := ctx.Value(requestIDKey).(uint64); ok {
		return id
	}
	return 0
}

// GetQuery retrieves the search query from the context.
// Returns empty string if not present.
func GetQuery(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey).(string); ok {
		return q
	}
	return ""
}
