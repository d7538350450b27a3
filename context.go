package goIdentity

import "context"

type contextKey string

const clientIPKey contextKey = "goidentity-client-ip"

// WithClientIP attaches the caller's network address to ctx so audit events
// can record it. Transport adapters should call this before invoking engine
// operations.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if ip, ok := ctx.Value(clientIPKey).(string); ok {
		return ip
	}
	return ""
}
