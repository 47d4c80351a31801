package domain

import "context"

type CtxKey string

const (
	KeyRequestID CtxKey = "RequestID"
	KeyClientIP  CtxKey = "ClientIP"
	KeyUserAgent CtxKey = "UserAgent"
)

// ContextString returns the string stored under key, or "".
func ContextString(ctx context.Context, key CtxKey) string {
	v, _ := ctx.Value(key).(string)
	return v
}
