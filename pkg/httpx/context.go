package httpx

import "context"

type ctxKey string

const (
	ctxKeyUserID     ctxKey = "user_id"
	ctxKeyAuthMethod ctxKey = "auth_method"
)

// Authentication methods recorded on the request context.
const (
	AuthMethodSession = "session"
	AuthMethodBearer  = "bearer"
)

// WithUserID returns ctx carrying the authenticated account id.
func WithUserID(ctx context.Context, userID, method string) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, userID)
	return context.WithValue(ctx, ctxKeyAuthMethod, method)
}

// UserID returns the authenticated account id, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyUserID).(string)
	return id
}

// AuthMethod returns how the request was authenticated.
func AuthMethod(ctx context.Context) string {
	m, _ := ctx.Value(ctxKeyAuthMethod).(string)
	return m
}
