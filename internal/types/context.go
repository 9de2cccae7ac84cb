package types

import "context"

type contextKey string

const (
	ctxKeyTenantID  contextKey = "tenant_id"
	ctxKeyUserID    contextKey = "user_id"
	ctxKeyRequestID contextKey = "request_id"
)

// WithTenantID annotates ctx with the current tenant.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, ctxKeyTenantID, tenantID)
}

// WithUserID annotates ctx with the acting user, replacing the
// process-wide "current user" global the legacy system relied on for
// audit comments. Every poster takes this explicitly via ctx or a
// userID parameter rather than reading a package-level variable.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID, userID)
}

// WithRequestID annotates ctx with a caller-supplied correlation id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

func TenantIDFromContext(ctx context.Context) string  { return stringFromContext(ctx, ctxKeyTenantID) }
func UserIDFromContext(ctx context.Context) string    { return stringFromContext(ctx, ctxKeyUserID) }
func RequestIDFromContext(ctx context.Context) string { return stringFromContext(ctx, ctxKeyRequestID) }

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}
