package middleware

import "context"

type contextKey string

const (
	ctxEmail contextKey = "user_email"
	ctxName  contextKey = "user_name"
	ctxAdmin contextKey = "is_admin"
)

func EmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		return v
	}
	return ""
}

func NameFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxName).(string); ok {
		return v
	}
	return ""
}

func AdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxAdmin).(bool); ok {
		return v
	}
	return false
}

// WithIdentity injects the resolved identity into the context.
func WithIdentity(ctx context.Context, email, name string, admin bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxEmail, email)
	ctx = context.WithValue(ctx, ctxName, name)
	return context.WithValue(ctx, ctxAdmin, admin)
}
