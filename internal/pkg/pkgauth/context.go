package pkgauth

import "context"

type userIDContextKey struct{}

// SetUserID stores the authenticated user id into the context.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// GetUserID returns the authenticated user id, or "" when the request was not
// authenticated.
func GetUserID(ctx context.Context) string {
	id, ok := ctx.Value(userIDContextKey{}).(string)
	if !ok {
		return ""
	}
	return id
}
