package auth

import (
	"chat-relay/domain"
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RolesKey  contextKey = "roles"
)

// TokenFromRequest reads the "Bearer <token>" Authorization header, falling
// back to the token query parameter used by browser websocket handshakes.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// Authenticate validates the request token and returns a context carrying the identity.
func (m *TokenManager) Authenticate(r *http.Request) (context.Context, error) {
	claims, err := m.ValidateToken(TokenFromRequest(r))
	if err != nil {
		return nil, err
	}
	ctx := context.WithValue(r.Context(), UserIDKey, domain.UserID(claims.UserID))
	return context.WithValue(ctx, RolesKey, claims.Roles), nil
}

// UserIDFromContext returns the identity injected by Authenticate.
func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	userID, ok := ctx.Value(UserIDKey).(domain.UserID)
	return userID, ok && !userID.IsZero()
}
