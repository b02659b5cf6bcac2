package middleware

import (
	"context"
	"errors"
	"net/http"

	"go-travel-planner/internal/model"
	"go-travel-planner/internal/session"
)

type sessionVerifier interface {
	Verify(token string) (*model.SessionClaims, error)
}

type contextKey string

const sessionClaimsContextKey contextKey = "session_claims"

type AuthMiddleware struct {
	verifier sessionVerifier
	cookies  *session.CookieTransport
}

func NewAuthMiddleware(verifier sessionVerifier, cookies *session.CookieTransport) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, cookies: cookies}
}

// RequireSession rejects requests without a valid session cookie. A cookie
// that fails verification is cleared so the client starts over cleanly.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.cookies.Token(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.cookies.Clear(w, r)
			message := "Invalid session"
			if errors.Is(err, model.ErrTokenExpired) {
				message = "Session expired"
			}
			writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", message)
			return
		}

		ctx := context.WithValue(r.Context(), sessionClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ClaimsFromContext(ctx context.Context) (*model.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsContextKey).(*model.SessionClaims)
	return claims, ok && claims != nil
}

// WithClaims returns a copy of ctx carrying claims, as RequireSession does.
func WithClaims(ctx context.Context, claims *model.SessionClaims) context.Context {
	return context.WithValue(ctx, sessionClaimsContextKey, claims)
}
