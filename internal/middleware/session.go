package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "lisquant_session"

// Session is the authenticated identity attached to a request.
type Session struct {
	UserID   int64
	Username string
}

// TokenVerifier validates a session token and returns the identity it carries.
type TokenVerifier interface {
	VerifySession(token string) (*Session, error)
}

// SessionAuth attaches the session to the request context when a valid
// cookie is present. It never rejects: handlers decide whether a route
// requires authentication, so /check_auth and /analyze can both answer
// unauthenticated requests with structured bodies.
func SessionAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if sess, err := verifier.VerifySession(cookie.Value); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), sessionKey, sess))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext returns the authenticated session, or nil.
func SessionFromContext(ctx context.Context) *Session {
	if sess, ok := ctx.Value(sessionKey).(*Session); ok {
		return sess
	}
	return nil
}

// ContextWithSession is a test helper used by handler tests.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}
