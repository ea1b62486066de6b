package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/todolist/pkg/jwtx"
	"github.com/aussiebroadwan/todolist/pkg/slogx"
)

// SessionResolver maps an opaque session cookie to an account id.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

// AuthnConfig configures AuthnMiddleware. Either source may be nil.
type AuthnConfig struct {
	Verifier   jwtx.Verifier
	Sessions   SessionResolver
	CookieName string
}

// AuthnMiddleware accepts a bearer access token or a session cookie and puts
// the account id on the context. A request with neither gets 401.
//
// A bearer header that fails verification is rejected outright rather than
// falling back to the cookie.
func AuthnMiddleware(cfg AuthnConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			if authz := r.Header.Get("Authorization"); authz != "" && cfg.Verifier != nil {
				raw, ok := strings.CutPrefix(authz, "Bearer ")
				if !ok || strings.TrimSpace(raw) == "" {
					writeUnauthorized(w, `Bearer error="invalid_request"`, "malformed authorization header")
					return
				}

				claims, err := cfg.Verifier.Verify(strings.TrimSpace(raw))
				if err != nil {
					log.Warn("bearer token rejected", "error", err)
					writeUnauthorized(w, `Bearer error="invalid_token"`, "token verification failed")
					return
				}

				ctx = WithUserID(ctx, claims.Subject, AuthMethodBearer)
				next.ServeHTTP(w, r.WithContext(slogx.With(ctx, "user_id", claims.Subject)))
				return
			}

			if cfg.Sessions != nil && cfg.CookieName != "" {
				if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
					userID, err := cfg.Sessions.ResolveSession(ctx, cookie.Value)
					if err == nil && userID != "" {
						ctx = WithUserID(ctx, userID, AuthMethodSession)
						next.ServeHTTP(w, r.WithContext(slogx.With(ctx, "user_id", userID)))
						return
					}
					log.Debug("session cookie rejected", "error", err)
				}
			}

			writeUnauthorized(w, `Bearer realm="todolist"`, "authentication credentials were not provided")
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, challenge, desc string) {
	w.Header().Set("WWW-Authenticate", challenge)
	WriteError(w, http.StatusUnauthorized, "not_authenticated", desc)
}
