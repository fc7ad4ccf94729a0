package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sation/internal/auth"
	"sation/internal/httputil"
)

// AuthOptions configures AuthMiddleware.
type AuthOptions struct {
	// PublicPrefixes are path prefixes served without a token
	PublicPrefixes []string
	// DevUserID, when set, is used for requests that carry no token (dev only)
	DevUserID string
}

// AuthMiddleware verifies the bearer token and stores its subject as the request's owner id.
// EventSource clients cannot set headers, so the token may also arrive as ?access_token=.
func AuthMiddleware(verifier auth.JWTVerifier, opts AuthOptions, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r.URL.Path, opts.PublicPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			token, err := bearerToken(r)
			if err != nil {
				if opts.DevUserID != "" {
					next.ServeHTTP(w, httputil.WithUserID(r, opts.DevUserID))
					return
				}
				httputil.RespondError(w, http.StatusUnauthorized, err.Error())
				return
			}

			if verifier == nil {
				httputil.RespondError(w, http.StatusUnauthorized, "token verification is not configured")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("rejected token", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, claims.GetUserID()))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", errors.New("authorization header must be 'Bearer <token>'")
		}
		return strings.TrimSpace(token), nil
	}
	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, nil
	}
	return "", errors.New("missing authorization token")
}

func isPublic(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
