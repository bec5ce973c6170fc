package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=middleware_mocks_test.go -package=middleware_test

// MCPSecretHeader guards the /mcp endpoint, which has no user session.
// It also admits /database-setup on a fresh database, where nobody can log in yet.
const MCPSecretHeader = "X-MCP-Secret"

type loginChecker interface {
	UserID(ctx context.Context, token string) (string, error)
}

type AuthMiddlewareHandler struct {
	mcpSecret    string
	loginChecker loginChecker
	allowedPaths map[string]bool
	// secretPaths take either the secret header or a user session
	secretPaths map[string]bool
}

func NewAuthMiddlewareHandler(
	mcpSecret string,
	loginChecker loginChecker,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		mcpSecret:    mcpSecret,
		loginChecker: loginChecker,
		allowedPaths: map[string]bool{
			"/": true,

			// login-logout:
			"/a/login":    true,
			"/a/register": true,
			"/a/logout":   true,

			// schema banner works before anyone can log in
			"/database-status": true,

			"/plans/catalog": true,
		},
		secretPaths: map[string]bool{
			"/database-setup": true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if h.secretPaths[r.URL.Path] && h.validSecret(r) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if strings.HasPrefix(r.URL.Path, "/mcp") {
				if !h.validSecret(r) {
					log.Warnf("[auth middleware] mcp request with invalid secret => %s", r.URL.Path)
					http.Error(w, "no can do", http.StatusUnauthorized)
					span.SetStatus(codes.Error, "invalid-mcp-secret")
					return
				}
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			// a non-standard req. header is set, and thus - browser makes a preflight/OPTIONS request:
			//	https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS#preflighted_requests
			authToken := r.Header.Get(auth.TokenHeader)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.loginChecker.UserID(ctx, authToken)
			switch {
			case errors.Is(err, auth.ErrNotLoggedIn), errors.Is(err, auth.ErrSessionExpired):
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			case err != nil:
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithUserID(r.Context(), userID)))
		})
	}
}

func (h *AuthMiddlewareHandler) validSecret(r *http.Request) bool {
	secret := r.Header.Get(MCPSecretHeader)
	return h.mcpSecret != "" && subtle.ConstantTimeCompare([]byte(secret), []byte(h.mcpSecret)) == 1
}
