package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/portfolioapi/internal/apierr"
	"github.com/2beens/portfolioapi/internal/auth"
	"github.com/2beens/portfolioapi/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const msgNotPrivileged = "Not authorized to access this resource"

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type tokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

type identityResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*auth.Identity, error)
}

// AuthGuard resolves the caller of protected routes and rejects everyone else
type AuthGuard struct {
	tokens       tokenVerifier
	identities   identityResolver
	isPrivileged func(username string) bool
}

func NewAuthGuard(
	tokens tokenVerifier,
	identities identityResolver,
	isPrivileged func(username string) bool,
) *AuthGuard {
	return &AuthGuard{
		tokens:       tokens,
		identities:   identities,
		isPrivileged: isPrivileged,
	}
}

func bearerToken(r *http.Request) string {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (g *AuthGuard) Authenticate() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			token := bearerToken(r)
			if token == "" {
				log.Tracef("[missing token] [auth guard] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-auth-token")
				apierr.Respond(w, r, apierr.Unauthenticated())
				return
			}

			claims, err := g.tokens.Verify(ctx, token)
			if err != nil {
				log.Tracef("[invalid token] [auth guard] unauthorized => %s: %s", r.URL.Path, err)
				span.SetStatus(codes.Error, "invalid-token")
				apierr.Respond(w, r, apierr.Unauthenticated())
				return
			}

			identity, err := g.identities.Resolve(ctx, claims.UserID)
			if err != nil {
				log.Tracef("[unknown user] [auth guard] unauthorized => %s: %s", r.URL.Path, err)
				span.SetStatus(codes.Error, "identity-not-resolved")
				span.RecordError(err)
				apierr.Respond(w, r, apierr.Unauthenticated())
				return
			}

			span.SetStatus(codes.Ok, "ok")
			ctx = auth.WithClaims(auth.WithIdentity(r.Context(), identity), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePrivileged lets only privileged callers through. It reads the identity
// stored by Authenticate and must be chained after it.
func (g *AuthGuard) RequirePrivileged() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				apierr.Respond(w, r, apierr.Unauthenticated())
				return
			}

			if g.isPrivileged != nil && !g.isPrivileged(identity.Username) {
				log.Warnf("user [%s] from %s tried to access privileged route %s", identity.Username, r.RemoteAddr, r.URL.Path)
				apierr.Respond(w, r, apierr.Forbidden(msgNotPrivileged))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
