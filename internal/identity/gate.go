package identity

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"

	apperrors "authorstore/internal/http/errors"
	"authorstore/internal/metrics"
)

const (
	// EmailHeader is set by the identity proxy on authenticated requests.
	EmailHeader = "X-Auth-Email"
	// OnboardingPath is where users without a usable role are sent.
	OnboardingPath = "/onboarding"
)

// User is the authenticated caller.
type User struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type ctxKey struct{}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func FromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(ctxKey{}).(User)
	return u, ok
}

// Resolver answers role lookups; *Tracker and Directory implementations both
// satisfy it.
type Resolver interface {
	Role(ctx context.Context, email string) (Role, error)
}

// Gate requires an authenticated email with a valid role. Missing, invalid or
// unresolvable roles redirect to onboarding.
func Gate(resolver Resolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.TrimSpace(r.Header.Get(EmailHeader))
			if email == "" {
				apperrors.Error(w, http.StatusUnauthorized, "not signed in")
				return
			}

			role, err := resolver.Role(r.Context(), email)
			if err != nil {
				if !errors.Is(err, ErrNoRole) && !errors.Is(err, ErrInvalidRole) {
					metrics.OperationErrorsTotal.WithLabelValues("resolve_role").Inc()
					logger.Error("error fetching user role", zap.String("email", email), zap.Error(err))
				}
				http.Redirect(w, r, OnboardingPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), User{Email: email, Role: role})))
		})
	}
}

// RequireRole lets through only users holding one of roles. It must run
// after Gate.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := FromContext(r.Context())
			if !ok || !slices.Contains(roles, u.Role) {
				apperrors.Error(w, http.StatusForbidden, ErrInvalidRole.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// HandleMe returns the caller resolved by Gate.
func HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := FromContext(r.Context())
	if !ok {
		apperrors.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}
	apperrors.JSON(w, http.StatusOK, u)
}
