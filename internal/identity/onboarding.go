package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	apperrors "authorstore/internal/http/errors"
)

// RoleSetter persists the role a user picks during onboarding.
type RoleSetter interface {
	SetRole(ctx context.Context, email string, role Role) error
}

// Forget drops any cached role for email.
func (t *Tracker) Forget(email string) {
	t.mu.Lock()
	delete(t.roles, email)
	t.mu.Unlock()
}

// OnboardingHandler lets an authenticated user without a role choose one.
func OnboardingHandler(setter RoleSetter, tracker *Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.Header.Get(EmailHeader))
		if email == "" {
			apperrors.Error(w, http.StatusUnauthorized, "not signed in")
			return
		}

		if r.Method != http.MethodPost {
			apperrors.JSON(w, http.StatusOK, map[string]any{
				"email": email,
				"roles": []Role{RolePhotographer, RoleClient},
			})
			return
		}

		var req struct {
			Role Role `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperrors.BadRequestError(w, r, err, "invalid request body")
			return
		}
		if err := setter.SetRole(r.Context(), email, req.Role); err != nil {
			if errors.Is(err, ErrInvalidRole) {
				apperrors.Error(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			apperrors.InternalError(w, r, err, "error saving user role")
			return
		}
		tracker.Forget(email)
		apperrors.JSON(w, http.StatusOK, User{Email: email, Role: req.Role})
	}
}
