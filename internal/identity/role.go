// Package identity resolves the marketplace role of a signed-in user. The
// upstream identity proxy authenticates requests; this package only decides
// what an authenticated email may see.
package identity

import (
	"context"
	"errors"
)

var (
	// ErrNoRole means the user has no role record yet.
	ErrNoRole      = errors.New("user has no role")
	ErrInvalidRole = errors.New("invalid user role")
)

type Role string

const (
	RolePhotographer Role = "photographer"
	RoleClient       Role = "client"
)

func (r Role) Valid() bool {
	return r == RolePhotographer || r == RoleClient
}

// Directory looks up the stored role for an email.
type Directory interface {
	Role(ctx context.Context, email string) (Role, error)
}
