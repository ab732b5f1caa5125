package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/samueladole/crovio/internal/domain"
)

// CredentialStore finds the credential behind a login identifier. It returns
// (nil, nil) when no account matches.
type CredentialStore interface {
	FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.Credential, error)
}

// RoleStore returns the current role of a subject, or an error wrapping
// pgx.ErrNoRows when the account no longer exists.
type RoleStore interface {
	RoleOf(ctx context.Context, subject domain.Subject) (domain.Role, error)
}

// CurrentRole looks the subject's role up fresh. A missing account is
// ErrUnauthenticated; any other failure is Unavailable.
func CurrentRole(ctx context.Context, roles RoleStore, subject domain.Subject) (domain.Role, error) {
	role, err := roles.RoleOf(ctx, subject)
	if err == nil {
		return role, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUnauthenticated
	}
	if KindOf(err) == KindUnavailable {
		return "", err
	}
	return "", Unavailable(err)
}

// RequireRole admits the authenticated subject only if its stored role is in
// allowed. Must run after AuthMiddleware.Handle.
func RequireRole(roles RoleStore, allowed ...domain.Role) fiber.Handler {
	allowedSet := NewRoleSet(allowed...)

	return func(c *fiber.Ctx) error {
		subject, ok := SubjectFromContext(c)
		if !ok {
			return ErrUnauthenticated
		}
		role, err := CurrentRole(c.UserContext(), roles, subject)
		if err != nil {
			return err
		}
		if !HasRole(role, allowedSet) {
			return ErrForbidden
		}
		c.Locals(roleKey, role)
		return c.Next()
	}
}
