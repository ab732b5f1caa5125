package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samueladole/crovio/internal/domain"
)

const (
	subjectKey = "auth_subject"
	roleKey    = "auth_role"
)

// AuthMiddleware validates bearer access tokens and stores the subject.
type AuthMiddleware struct {
	resolver *IdentityResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver *IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := BearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return m.resolver.RejectHeader(err)
	}

	subject, err := m.resolver.Resolve(c.UserContext(), raw)
	if err != nil {
		return err
	}

	c.Locals(subjectKey, subject)
	return c.Next()
}

// SubjectFromContext retrieves the authenticated subject.
func SubjectFromContext(c *fiber.Ctx) (domain.Subject, bool) {
	subject, ok := c.Locals(subjectKey).(domain.Subject)
	return subject, ok && subject != ""
}

// RoleFromContext returns the role loaded by RequireRole, if any.
func RoleFromContext(c *fiber.Ctx) (domain.Role, bool) {
	role, ok := c.Locals(roleKey).(domain.Role)
	return role, ok
}
