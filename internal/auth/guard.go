package auth

import "github.com/samueladole/crovio/internal/domain"

// RoleSet is an allow-list of roles.
type RoleSet map[domain.Role]struct{}

// NewRoleSet builds a set from roles.
func NewRoleSet(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// CanMutate reports whether subject may update or delete a resource owned by
// owner. Ownership is strict: there is no role-based bypass.
func CanMutate(subject, owner domain.Subject) bool {
	return subject != "" && subject == owner
}

// HasRole reports whether role is in required. An empty set admits nobody.
func HasRole(role domain.Role, required RoleSet) bool {
	if !role.Valid() {
		return false
	}
	_, ok := required[role]
	return ok
}

// AuthorizeMutation returns ErrForbidden unless subject owns resource.
func AuthorizeMutation(subject domain.Subject, resource domain.OwnedResource) error {
	if !CanMutate(subject, resource.Owner) {
		return ErrForbidden
	}
	return nil
}
