// Package access decides whether a principal may perform an operation.
//
// Checks are plain functions over an explicit Principal, composed with All and
// Any, so each route evaluates exactly one policy with unambiguous semantics.
package access

import (
	"personal-blog/models"
)

// Principal is the account bound to the current request, or the anonymous
// principal when UserID is zero.
type Principal struct {
	UserID    uint
	Role      models.UserRole
	SessionID string
}

func Anonymous() Principal {
	return Principal{}
}

func (p Principal) IsAnonymous() bool {
	return p.UserID == 0
}

// Policy returns nil when the principal is allowed and models.ErrForbidden
// (or models.ErrUnauthenticated) otherwise.
type Policy func(p Principal) error

// All allows only when every policy allows. The first denial is returned.
func All(policies ...Policy) Policy {
	return func(p Principal) error {
		for _, policy := range policies {
			if err := policy(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// Any allows when at least one policy allows. With no policies it denies.
func Any(policies ...Policy) Policy {
	return func(p Principal) error {
		err := error(models.ErrForbidden)
		for _, policy := range policies {
			if err = policy(p); err == nil {
				return nil
			}
		}
		return err
	}
}

// Gate knows the distinguished super-admin identity.
type Gate struct {
	superAdminID uint
}

func NewGate(superAdminID uint) *Gate {
	return &Gate{superAdminID: superAdminID}
}

func (g *Gate) IsSuperAdmin(p Principal) bool {
	return g.IsSuperAdminID(p.UserID)
}

// IsSuperAdminID reports whether userID is the super-admin account.
func (g *Gate) IsSuperAdminID(userID uint) bool {
	return userID != 0 && userID == g.superAdminID
}

func (g *Gate) RequireAuthenticated(p Principal) error {
	if p.IsAnonymous() {
		return models.ErrUnauthenticated
	}
	return nil
}

func (g *Gate) RequireRole(p Principal, role models.UserRole) error {
	if p.IsAnonymous() || p.Role != role {
		return models.ErrForbidden
	}
	return nil
}

func (g *Gate) RequireSuperAdmin(p Principal) error {
	if !g.IsSuperAdmin(p) {
		return models.ErrForbidden
	}
	return nil
}

func (g *Gate) Authenticated() Policy {
	return g.RequireAuthenticated
}

func (g *Gate) Role(role models.UserRole) Policy {
	return func(p Principal) error {
		return g.RequireRole(p, role)
	}
}

func (g *Gate) SuperAdmin() Policy {
	return g.RequireSuperAdmin
}

// Owner allows the principal whose id is ownerID.
func (g *Gate) Owner(ownerID uint) Policy {
	return func(p Principal) error {
		if p.IsAnonymous() || p.UserID != ownerID {
			return models.ErrForbidden
		}
		return nil
	}
}

// PostAuthoring guards creating, editing and deleting blog posts: the
// principal must hold the BlogWriter role and be the super-admin.
func (g *Gate) PostAuthoring() Policy {
	return All(g.Role(models.RoleBlogWriter), g.SuperAdmin())
}

// AccountAdmin guards role changes and admin-initiated account removal.
func (g *Gate) AccountAdmin() Policy {
	return g.SuperAdmin()
}

func (g *Gate) ModerateSuggestions() Policy {
	return g.SuperAdmin()
}

func (g *Gate) BulkEmail() Policy {
	return g.SuperAdmin()
}

// Check evaluates policy for p.
func (g *Gate) Check(p Principal, policy Policy) error {
	return policy(p)
}
