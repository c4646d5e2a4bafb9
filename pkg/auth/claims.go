package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/pkg/enums"
)

// Principal is the validated identity the auth provider hands the core on
// every call: who is acting, on behalf of which organization, with what role.
// The core trusts these claims and never re-derives them.
type Principal struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           enums.UserRole
}

// AccessTokenClaims represents the typed JWT issued by the auth provider.
type AccessTokenClaims struct {
	UserID         uuid.UUID      `json:"user_id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	Role           enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the principal used by the scope resolver.
func (c *AccessTokenClaims) Principal() Principal {
	return Principal{
		UserID:         c.UserID,
		OrganizationID: c.OrganizationID,
		Role:           c.Role,
	}
}
