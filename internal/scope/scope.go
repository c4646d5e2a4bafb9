package scope

import (
	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/pkg/auth"
	"github.com/mrosales/partsledger-backend/pkg/enums"
)

// Scope is the set of organizations a principal may read or write. A super
// administrator resolves to the wildcard scope; everyone else resolves to the
// singleton set holding their home organization.
type Scope struct {
	wildcard bool
	orgIDs   map[uuid.UUID]struct{}
}

// Resolve computes the scope for a principal from its role alone. It never
// touches storage; the claims were validated upstream.
func Resolve(principal auth.Principal) Scope {
	if principal.Role == enums.UserRoleSuperAdmin {
		return Scope{wildcard: true}
	}
	return Scope{orgIDs: map[uuid.UUID]struct{}{principal.OrganizationID: {}}}
}

// Wildcard reports whether the scope spans every organization.
func (s Scope) Wildcard() bool {
	return s.wildcard
}

// Contains reports whether the organization falls inside the scope.
func (s Scope) Contains(orgID uuid.UUID) bool {
	if s.wildcard {
		return true
	}
	_, ok := s.orgIDs[orgID]
	return ok
}

// OrganizationIDs returns the explicit members of a non-wildcard scope.
func (s Scope) OrganizationIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.orgIDs))
	for id := range s.orgIDs {
		ids = append(ids, id)
	}
	return ids
}
