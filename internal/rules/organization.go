package rules

import (
	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

// MaxHierarchyDepth bounds the organization tree: distributor or manufacturer
// roots, customers beneath the distributor, suppliers beneath a customer or
// the distributor.
const MaxHierarchyDepth = 3

// OrganizationLookup resolves an organization by id. Callers back it with a
// preloaded snapshot so the rule checks stay side-effect free.
type OrganizationLookup func(id uuid.UUID) (*models.Organization, bool)

// OrganizationInput carries the fields checked when creating or dry-validating
// an organization.
type OrganizationInput struct {
	Name                 string
	Type                 enums.OrganizationType
	ParentOrganizationID *uuid.UUID
}

// ValidateOrganization runs every organization business rule and collects the
// violations. activeSameType is the number of active organizations already
// holding input.Type. selfID is non-nil when re-validating an existing row so
// the ancestor walk can detect a cycle through it.
func ValidateOrganization(
	input OrganizationInput,
	selfID *uuid.UUID,
	activeSameType int,
	lookup OrganizationLookup,
) []pkgerrors.FieldError {
	var errs []pkgerrors.FieldError

	if input.Name == "" {
		errs = append(errs, pkgerrors.FieldError{Field: "name", Message: "name is required"})
	}

	if !input.Type.IsValid() {
		errs = append(errs, pkgerrors.FieldError{Field: "type", Message: "unknown organization type"})
		return errs
	}

	if input.Type.IsSingleton() && activeSameType > 0 {
		errs = append(errs, pkgerrors.FieldError{
			Field:   "type",
			Message: "an active organization of type " + input.Type.String() + " already exists",
		})
	}

	errs = append(errs, validateOrganizationParent(input, selfID, lookup)...)
	return errs
}

func validateOrganizationParent(
	input OrganizationInput,
	selfID *uuid.UUID,
	lookup OrganizationLookup,
) []pkgerrors.FieldError {
	const field = "parent_organization_id"

	switch input.Type {
	case enums.OrganizationTypePrimaryDistributor, enums.OrganizationTypeManufacturer:
		if input.ParentOrganizationID != nil {
			return []pkgerrors.FieldError{{Field: field, Message: "a " + input.Type.String() + " organization cannot have a parent"}}
		}
		return nil

	case enums.OrganizationTypeSupplier:
		if input.ParentOrganizationID == nil {
			return []pkgerrors.FieldError{{Field: field, Message: "supplier organizations require a parent organization"}}
		}
		parent, ok := lookup(*input.ParentOrganizationID)
		if !ok {
			return []pkgerrors.FieldError{{Field: field, Message: "parent organization not found"}}
		}
		if !parent.IsActive {
			return []pkgerrors.FieldError{{Field: field, Message: "parent organization is not active"}}
		}
		if parent.Type != enums.OrganizationTypeCustomer && parent.Type != enums.OrganizationTypePrimaryDistributor {
			return []pkgerrors.FieldError{{Field: field, Message: "supplier parent must be an active customer or the primary distributor"}}
		}
		return validateAncestorChain(parent, selfID, lookup)

	case enums.OrganizationTypeCustomer:
		if input.ParentOrganizationID == nil {
			return nil
		}
		parent, ok := lookup(*input.ParentOrganizationID)
		if !ok {
			return []pkgerrors.FieldError{{Field: field, Message: "parent organization not found"}}
		}
		if !parent.IsActive {
			return []pkgerrors.FieldError{{Field: field, Message: "parent organization is not active"}}
		}
		if parent.Type != enums.OrganizationTypePrimaryDistributor {
			return []pkgerrors.FieldError{{Field: field, Message: "customer parent must be the primary distributor"}}
		}
		return validateAncestorChain(parent, selfID, lookup)
	}

	return nil
}

// validateAncestorChain walks upward from the proposed parent. The walk is
// bounded by MaxHierarchyDepth; a chain that revisits selfID or fails to
// terminate within the bound is rejected.
func validateAncestorChain(parent *models.Organization, selfID *uuid.UUID, lookup OrganizationLookup) []pkgerrors.FieldError {
	const field = "parent_organization_id"

	depth := 1 // the node being validated
	current := parent
	for current != nil {
		depth++
		if depth > MaxHierarchyDepth {
			return []pkgerrors.FieldError{{Field: field, Message: "organization hierarchy cannot exceed three levels"}}
		}
		if selfID != nil && current.ID == *selfID {
			return []pkgerrors.FieldError{{Field: field, Message: "parent reference would create a cycle"}}
		}
		if current.ParentOrganizationID == nil {
			return nil
		}
		next, ok := lookup(*current.ParentOrganizationID)
		if !ok {
			return []pkgerrors.FieldError{{Field: field, Message: "ancestor organization not found"}}
		}
		current = next
	}
	return nil
}
