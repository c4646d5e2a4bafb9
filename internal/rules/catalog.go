package rules

import (
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

// ValidateWarehouseOwner rejects warehouse creation for organization types
// that cannot hold stock.
func ValidateWarehouseOwner(orgType enums.OrganizationType) []pkgerrors.FieldError {
	if orgType == enums.OrganizationTypeSupplier {
		return []pkgerrors.FieldError{{
			Field:   "organization_id",
			Message: "supplier organizations cannot own warehouses",
		}}
	}
	return nil
}

// ValidatePartInput checks the part catalog invariants that hold at creation.
// The part type itself is immutable afterwards; update paths never accept it.
func ValidatePartInput(partNumber, name string, partType enums.PartType, unitOfMeasure string) []pkgerrors.FieldError {
	var errs []pkgerrors.FieldError
	if partNumber == "" {
		errs = append(errs, pkgerrors.FieldError{Field: "part_number", Message: "part_number is required"})
	}
	if name == "" {
		errs = append(errs, pkgerrors.FieldError{Field: "name", Message: "name is required"})
	}
	if !partType.IsValid() {
		errs = append(errs, pkgerrors.FieldError{Field: "part_type", Message: "unknown part type"})
	}
	if unitOfMeasure == "" {
		errs = append(errs, pkgerrors.FieldError{Field: "unit_of_measure", Message: "unit_of_measure is required"})
	}
	return errs
}

// ValidateMachineOwner keeps consumption reference equipment on customer
// organizations.
func ValidateMachineOwner(orgType enums.OrganizationType) []pkgerrors.FieldError {
	if orgType != enums.OrganizationTypeCustomer {
		return []pkgerrors.FieldError{{
			Field:   "organization_id",
			Message: "machines belong to customer organizations",
		}}
	}
	return nil
}
