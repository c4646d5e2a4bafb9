package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

func lookupFrom(orgs ...*models.Organization) OrganizationLookup {
	byID := make(map[uuid.UUID]*models.Organization, len(orgs))
	for _, org := range orgs {
		byID[org.ID] = org
	}
	return func(id uuid.UUID) (*models.Organization, bool) {
		org, ok := byID[id]
		return org, ok
	}
}

func fieldsOf(errs []pkgerrors.FieldError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestValidateOrganization_Valid(t *testing.T) {
	distributor := &models.Organization{
		ID:       uuid.New(),
		Type:     enums.OrganizationTypePrimaryDistributor,
		IsActive: true,
	}
	customer := &models.Organization{
		ID:                   uuid.New(),
		Type:                 enums.OrganizationTypeCustomer,
		ParentOrganizationID: &distributor.ID,
		IsActive:             true,
	}
	lookup := lookupFrom(distributor, customer)

	tests := []struct {
		name  string
		input OrganizationInput
	}{
		{
			name:  "customer without parent",
			input: OrganizationInput{Name: "Acme Dental", Type: enums.OrganizationTypeCustomer},
		},
		{
			name: "customer under distributor",
			input: OrganizationInput{
				Name:                 "Acme Dental",
				Type:                 enums.OrganizationTypeCustomer,
				ParentOrganizationID: &distributor.ID,
			},
		},
		{
			name: "supplier under customer",
			input: OrganizationInput{
				Name:                 "Local Supply Co",
				Type:                 enums.OrganizationTypeSupplier,
				ParentOrganizationID: &customer.ID,
			},
		},
		{
			name: "supplier under distributor",
			input: OrganizationInput{
				Name:                 "Direct Supply",
				Type:                 enums.OrganizationTypeSupplier,
				ParentOrganizationID: &distributor.ID,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateOrganization(tc.input, nil, 0, lookup)
			assert.Empty(t, errs)
		})
	}
}

func TestValidateOrganization_SingletonTypes(t *testing.T) {
	lookup := lookupFrom()

	for _, orgType := range []enums.OrganizationType{
		enums.OrganizationTypePrimaryDistributor,
		enums.OrganizationTypeManufacturer,
	} {
		t.Run(string(orgType), func(t *testing.T) {
			errs := ValidateOrganization(OrganizationInput{Name: "Second", Type: orgType}, nil, 1, lookup)
			require.Len(t, errs, 1)
			assert.Equal(t, "type", errs[0].Field)
		})
	}

	// Customers are never singletons.
	errs := ValidateOrganization(OrganizationInput{Name: "Another", Type: enums.OrganizationTypeCustomer}, nil, 5, lookup)
	assert.Empty(t, errs)
}

func TestValidateOrganization_SupplierParentRules(t *testing.T) {
	inactiveCustomer := &models.Organization{ID: uuid.New(), Type: enums.OrganizationTypeCustomer}
	manufacturer := &models.Organization{ID: uuid.New(), Type: enums.OrganizationTypeManufacturer, IsActive: true}
	lookup := lookupFrom(inactiveCustomer, manufacturer)
	missingID := uuid.New()

	tests := []struct {
		name   string
		parent *uuid.UUID
	}{
		{name: "missing parent", parent: nil},
		{name: "unknown parent", parent: &missingID},
		{name: "inactive parent", parent: &inactiveCustomer.ID},
		{name: "wrong parent type", parent: &manufacturer.ID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateOrganization(OrganizationInput{
				Name:                 "Supply Co",
				Type:                 enums.OrganizationTypeSupplier,
				ParentOrganizationID: tc.parent,
			}, nil, 0, lookup)
			require.NotEmpty(t, errs)
			assert.Contains(t, fieldsOf(errs), "parent_organization_id")
		})
	}
}

func TestValidateOrganization_RootTypesRejectParents(t *testing.T) {
	distributor := &models.Organization{ID: uuid.New(), Type: enums.OrganizationTypePrimaryDistributor, IsActive: true}
	lookup := lookupFrom(distributor)

	errs := ValidateOrganization(OrganizationInput{
		Name:                 "Factory",
		Type:                 enums.OrganizationTypeManufacturer,
		ParentOrganizationID: &distributor.ID,
	}, nil, 0, lookup)
	require.Len(t, errs, 1)
	assert.Equal(t, "parent_organization_id", errs[0].Field)
}

func TestValidateOrganization_DepthLimit(t *testing.T) {
	distributor := &models.Organization{ID: uuid.New(), Type: enums.OrganizationTypePrimaryDistributor, IsActive: true}
	customer := &models.Organization{
		ID:                   uuid.New(),
		Type:                 enums.OrganizationTypeCustomer,
		ParentOrganizationID: &distributor.ID,
		IsActive:             true,
	}
	// A supplier already at depth three cannot itself be a parent.
	supplier := &models.Organization{
		ID:                   uuid.New(),
		Type:                 enums.OrganizationTypeCustomer, // type passes the parent check; depth must still fail
		ParentOrganizationID: &customer.ID,
		IsActive:             true,
	}
	lookup := lookupFrom(distributor, customer, supplier)

	errs := ValidateOrganization(OrganizationInput{
		Name:                 "Too Deep",
		Type:                 enums.OrganizationTypeSupplier,
		ParentOrganizationID: &supplier.ID,
	}, nil, 0, lookup)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "three levels")
}

func TestValidateOrganization_CycleDetection(t *testing.T) {
	selfID := uuid.New()
	other := &models.Organization{
		ID:                   uuid.New(),
		Type:                 enums.OrganizationTypeCustomer,
		ParentOrganizationID: &selfID,
		IsActive:             true,
	}
	self := &models.Organization{ID: selfID, Type: enums.OrganizationTypeCustomer, IsActive: true}
	lookup := lookupFrom(other, self)

	errs := ValidateOrganization(OrganizationInput{
		Name:                 "Looped",
		Type:                 enums.OrganizationTypeSupplier,
		ParentOrganizationID: &other.ID,
	}, &selfID, 0, lookup)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "cycle")
}

func TestValidateOrganization_CollectsMultipleErrors(t *testing.T) {
	errs := ValidateOrganization(OrganizationInput{
		Name: "",
		Type: enums.OrganizationTypeSupplier,
	}, nil, 0, lookupFrom())
	fields := fieldsOf(errs)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "parent_organization_id")
}

func TestValidateOrganization_UnknownType(t *testing.T) {
	errs := ValidateOrganization(OrganizationInput{
		Name: "Mystery",
		Type: enums.OrganizationType("franchise"),
	}, nil, 0, lookupFrom())
	require.Len(t, errs, 1)
	assert.Equal(t, "type", errs[0].Field)
}
