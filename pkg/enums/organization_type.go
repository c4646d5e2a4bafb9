package enums

import "fmt"

// OrganizationType maps to the organization_type_enum enum in Postgres.
type OrganizationType string

const (
	OrganizationTypePrimaryDistributor OrganizationType = "primary_distributor"
	OrganizationTypeManufacturer       OrganizationType = "manufacturer"
	OrganizationTypeCustomer           OrganizationType = "customer"
	OrganizationTypeSupplier           OrganizationType = "supplier"
)

var validOrganizationTypes = []OrganizationType{
	OrganizationTypePrimaryDistributor,
	OrganizationTypeManufacturer,
	OrganizationTypeCustomer,
	OrganizationTypeSupplier,
}

// IsValid reports whether the value matches the canonical organization type enum.
func (t OrganizationType) IsValid() bool {
	for _, candidate := range validOrganizationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsSingleton reports whether at most one active organization of this type may
// exist system-wide.
func (t OrganizationType) IsSingleton() bool {
	return t == OrganizationTypePrimaryDistributor || t == OrganizationTypeManufacturer
}

// String returns the raw enum value.
func (t OrganizationType) String() string {
	return string(t)
}

// ParseOrganizationType converts raw input into OrganizationType.
func ParseOrganizationType(value string) (OrganizationType, error) {
	for _, candidate := range validOrganizationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid organization type %q", value)
}
