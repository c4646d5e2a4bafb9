package enums

import "fmt"

// PartType maps to the part_type_enum enum in Postgres. The part type is fixed
// at creation and determines quantity granularity: consumables move in whole
// units, bulk materials in fractional quantities.
type PartType string

const (
	PartTypeConsumable   PartType = "consumable"
	PartTypeBulkMaterial PartType = "bulk_material"
)

var validPartTypes = []PartType{
	PartTypeConsumable,
	PartTypeBulkMaterial,
}

// IsValid reports whether the value matches the canonical part type enum.
func (t PartType) IsValid() bool {
	for _, candidate := range validPartTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// AllowsFractionalQuantity reports whether quantities for this part type may
// carry a decimal component.
func (t PartType) AllowsFractionalQuantity() bool {
	return t == PartTypeBulkMaterial
}

// ParsePartType converts raw input into PartType.
func ParsePartType(value string) (PartType, error) {
	for _, candidate := range validPartTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid part type %q", value)
}
