package rules

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

// TransactionInput is the shape-checked view of a proposed stock movement.
// Quantity is always positive; the type (and direction, for adjustments)
// carries the sign.
type TransactionInput struct {
	Type            enums.TransactionType
	PartID          uuid.UUID
	FromWarehouseID *uuid.UUID
	ToWarehouseID   *uuid.UUID
	MachineID       *uuid.UUID
	Direction       *enums.AdjustmentDirection
	Quantity        decimal.Decimal
}

// ValidateTransactionShape checks that exactly the fields valid for the
// transaction type are present. The switch is exhaustive over the closed
// transaction type set.
func ValidateTransactionShape(in TransactionInput) []pkgerrors.FieldError {
	var errs []pkgerrors.FieldError

	if in.PartID == uuid.Nil {
		errs = append(errs, pkgerrors.FieldError{Field: "part_id", Message: "part_id is required"})
	}

	switch in.Type {
	case enums.TransactionTypeCreation:
		if in.ToWarehouseID == nil {
			errs = append(errs, pkgerrors.FieldError{Field: "to_warehouse_id", Message: "creation requires to_warehouse_id"})
		}
		if in.FromWarehouseID != nil {
			errs = append(errs, pkgerrors.FieldError{Field: "from_warehouse_id", Message: "creation must not set from_warehouse_id"})
		}
		if in.MachineID != nil {
			errs = append(errs, pkgerrors.FieldError{Field: "machine_id", Message: "creation must not set machine_id"})
		}
		if in.Direction != nil {
			errs = append(errs, pkgerrors.FieldError{Field: "direction", Message: "direction is only valid on adjustments"})
		}

	case enums.TransactionTypeTransfer:
		if in.FromWarehouseID == nil {
			errs = append(errs, pkgerrors.FieldError{Field: "from_warehouse_id", Message: "transfer requires from_warehouse_id"})
		}
		if in.ToWarehouseID == nil {
			errs = append(errs, pkgerrors.FieldError{Field: "to_warehouse_id", Message: "transfer requires to_warehouse_id"})
		}
		if in.FromWarehouseID != nil && in.ToWarehouseID != nil && *in.FromWarehouseID == *in.ToWarehouseID {
			errs = append(errs, pkgerrors.FieldError{Field: "to_warehouse_id", Message: "transfer warehouses must be distinct"})
		}
		if in.MachineID != nil {
			errs = append(errs, pkgerrors.FieldError{Field: "machine_id", Message: "transfer must not set machine_id"})
		}
		if in.Direction != nil {
			errs = append(errs, pkgerrors.FieldError{Field: "direction", Message: "direction is only valid on adjustments"})
		}

	case enums.TransactionTypeConsumption:
		if in.FromWarehouseID == nil {
			errs = append(errs, pkgerrors.FieldError{Field: "from_warehouse_id", Message: "consumption requires from_warehouse_id"})
		}
		if in.MachineID == nil {
			errs = append(errs, pkgerrors.FieldError{Field: "machine_id", Message: "consumption requires machine_id"})
		}
		if in.ToWarehouseID != nil {
			errs = append(errs, pkgerrors.FieldError{Field: "to_warehouse_id", Message: "consumption must not set to_warehouse_id"})
		}
		if in.Direction != nil {
			errs = append(errs, pkgerrors.FieldError{Field: "direction", Message: "direction is only valid on adjustments"})
		}

	case enums.TransactionTypeAdjustment:
		fromSet := in.FromWarehouseID != nil
		toSet := in.ToWarehouseID != nil
		if fromSet == toSet {
			errs = append(errs, pkgerrors.FieldError{Field: "from_warehouse_id", Message: "adjustment requires exactly one warehouse reference"})
		}
		if in.Direction == nil {
			errs = append(errs, pkgerrors.FieldError{Field: "direction", Message: "adjustment requires a direction"})
		} else if !in.Direction.IsValid() {
			errs = append(errs, pkgerrors.FieldError{Field: "direction", Message: "unknown adjustment direction"})
		}
		if in.MachineID != nil {
			errs = append(errs, pkgerrors.FieldError{Field: "machine_id", Message: "adjustment must not set machine_id"})
		}

	default:
		errs = append(errs, pkgerrors.FieldError{Field: "type", Message: "unknown transaction type"})
	}

	return errs
}

// ValidateQuantity enforces positivity and the part type's granularity:
// consumables move in whole units, bulk materials in any positive decimal.
func ValidateQuantity(partType enums.PartType, quantity decimal.Decimal) []pkgerrors.FieldError {
	if !quantity.IsPositive() {
		return []pkgerrors.FieldError{{Field: "quantity", Message: "quantity must be greater than zero"}}
	}
	if !partType.AllowsFractionalQuantity() && !quantity.IsInteger() {
		return []pkgerrors.FieldError{{Field: "quantity", Message: "consumable parts require whole-unit quantities"}}
	}
	return nil
}
