package enums

import "fmt"

// TransactionType maps to the transaction_type_enum enum in Postgres. The set
// is closed: every stock movement is exactly one of these four cases and the
// ledger matches on it exhaustively.
type TransactionType string

const (
	TransactionTypeCreation    TransactionType = "creation"
	TransactionTypeTransfer    TransactionType = "transfer"
	TransactionTypeConsumption TransactionType = "consumption"
	TransactionTypeAdjustment  TransactionType = "adjustment"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeCreation,
	TransactionTypeTransfer,
	TransactionTypeConsumption,
	TransactionTypeAdjustment,
}

// IsValid reports whether the value matches the canonical transaction type enum.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// String returns the raw enum value.
func (t TransactionType) String() string {
	return string(t)
}

// ParseTransactionType converts raw input into TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}

// AdjustmentDirection maps to the adjustment_direction_enum enum in Postgres.
// It is only meaningful on adjustment transactions.
type AdjustmentDirection string

const (
	AdjustmentDirectionIncrease AdjustmentDirection = "increase"
	AdjustmentDirectionDecrease AdjustmentDirection = "decrease"
)

var validAdjustmentDirections = []AdjustmentDirection{
	AdjustmentDirectionIncrease,
	AdjustmentDirectionDecrease,
}

// IsValid reports whether the value matches the canonical adjustment direction enum.
func (d AdjustmentDirection) IsValid() bool {
	for _, candidate := range validAdjustmentDirections {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseAdjustmentDirection converts raw input into AdjustmentDirection.
func ParseAdjustmentDirection(value string) (AdjustmentDirection, error) {
	for _, candidate := range validAdjustmentDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment direction %q", value)
}
