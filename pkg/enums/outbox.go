package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type_enum enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrganization OutboxAggregateType = "organization"
	AggregateTransaction  OutboxAggregateType = "transaction"
	AggregateWarehouse    OutboxAggregateType = "warehouse"
	AggregatePart         OutboxAggregateType = "part"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrganization,
	AggregateTransaction,
	AggregateWarehouse,
	AggregatePart,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type_enum enum in Postgres.
type OutboxEventType string

const (
	EventOrganizationCreated     OutboxEventType = "organization_created"
	EventOrganizationDeactivated OutboxEventType = "organization_deactivated"
	EventTransactionCommitted    OutboxEventType = "transaction_committed"
	EventBalanceRebuilt          OutboxEventType = "balance_rebuilt"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrganizationCreated,
	EventOrganizationDeactivated,
	EventTransactionCommitted,
	EventBalanceRebuilt,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
