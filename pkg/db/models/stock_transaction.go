package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrosales/partsledger-backend/pkg/enums"
)

// StockTransaction is one immutable row in the stock movement ledger. Rows are
// never updated or deleted; corrections are new adjustment rows. Quantity is
// always positive; the transaction type (and direction, for adjustments)
// carries the sign.
type StockTransaction struct {
	ID                uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type              enums.TransactionType      `gorm:"column:type;type:transaction_type_enum;not null"`
	PartID            uuid.UUID                  `gorm:"column:part_id;type:uuid;not null"`
	FromWarehouseID   *uuid.UUID                 `gorm:"column:from_warehouse_id;type:uuid"`
	ToWarehouseID     *uuid.UUID                 `gorm:"column:to_warehouse_id;type:uuid"`
	MachineID         *uuid.UUID                 `gorm:"column:machine_id;type:uuid"`
	Direction         *enums.AdjustmentDirection `gorm:"column:direction;type:adjustment_direction_enum"`
	Quantity          decimal.Decimal            `gorm:"column:quantity;type:decimal(20,4);not null"`
	PerformedByUserID uuid.UUID                  `gorm:"column:performed_by_user_id;type:uuid;not null"`
	OccurredAt        time.Time                  `gorm:"column:occurred_at;not null"`
	Notes             *string                    `gorm:"column:notes"`
	CreatedAt         time.Time                  `gorm:"column:created_at;autoCreateTime"`
}
