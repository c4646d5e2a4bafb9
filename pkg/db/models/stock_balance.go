package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBalance is the materialized current stock for a (warehouse, part) key.
// Rows are created lazily on the first transaction touching the key and are
// written only by the ledger balance engine, under a row lock, inside the same
// transaction that inserts the StockTransaction. Version increments on every
// applied delta.
type StockBalance struct {
	WarehouseID  uuid.UUID       `gorm:"column:warehouse_id;type:uuid;primaryKey"`
	PartID       uuid.UUID       `gorm:"column:part_id;type:uuid;primaryKey"`
	CurrentStock decimal.Decimal `gorm:"column:current_stock;type:decimal(20,4);not null;default:0"`
	Version      int64           `gorm:"column:version;not null;default:0"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
