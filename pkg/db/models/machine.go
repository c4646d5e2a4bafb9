package models

import (
	"time"

	"github.com/google/uuid"
)

// Machine is customer-owned equipment that consumes parts. Consumption
// transactions must reference the machine the stock was used on.
type Machine struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	SerialNumber   *string   `gorm:"column:serial_number"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
