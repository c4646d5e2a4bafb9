package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a physical stock location owned by an organization. Supplier
// organizations may not own warehouses; the rule layer enforces it at create
// time and the unique index keeps names distinct within an organization.
type Warehouse struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;uniqueIndex:ux_warehouses_org_name"`
	Name           string    `gorm:"column:name;not null;uniqueIndex:ux_warehouses_org_name"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
