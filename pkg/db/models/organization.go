package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/pkg/enums"
)

// Organization is a node in the distribution hierarchy. The parent chain is a
// tree bounded at three levels: distributor/manufacturer roots, customers
// under the distributor, suppliers under a customer or the distributor.
type Organization struct {
	ID                   uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                 string                 `gorm:"column:name;not null"`
	Type                 enums.OrganizationType `gorm:"column:type;type:organization_type_enum;not null"`
	ParentOrganizationID *uuid.UUID             `gorm:"column:parent_organization_id;type:uuid"`
	IsActive             bool                   `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
