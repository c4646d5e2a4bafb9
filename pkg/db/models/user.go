package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/pkg/enums"
)

// User is the principal record the auth provider references. The core never
// authenticates users; it only resolves the claims it was handed against this
// table.
type User struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrganizationID uuid.UUID        `gorm:"column:organization_id;type:uuid;not null"`
	Email          string           `gorm:"column:email;not null;uniqueIndex"`
	FirstName      string           `gorm:"column:first_name;not null"`
	LastName       string           `gorm:"column:last_name;not null"`
	Role           enums.UserRole   `gorm:"column:role;type:user_role_enum;not null;default:'user'"`
	Status         enums.UserStatus `gorm:"column:status;type:user_status_enum;not null;default:'active'"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
