package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mrosales/partsledger-backend/pkg/enums"
)

// Part is an orderable catalog item. PartType is immutable after creation and
// determines whether transactions may carry fractional quantities.
type Part struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PartNumber    string         `gorm:"column:part_number;not null;uniqueIndex:ux_parts_part_number"`
	Name          string         `gorm:"column:name;not null"`
	PartType      enums.PartType `gorm:"column:part_type;type:part_type_enum;not null"`
	IsProprietary bool           `gorm:"column:is_proprietary;not null;default:false"`
	UnitOfMeasure string         `gorm:"column:unit_of_measure;not null"`
	Tags          pq.StringArray `gorm:"column:tags;type:text[]"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
