package scope

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrosales/partsledger-backend/internal/repo"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/enums"
)

type repository struct {
	repo.Base
}

// NewRepository returns a scope repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.DB(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) GetWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.DB(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *repository) GetMachine(ctx context.Context, id uuid.UUID) (*models.Machine, error) {
	var machine models.Machine
	if err := r.DB(ctx).First(&machine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &machine, nil
}

func (r *repository) GetPrimaryDistributor(ctx context.Context) (*models.Organization, error) {
	var org models.Organization
	err := r.DB(ctx).
		Where("type = ? AND is_active = ?", enums.OrganizationTypePrimaryDistributor, true).
		First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}
