package warehouses

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrosales/partsledger-backend/internal/repo"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
)

// Repository manages persistence for warehouses.
type Repository interface {
	Create(ctx context.Context, warehouse *models.Warehouse) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	ListAll(ctx context.Context) ([]models.Warehouse, error)
	ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]models.Warehouse, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a warehouse repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, warehouse *models.Warehouse) error {
	if warehouse.ID == uuid.Nil {
		warehouse.ID = uuid.New()
	}
	return r.DB(ctx).Create(warehouse).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := r.DB(ctx).First(&warehouse, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &warehouse, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	if err := r.DB(ctx).Order("name ASC").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *repository) ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]models.Warehouse, error) {
	var warehouses []models.Warehouse
	err := r.DB(ctx).
		Where("organization_id IN ?", orgIDs).
		Order("name ASC").
		Find(&warehouses).Error
	if err != nil {
		return nil, err
	}
	return warehouses, nil
}
