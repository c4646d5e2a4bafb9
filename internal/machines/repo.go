package machines

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrosales/partsledger-backend/internal/repo"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
)

// Repository manages persistence for machines.
type Repository interface {
	Create(ctx context.Context, machine *models.Machine) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Machine, error)
	ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]models.Machine, error)
	ListAll(ctx context.Context) ([]models.Machine, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a machine repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, machine *models.Machine) error {
	if machine.ID == uuid.Nil {
		machine.ID = uuid.New()
	}
	return r.DB(ctx).Create(machine).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Machine, error) {
	var machine models.Machine
	if err := r.DB(ctx).First(&machine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &machine, nil
}

func (r *repository) ListByOrganizations(ctx context.Context, orgIDs []uuid.UUID) ([]models.Machine, error) {
	var machines []models.Machine
	err := r.DB(ctx).
		Where("organization_id IN ?", orgIDs).
		Order("name ASC").
		Find(&machines).Error
	if err != nil {
		return nil, err
	}
	return machines, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Machine, error) {
	var machines []models.Machine
	if err := r.DB(ctx).Order("name ASC").Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}
