package parts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrosales/partsledger-backend/internal/repo"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
)

// Repository manages persistence for the part catalog.
type Repository interface {
	Create(ctx context.Context, part *models.Part) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Part, error)
	List(ctx context.Context) ([]models.Part, error)
	Update(ctx context.Context, part *models.Part) error
}

type repository struct {
	repo.Base
}

// NewRepository returns a part repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, part *models.Part) error {
	if part.ID == uuid.Nil {
		part.ID = uuid.New()
	}
	return r.DB(ctx).Create(part).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	if err := r.DB(ctx).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) List(ctx context.Context) ([]models.Part, error) {
	var parts []models.Part
	if err := r.DB(ctx).Order("part_number ASC").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) Update(ctx context.Context, part *models.Part) error {
	return r.DB(ctx).Save(part).Error
}
