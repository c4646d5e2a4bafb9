package organizations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrosales/partsledger-backend/internal/repo"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/enums"
)

// Repository manages persistence for organizations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, org *models.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	ListAll(ctx context.Context, includeInactive bool) ([]models.Organization, error)
	ListActiveByTypes(ctx context.Context, types ...enums.OrganizationType) ([]models.Organization, error)
	// LockActiveByType takes row locks on the active organizations of the
	// given type and returns them. Singleton checks run against the locked
	// rows so two concurrent creations of the same singleton type serialize.
	LockActiveByType(ctx context.Context, orgType enums.OrganizationType) ([]models.Organization, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns an organization repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) Create(ctx context.Context, org *models.Organization) error {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	return r.DB(ctx).Create(org).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	var org models.Organization
	if err := r.DB(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *repository) ListAll(ctx context.Context, includeInactive bool) ([]models.Organization, error) {
	query := r.DB(ctx).Order("created_at ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var orgs []models.Organization
	if err := query.Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repository) ListActiveByTypes(ctx context.Context, types ...enums.OrganizationType) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.DB(ctx).
		Where("type IN ? AND is_active = ?", types, true).
		Order("name ASC").
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repository) LockActiveByType(ctx context.Context, orgType enums.OrganizationType) ([]models.Organization, error) {
	var orgs []models.Organization
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("type = ? AND is_active = ?", orgType, true).
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}
