package parts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mrosales/partsledger-backend/internal/rules"
	"github.com/mrosales/partsledger-backend/internal/scope"
	"github.com/mrosales/partsledger-backend/pkg/auth"
	dbpkg "github.com/mrosales/partsledger-backend/pkg/db"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

// CreatePartInput carries the caller-supplied part fields. PartType is only
// accepted here; it is immutable once the row exists.
type CreatePartInput struct {
	PartNumber    string
	Name          string
	PartType      enums.PartType
	IsProprietary bool
	UnitOfMeasure string
	Tags          []string
}

// UpdatePartInput carries the mutable subset of part fields. Nil pointers
// leave the stored value untouched; part_number and part_type have no
// representation here on purpose.
type UpdatePartInput struct {
	Name          *string
	IsProprietary *bool
	Tags          []string
	IsActive      *bool
}

// Service exposes the shared part catalog. Parts are global reference data:
// readable by every authenticated principal, writable only by principals with
// the wildcard scope.
type Service interface {
	Create(ctx context.Context, principal auth.Principal, input CreatePartInput) (*models.Part, error)
	List(ctx context.Context, principal auth.Principal) ([]models.Part, error)
	Get(ctx context.Context, principal auth.Principal, id uuid.UUID) (*models.Part, error)
	Update(ctx context.Context, principal auth.Principal, id uuid.UUID, input UpdatePartInput) (*models.Part, error)
}

type service struct {
	repo Repository
}

// NewService wires a part catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("part repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, principal auth.Principal, input CreatePartInput) (*models.Part, error) {
	if !scope.Resolve(principal).Wildcard() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "managing the part catalog requires the wildcard scope")
	}

	fieldErrs := rules.ValidatePartInput(input.PartNumber, input.Name, input.PartType, input.UnitOfMeasure)
	if len(fieldErrs) > 0 {
		return nil, pkgerrors.NewValidation("part validation failed", fieldErrs)
	}

	part := &models.Part{
		PartNumber:    input.PartNumber,
		Name:          input.Name,
		PartType:      input.PartType,
		IsProprietary: input.IsProprietary,
		UnitOfMeasure: input.UnitOfMeasure,
		Tags:          pq.StringArray(input.Tags),
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, part); err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_parts_part_number") {
			return nil, pkgerrors.NewValidation("part validation failed", []pkgerrors.FieldError{{
				Field:   "part_number",
				Message: "a part with this part_number already exists",
			}})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating part")
	}
	return part, nil
}

func (s *service) List(ctx context.Context, principal auth.Principal) ([]models.Part, error) {
	parts, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing parts")
	}
	return parts, nil
}

func (s *service) Get(ctx context.Context, principal auth.Principal, id uuid.UUID) (*models.Part, error) {
	part, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading part")
	}
	return part, nil
}

func (s *service) Update(ctx context.Context, principal auth.Principal, id uuid.UUID, input UpdatePartInput) (*models.Part, error) {
	if !scope.Resolve(principal).Wildcard() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "managing the part catalog requires the wildcard scope")
	}

	part, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.NewValidation("part validation failed", []pkgerrors.FieldError{{
				Field:   "name",
				Message: "name cannot be empty",
			}})
		}
		part.Name = *input.Name
	}
	if input.IsProprietary != nil {
		part.IsProprietary = *input.IsProprietary
	}
	if input.Tags != nil {
		part.Tags = pq.StringArray(input.Tags)
	}
	if input.IsActive != nil {
		part.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, part); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating part")
	}
	return part, nil
}
