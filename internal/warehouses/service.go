package warehouses

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/internal/rules"
	"github.com/mrosales/partsledger-backend/internal/scope"
	"github.com/mrosales/partsledger-backend/pkg/auth"
	dbpkg "github.com/mrosales/partsledger-backend/pkg/db"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

// CreateWarehouseInput carries the caller-supplied warehouse fields.
type CreateWarehouseInput struct {
	OrganizationID uuid.UUID
	Name           string
}

// Service exposes warehouse reference-data operations. Every read and write
// passes through the scope resolver before touching rows.
type Service interface {
	Create(ctx context.Context, principal auth.Principal, input CreateWarehouseInput) (*models.Warehouse, error)
	List(ctx context.Context, principal auth.Principal) ([]models.Warehouse, error)
	Get(ctx context.Context, principal auth.Principal, id uuid.UUID) (*models.Warehouse, error)
}

type service struct {
	repo   Repository
	scopes *scope.Service
}

// NewService wires a warehouse service.
func NewService(repo Repository, scopes *scope.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("warehouse repository required")
	}
	if scopes == nil {
		return nil, fmt.Errorf("scope service required")
	}
	return &service{repo: repo, scopes: scopes}, nil
}

func (s *service) Create(ctx context.Context, principal auth.Principal, input CreateWarehouseInput) (*models.Warehouse, error) {
	org, err := s.scopes.AuthorizeOrganization(ctx, principal, input.OrganizationID)
	if err != nil {
		return nil, err
	}

	var fieldErrs []pkgerrors.FieldError
	if input.Name == "" {
		fieldErrs = append(fieldErrs, pkgerrors.FieldError{Field: "name", Message: "name is required"})
	}
	if !org.IsActive {
		fieldErrs = append(fieldErrs, pkgerrors.FieldError{Field: "organization_id", Message: "organization is not active"})
	}
	fieldErrs = append(fieldErrs, rules.ValidateWarehouseOwner(org.Type)...)
	if len(fieldErrs) > 0 {
		return nil, pkgerrors.NewValidation("warehouse validation failed", fieldErrs)
	}

	warehouse := &models.Warehouse{
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, warehouse); err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_warehouses_org_name") {
			return nil, pkgerrors.NewValidation("warehouse validation failed", []pkgerrors.FieldError{{
				Field:   "name",
				Message: "a warehouse with this name already exists in the organization",
			}})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating warehouse")
	}
	return warehouse, nil
}

func (s *service) List(ctx context.Context, principal auth.Principal) ([]models.Warehouse, error) {
	callerScope := s.scopes.Resolve(principal)
	if callerScope.Wildcard() {
		warehouses, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing warehouses")
		}
		return warehouses, nil
	}
	warehouses, err := s.repo.ListByOrganizations(ctx, callerScope.OrganizationIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing warehouses")
	}
	return warehouses, nil
}

func (s *service) Get(ctx context.Context, principal auth.Principal, id uuid.UUID) (*models.Warehouse, error) {
	return s.scopes.AuthorizeWarehouse(ctx, principal, id)
}
