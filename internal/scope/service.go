package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrosales/partsledger-backend/pkg/auth"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

// Repository is the narrow storage surface the resolver needs to translate
// warehouse and machine references into owning organizations.
type Repository interface {
	GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	GetMachine(ctx context.Context, id uuid.UUID) (*models.Machine, error)
	GetPrimaryDistributor(ctx context.Context) (*models.Organization, error)
}

// Service centralizes every authorization decision. All reads and writes that
// touch warehouses, inventory, or transactions go through it so scope checks
// cannot drift between call sites.
type Service struct {
	repo Repository
}

// NewService wires a scope resolver with the provided repository.
func NewService(repo Repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scope repository required")
	}
	return &Service{repo: repo}, nil
}

// Resolve returns the principal's organization scope.
func (s *Service) Resolve(principal auth.Principal) Scope {
	return Resolve(principal)
}

// AuthorizeOrganization denies access unless the organization exists and falls
// inside the principal's scope.
func (s *Service) AuthorizeOrganization(ctx context.Context, principal auth.Principal, orgID uuid.UUID) (*models.Organization, error) {
	org, err := s.repo.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, asLookupError(err, "organization")
	}
	if !Resolve(principal).Contains(org.ID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "organization is outside your access scope")
	}
	return org, nil
}

// AuthorizeWarehouse denies access unless the warehouse's owning organization
// falls inside the principal's scope.
func (s *Service) AuthorizeWarehouse(ctx context.Context, principal auth.Principal, warehouseID uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, asLookupError(err, "warehouse")
	}
	if !Resolve(principal).Contains(warehouse.OrganizationID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "warehouse is outside your access scope")
	}
	return warehouse, nil
}

// AuthorizeTransferSource authorizes the source warehouse of an inbound
// transfer. It admits one cross-boundary case on top of the normal scope
// check: a customer principal receiving stock may name a warehouse owned by
// the primary distributor as the counterparty. The reverse direction gets no
// such exception.
func (s *Service) AuthorizeTransferSource(ctx context.Context, principal auth.Principal, warehouseID uuid.UUID) (*models.Warehouse, error) {
	warehouse, err := s.repo.GetWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, asLookupError(err, "warehouse")
	}
	if Resolve(principal).Contains(warehouse.OrganizationID) {
		return warehouse, nil
	}

	home, err := s.repo.GetOrganization(ctx, principal.OrganizationID)
	if err != nil {
		return nil, asLookupError(err, "organization")
	}
	if home.Type == enums.OrganizationTypeCustomer {
		distributor, err := s.repo.GetPrimaryDistributor(ctx)
		if err != nil {
			return nil, asLookupError(err, "primary distributor")
		}
		if warehouse.OrganizationID == distributor.ID {
			return warehouse, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "source warehouse is outside your access scope")
}

// AuthorizeMachine denies access unless the machine's owning organization
// falls inside the principal's scope.
func (s *Service) AuthorizeMachine(ctx context.Context, principal auth.Principal, machineID uuid.UUID) (*models.Machine, error) {
	machine, err := s.repo.GetMachine(ctx, machineID)
	if err != nil {
		return nil, asLookupError(err, "machine")
	}
	if !Resolve(principal).Contains(machine.OrganizationID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "machine is outside your access scope")
	}
	return machine, nil
}

func asLookupError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading "+entity)
}
