package machines

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/internal/rules"
	"github.com/mrosales/partsledger-backend/internal/scope"
	"github.com/mrosales/partsledger-backend/pkg/auth"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
)

// CreateMachineInput carries the caller-supplied machine fields.
type CreateMachineInput struct {
	OrganizationID uuid.UUID
	Name           string
	SerialNumber   *string
}

// Service exposes machine reference data. Machines anchor consumption
// transactions; they belong to customer organizations and reads are scoped.
type Service interface {
	Create(ctx context.Context, principal auth.Principal, input CreateMachineInput) (*models.Machine, error)
	List(ctx context.Context, principal auth.Principal) ([]models.Machine, error)
	Get(ctx context.Context, principal auth.Principal, id uuid.UUID) (*models.Machine, error)
}

type service struct {
	repo   Repository
	scopes *scope.Service
}

// NewService wires a machine service.
func NewService(repo Repository, scopes *scope.Service) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("machine repository required")
	}
	if scopes == nil {
		return nil, fmt.Errorf("scope service required")
	}
	return &service{repo: repo, scopes: scopes}, nil
}

func (s *service) Create(ctx context.Context, principal auth.Principal, input CreateMachineInput) (*models.Machine, error) {
	org, err := s.scopes.AuthorizeOrganization(ctx, principal, input.OrganizationID)
	if err != nil {
		return nil, err
	}

	var fieldErrs []pkgerrors.FieldError
	if input.Name == "" {
		fieldErrs = append(fieldErrs, pkgerrors.FieldError{Field: "name", Message: "name is required"})
	}
	fieldErrs = append(fieldErrs, rules.ValidateMachineOwner(org.Type)...)
	if len(fieldErrs) > 0 {
		return nil, pkgerrors.NewValidation("machine validation failed", fieldErrs)
	}

	machine := &models.Machine{
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		SerialNumber:   input.SerialNumber,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, machine); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating machine")
	}
	return machine, nil
}

func (s *service) List(ctx context.Context, principal auth.Principal) ([]models.Machine, error) {
	callerScope := s.scopes.Resolve(principal)
	if callerScope.Wildcard() {
		machines, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing machines")
		}
		return machines, nil
	}
	machines, err := s.repo.ListByOrganizations(ctx, callerScope.OrganizationIDs())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing machines")
	}
	return machines, nil
}

func (s *service) Get(ctx context.Context, principal auth.Principal, id uuid.UUID) (*models.Machine, error) {
	return s.scopes.AuthorizeMachine(ctx, principal, id)
}
