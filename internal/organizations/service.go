package organizations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrosales/partsledger-backend/internal/rules"
	"github.com/mrosales/partsledger-backend/internal/scope"
	"github.com/mrosales/partsledger-backend/pkg/auth"
	dbpkg "github.com/mrosales/partsledger-backend/pkg/db"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
	"github.com/mrosales/partsledger-backend/pkg/logger"
	"github.com/mrosales/partsledger-backend/pkg/outbox"
)

// CreateOrganizationInput carries the caller-supplied organization fields.
type CreateOrganizationInput struct {
	Name                 string
	Type                 enums.OrganizationType
	ParentOrganizationID *uuid.UUID
}

// TreeNode is one organization with its direct children in the hierarchy
// forest.
type TreeNode struct {
	Organization models.Organization `json:"organization"`
	Children     []*TreeNode         `json:"children"`
}

// Service exposes the organization hierarchy operations.
type Service interface {
	Create(ctx context.Context, principal auth.Principal, input CreateOrganizationInput) (*models.Organization, error)
	Validate(ctx context.Context, principal auth.Principal, input CreateOrganizationInput) ([]pkgerrors.FieldError, error)
	HierarchyTree(ctx context.Context, principal auth.Principal, includeInactive bool) ([]*TreeNode, error)
	PotentialParents(ctx context.Context, principal auth.Principal, orgType enums.OrganizationType) ([]models.Organization, error)
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx     TxRunner
	repo   Repository
	outbox *outbox.Service
	logg   *logger.Logger
}

// NewService wires an organization service.
func NewService(tx TxRunner, repo Repository, ob *outbox.Service, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("organization repository required")
	}
	return &service{tx: tx, repo: repo, outbox: ob, logg: logg}, nil
}

// Create persists a new organization after running the full rule set inside
// one transaction. Singleton rows of the requested type are locked for the
// duration so concurrent creations of a second distributor or manufacturer
// serialize instead of both passing the count check.
func (s *service) Create(ctx context.Context, principal auth.Principal, input CreateOrganizationInput) (*models.Organization, error) {
	if err := s.authorizeCreate(principal, input); err != nil {
		return nil, err
	}

	var created *models.Organization
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		fieldErrs, err := s.collectFieldErrors(ctx, txRepo, input, true)
		if err != nil {
			return err
		}
		if len(fieldErrs) > 0 {
			return pkgerrors.NewValidation("organization validation failed", fieldErrs)
		}

		org := &models.Organization{
			Name:                 input.Name,
			Type:                 input.Type,
			ParentOrganizationID: input.ParentOrganizationID,
			IsActive:             true,
		}
		if err := txRepo.Create(ctx, org); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_organizations_singleton_type") {
				return pkgerrors.NewValidation("organization validation failed", []pkgerrors.FieldError{{
					Field:   "type",
					Message: "an active organization of type " + input.Type.String() + " already exists",
				}})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating organization")
		}
		created = org

		if s.outbox != nil {
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrganizationCreated,
				AggregateType: enums.AggregateOrganization,
				AggregateID:   org.ID,
				Actor: &outbox.ActorRef{
					UserID:         principal.UserID,
					OrganizationID: principal.OrganizationID,
					Role:           principal.Role.String(),
				},
				Data: map[string]any{
					"organization_id": org.ID,
					"name":            org.Name,
					"type":            org.Type,
				},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"organization_id":   created.ID.String(),
			"organization_type": created.Type,
		})
		s.logg.Info(logCtx, "organization created")
	}
	return created, nil
}

// Validate runs exactly the checks Create enforces, persisting nothing. The
// two paths share collectFieldErrors so dry validation cannot drift from the
// committed behavior.
func (s *service) Validate(ctx context.Context, principal auth.Principal, input CreateOrganizationInput) ([]pkgerrors.FieldError, error) {
	if err := s.authorizeCreate(principal, input); err != nil {
		return nil, err
	}
	return s.collectFieldErrors(ctx, s.repo, input, false)
}

// HierarchyTree builds the forest in a single pass over all organizations:
// one list query, one parent to children adjacency map, roots where the
// parent is null. Non-wildcard callers get the subtrees rooted at their own
// organizations.
func (s *service) HierarchyTree(ctx context.Context, principal auth.Principal, includeInactive bool) ([]*TreeNode, error) {
	orgs, err := s.repo.ListAll(ctx, includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing organizations")
	}

	nodes := make(map[uuid.UUID]*TreeNode, len(orgs))
	for _, org := range orgs {
		nodes[org.ID] = &TreeNode{Organization: org}
	}

	var roots []*TreeNode
	for _, org := range orgs {
		node := nodes[org.ID]
		if org.ParentOrganizationID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*org.ParentOrganizationID]
		if !ok {
			// Parent filtered out (inactive); surface the child as a root.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	callerScope := scope.Resolve(principal)
	if callerScope.Wildcard() {
		return roots, nil
	}

	var scoped []*TreeNode
	for id, node := range nodes {
		if callerScope.Contains(id) {
			scoped = append(scoped, node)
		}
	}
	return scoped, nil
}

// PotentialParents lists the organizations that may parent a new organization
// of the given type: active customers plus the primary distributor for
// suppliers, nothing for every other type. Non-wildcard callers only see
// candidates inside their own scope.
func (s *service) PotentialParents(ctx context.Context, principal auth.Principal, orgType enums.OrganizationType) ([]models.Organization, error) {
	if orgType != enums.OrganizationTypeSupplier {
		return []models.Organization{}, nil
	}

	candidates, err := s.repo.ListActiveByTypes(ctx,
		enums.OrganizationTypeCustomer,
		enums.OrganizationTypePrimaryDistributor,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing parent candidates")
	}

	callerScope := scope.Resolve(principal)
	if callerScope.Wildcard() {
		return candidates, nil
	}

	scoped := make([]models.Organization, 0, 1)
	for _, candidate := range candidates {
		if callerScope.Contains(candidate.ID) {
			scoped = append(scoped, candidate)
		}
	}
	return scoped, nil
}

// authorizeCreate gates organization creation: wildcard principals may create
// anything; customer administrators may only register suppliers parented to
// their own organization.
func (s *service) authorizeCreate(principal auth.Principal, input CreateOrganizationInput) error {
	callerScope := scope.Resolve(principal)
	if callerScope.Wildcard() {
		return nil
	}
	if input.Type == enums.OrganizationTypeSupplier &&
		input.ParentOrganizationID != nil &&
		callerScope.Contains(*input.ParentOrganizationID) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "creating this organization is outside your access scope")
}

// collectFieldErrors is the shared rule runner behind Create and Validate.
// When forUpdate is set, the singleton count comes from locked rows inside
// the caller's transaction.
func (s *service) collectFieldErrors(ctx context.Context, r Repository, input CreateOrganizationInput, forUpdate bool) ([]pkgerrors.FieldError, error) {
	activeSameType := 0
	if input.Type.IsValid() && input.Type.IsSingleton() {
		var (
			existing []models.Organization
			err      error
		)
		if forUpdate {
			existing, err = r.LockActiveByType(ctx, input.Type)
		} else {
			existing, err = r.ListActiveByTypes(ctx, input.Type)
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking singleton constraint")
		}
		activeSameType = len(existing)
	}

	all, err := r.ListAll(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading organizations")
	}
	byID := make(map[uuid.UUID]*models.Organization, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}
	lookup := func(id uuid.UUID) (*models.Organization, bool) {
		org, ok := byID[id]
		return org, ok
	}

	return rules.ValidateOrganization(rules.OrganizationInput{
		Name:                 input.Name,
		Type:                 input.Type,
		ParentOrganizationID: input.ParentOrganizationID,
	}, nil, activeSameType, lookup), nil
}
