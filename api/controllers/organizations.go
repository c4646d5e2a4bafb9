package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/api/middleware"
	"github.com/mrosales/partsledger-backend/api/responses"
	"github.com/mrosales/partsledger-backend/api/validators"
	"github.com/mrosales/partsledger-backend/internal/organizations"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
	"github.com/mrosales/partsledger-backend/pkg/logger"
)

type createOrganizationRequest struct {
	Name                 string     `json:"name" validate:"required,min=1,max=200"`
	Type                 string     `json:"type" validate:"required"`
	ParentOrganizationID *uuid.UUID `json:"parent_organization_id,omitempty"`
}

func (r createOrganizationRequest) toInput() organizations.CreateOrganizationInput {
	return organizations.CreateOrganizationInput{
		Name:                 r.Name,
		Type:                 enums.OrganizationType(r.Type),
		ParentOrganizationID: r.ParentOrganizationID,
	}
}

func OrganizationCreate(svc organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req createOrganizationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		org, err := svc.Create(r.Context(), principal, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, org)
	}
}

type validateOrganizationResponse struct {
	Valid  bool                   `json:"valid"`
	Errors []pkgerrors.FieldError `json:"errors"`
}

// OrganizationValidate runs the create checks without persisting anything.
// The response is always 200; failures appear in the payload so forms can
// show them inline.
func OrganizationValidate(svc organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req createOrganizationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		fields, err := svc.Validate(r.Context(), principal, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if fields == nil {
			fields = []pkgerrors.FieldError{}
		}
		responses.WriteSuccess(w, validateOrganizationResponse{Valid: len(fields) == 0, Errors: fields})
	}
}

func OrganizationHierarchy(svc organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		includeInactive, err := validators.ParseQueryBool(r, "include_inactive")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tree, err := svc.HierarchyTree(r.Context(), principal, includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tree)
	}
}

func OrganizationPotentialParents(svc organizations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		orgType := enums.OrganizationType(r.URL.Query().Get("type"))
		parents, err := svc.PotentialParents(r.Context(), principal, orgType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, parents)
	}
}
