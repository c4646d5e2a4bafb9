package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrosales/partsledger-backend/api/middleware"
	"github.com/mrosales/partsledger-backend/api/responses"
	"github.com/mrosales/partsledger-backend/api/validators"
	"github.com/mrosales/partsledger-backend/internal/parts"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
	"github.com/mrosales/partsledger-backend/pkg/logger"
)

type createPartRequest struct {
	PartNumber    string   `json:"part_number" validate:"required,min=1,max=100"`
	Name          string   `json:"name" validate:"required,min=1,max=200"`
	PartType      string   `json:"part_type" validate:"required"`
	IsProprietary bool     `json:"is_proprietary"`
	UnitOfMeasure string   `json:"unit_of_measure" validate:"required,min=1,max=50"`
	Tags          []string `json:"tags,omitempty"`
}

type updatePartRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	IsProprietary *bool    `json:"is_proprietary,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

func PartCreate(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req createPartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.Create(r.Context(), principal, parts.CreatePartInput{
			PartNumber:    req.PartNumber,
			Name:          req.Name,
			PartType:      enums.PartType(req.PartType),
			IsProprietary: req.IsProprietary,
			UnitOfMeasure: req.UnitOfMeasure,
			Tags:          req.Tags,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, part)
	}
}

func PartList(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		list, err := svc.List(r.Context(), principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func PartDetail(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "partId"), "part_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.Get(r.Context(), principal, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, part)
	}
}

func PartUpdate(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "partId"), "part_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updatePartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		part, err := svc.Update(r.Context(), principal, id, parts.UpdatePartInput{
			Name:          req.Name,
			IsProprietary: req.IsProprietary,
			Tags:          req.Tags,
			IsActive:      req.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, part)
	}
}
