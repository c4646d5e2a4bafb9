package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mrosales/partsledger-backend/api/middleware"
	"github.com/mrosales/partsledger-backend/api/responses"
	"github.com/mrosales/partsledger-backend/api/validators"
	"github.com/mrosales/partsledger-backend/internal/machines"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
	"github.com/mrosales/partsledger-backend/pkg/logger"
)

type createMachineRequest struct {
	OrganizationID uuid.UUID `json:"organization_id" validate:"required"`
	Name           string    `json:"name" validate:"required,min=1,max=200"`
	SerialNumber   *string   `json:"serial_number,omitempty" validate:"omitempty,max=100"`
}

func MachineCreate(svc machines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req createMachineRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		machine, err := svc.Create(r.Context(), principal, machines.CreateMachineInput{
			OrganizationID: req.OrganizationID,
			Name:           req.Name,
			SerialNumber:   req.SerialNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, machine)
	}
}

func MachineList(svc machines.Service, logg *logger.Logger) http.HandlerFunc {
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

func MachineDetail(svc machines.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "machineId"), "machine_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		machine, err := svc.Get(r.Context(), principal, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, machine)
	}
}
