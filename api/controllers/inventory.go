package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrosales/partsledger-backend/api/middleware"
	"github.com/mrosales/partsledger-backend/api/responses"
	"github.com/mrosales/partsledger-backend/api/validators"
	"github.com/mrosales/partsledger-backend/internal/ledger"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
	"github.com/mrosales/partsledger-backend/pkg/logger"
)

func InventoryWarehouse(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "warehouseId"), "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.WarehouseBalances(r.Context(), principal, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func InventoryOrganizationAggregated(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		id, err := validators.ParsePathUUID(chi.URLParam(r, "organizationId"), "organization_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.OrganizationAggregated(r.Context(), principal, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// InventoryRebuildBalance audits one (warehouse, part) balance against the
// full ledger history, repairing the materialized row if it drifted.
func InventoryRebuildBalance(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		warehouseID, err := validators.ParsePathUUID(chi.URLParam(r, "warehouseId"), "warehouse_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		partID, err := validators.ParsePathUUID(chi.URLParam(r, "partId"), "part_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RebuildBalance(r.Context(), principal, warehouseID, partID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
