package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mrosales/partsledger-backend/api/middleware"
	"github.com/mrosales/partsledger-backend/api/responses"
	"github.com/mrosales/partsledger-backend/api/validators"
	"github.com/mrosales/partsledger-backend/internal/ledger"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
	"github.com/mrosales/partsledger-backend/pkg/logger"
	"github.com/mrosales/partsledger-backend/pkg/pagination"
)

type appendTransactionRequest struct {
	Type            string          `json:"type" validate:"required"`
	PartID          uuid.UUID       `json:"part_id" validate:"required"`
	FromWarehouseID *uuid.UUID      `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   *uuid.UUID      `json:"to_warehouse_id,omitempty"`
	MachineID       *uuid.UUID      `json:"machine_id,omitempty"`
	Direction       *string         `json:"direction,omitempty"`
	Quantity        decimal.Decimal `json:"quantity" validate:"required"`
	OccurredAt      *time.Time      `json:"occurred_at,omitempty"`
	Notes           *string         `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

func (r appendTransactionRequest) toInput() ledger.AppendInput {
	input := ledger.AppendInput{
		Type:            enums.TransactionType(r.Type),
		PartID:          r.PartID,
		FromWarehouseID: r.FromWarehouseID,
		ToWarehouseID:   r.ToWarehouseID,
		MachineID:       r.MachineID,
		Quantity:        r.Quantity,
		OccurredAt:      r.OccurredAt,
		Notes:           r.Notes,
	}
	if r.Direction != nil {
		direction := enums.AdjustmentDirection(*r.Direction)
		input.Direction = &direction
	}
	return input
}

// TransactionAppend commits one stock movement to the ledger. The request
// either fully commits (transaction row plus balance updates) or has no
// effect at all.
func TransactionAppend(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var req appendTransactionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Append(r.Context(), principal, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func TransactionList(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := middleware.PrincipalFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListTransactions(r.Context(), principal, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
