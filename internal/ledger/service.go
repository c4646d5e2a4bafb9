package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mrosales/partsledger-backend/internal/rules"
	"github.com/mrosales/partsledger-backend/internal/scope"
	"github.com/mrosales/partsledger-backend/pkg/auth"
	"github.com/mrosales/partsledger-backend/pkg/config"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/enums"
	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
	"github.com/mrosales/partsledger-backend/pkg/logger"
	"github.com/mrosales/partsledger-backend/pkg/metrics"
	"github.com/mrosales/partsledger-backend/pkg/outbox"
	"github.com/mrosales/partsledger-backend/pkg/pagination"
)

// AppendInput describes a proposed stock movement. Exactly the fields valid
// for the transaction type may be set; the shape rules reject everything else.
type AppendInput struct {
	Type            enums.TransactionType
	PartID          uuid.UUID
	FromWarehouseID *uuid.UUID
	ToWarehouseID   *uuid.UUID
	MachineID       *uuid.UUID
	Direction       *enums.AdjustmentDirection
	Quantity        decimal.Decimal
	OccurredAt      *time.Time
	Notes           *string
}

// AppendResult is the committed transaction with the balance rows it updated.
type AppendResult struct {
	Transaction *models.StockTransaction `json:"transaction"`
	Balances    []models.StockBalance    `json:"balances"`
}

// RebuildResult reports a balance audit: the value folded from the full
// transaction history against the materialized row.
type RebuildResult struct {
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	PartID       uuid.UUID       `json:"part_id"`
	Computed     decimal.Decimal `json:"computed"`
	Materialized decimal.Decimal `json:"materialized"`
	Match        bool            `json:"match"`
}

// TransactionPage is one keyset page of ledger history.
type TransactionPage struct {
	Items      []models.StockTransaction `json:"items"`
	NextCursor string                    `json:"next_cursor,omitempty"`
}

// Service is the single entry point for all stock movement. Append is the
// only path that writes balance rows; reads are O(1) against the
// materialized table.
type Service interface {
	Append(ctx context.Context, principal auth.Principal, input AppendInput) (*AppendResult, error)
	CurrentStock(ctx context.Context, principal auth.Principal, warehouseID, partID uuid.UUID) (decimal.Decimal, error)
	WarehouseBalances(ctx context.Context, principal auth.Principal, warehouseID uuid.UUID) ([]BalanceRow, error)
	OrganizationAggregated(ctx context.Context, principal auth.Principal, orgID uuid.UUID) ([]AggregatedRow, error)
	RebuildBalance(ctx context.Context, principal auth.Principal, warehouseID, partID uuid.UUID) (*RebuildResult, error)
	ListTransactions(ctx context.Context, principal auth.Principal, params pagination.Params) (*TransactionPage, error)
}

// TxRunner runs a function inside one database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	tx      TxRunner
	repo    Repository
	scopes  *scope.Service
	outbox  *outbox.Service
	metrics *metrics.LedgerMetrics
	cfg     config.InventoryConfig
	logg    *logger.Logger
}

// NewService wires the ledger service.
func NewService(
	tx TxRunner,
	repo Repository,
	scopes *scope.Service,
	ob *outbox.Service,
	m *metrics.LedgerMetrics,
	cfg config.InventoryConfig,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if scopes == nil {
		return nil, fmt.Errorf("scope service required")
	}
	return &service{
		tx:      tx,
		repo:    repo,
		scopes:  scopes,
		outbox:  ob,
		metrics: m,
		cfg:     cfg,
		logg:    logg,
	}, nil
}

// balanceDelta is one signed contribution to a (warehouse, part) key.
type balanceDelta struct {
	warehouseID uuid.UUID
	partID      uuid.UUID
	delta       decimal.Decimal
}

// Append validates, authorizes, and commits one stock movement atomically:
// the transaction row and every affected balance row succeed or roll back
// together. Balance rows are taken under row locks in ascending key order so
// concurrent appends on the same key serialize and opposing transfers cannot
// deadlock.
func (s *service) Append(ctx context.Context, principal auth.Principal, input AppendInput) (*AppendResult, error) {
	started := time.Now()
	result, err := s.append(ctx, principal, input)
	s.metrics.ObserveAppendDuration(input.Type.String(), time.Since(started))
	s.metrics.IncAppend(input.Type.String(), appendOutcome(err))
	return result, err
}

func appendOutcome(err error) string {
	if err == nil {
		return metrics.OutcomeCommitted
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
		return metrics.OutcomeConflict
	}
	return metrics.OutcomeRejected
}

func (s *service) append(ctx context.Context, principal auth.Principal, input AppendInput) (*AppendResult, error) {
	shapeErrs := rules.ValidateTransactionShape(rules.TransactionInput{
		Type:            input.Type,
		PartID:          input.PartID,
		FromWarehouseID: input.FromWarehouseID,
		ToWarehouseID:   input.ToWarehouseID,
		MachineID:       input.MachineID,
		Direction:       input.Direction,
		Quantity:        input.Quantity,
	})
	if len(shapeErrs) > 0 {
		return nil, pkgerrors.NewValidation("transaction validation failed", shapeErrs)
	}

	part, err := s.repo.GetPart(ctx, input.PartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading part")
	}
	if quantityErrs := rules.ValidateQuantity(part.PartType, input.Quantity); len(quantityErrs) > 0 {
		return nil, pkgerrors.NewValidation("transaction validation failed", quantityErrs)
	}

	if err := s.authorizeReferences(ctx, principal, input); err != nil {
		return nil, err
	}

	occurredAt := time.Now()
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}
	row := &models.StockTransaction{
		Type:              input.Type,
		PartID:            input.PartID,
		FromWarehouseID:   input.FromWarehouseID,
		ToWarehouseID:     input.ToWarehouseID,
		MachineID:         input.MachineID,
		Direction:         input.Direction,
		Quantity:          input.Quantity,
		PerformedByUserID: principal.UserID,
		OccurredAt:        occurredAt,
		Notes:             input.Notes,
	}

	deltas := deltasFor(row)
	sortDeltas(deltas)
	writeOff := s.writeOffPermitted(input)

	var updated []models.StockBalance
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		// Lock and stage every affected key before saving anything so a
		// rejection leaves zero partial effect.
		staged := make([]*models.StockBalance, 0, len(deltas))
		for _, d := range deltas {
			balance, err := txRepo.LockBalance(ctx, d.warehouseID, d.partID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "locking balance row")
			}
			next := balance.CurrentStock.Add(d.delta)
			if next.IsNegative() && !writeOff {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf(
					"insufficient stock: %s available, %s requested",
					balance.CurrentStock.String(), d.delta.Abs().String(),
				))
			}
			balance.CurrentStock = next
			balance.Version++
			staged = append(staged, balance)
		}

		for _, balance := range staged {
			if err := txRepo.SaveBalance(ctx, balance); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving balance row")
			}
			updated = append(updated, *balance)
		}

		if err := txRepo.InsertTransaction(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "inserting transaction")
		}

		if s.outbox != nil {
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventTransactionCommitted,
				AggregateType: enums.AggregateTransaction,
				AggregateID:   row.ID,
				Actor: &outbox.ActorRef{
					UserID:         principal.UserID,
					OrganizationID: principal.OrganizationID,
					Role:           principal.Role.String(),
				},
				Data: map[string]any{
					"transaction_id": row.ID,
					"type":           row.Type,
					"part_id":        row.PartID,
					"quantity":       row.Quantity,
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
			"transaction_id":   row.ID.String(),
			"transaction_type": row.Type,
			"part_id":          row.PartID.String(),
		})
		s.logg.Info(logCtx, "stock transaction committed")
	}
	return &AppendResult{Transaction: row, Balances: updated}, nil
}

// authorizeReferences scope-checks every warehouse and machine the movement
// names. The one sanctioned cross-boundary case lives in the scope resolver:
// a customer's inbound transfer may name a distributor-owned source.
func (s *service) authorizeReferences(ctx context.Context, principal auth.Principal, input AppendInput) error {
	switch input.Type {
	case enums.TransactionTypeCreation:
		_, err := s.scopes.AuthorizeWarehouse(ctx, principal, *input.ToWarehouseID)
		return err

	case enums.TransactionTypeTransfer:
		if _, err := s.scopes.AuthorizeWarehouse(ctx, principal, *input.ToWarehouseID); err != nil {
			return err
		}
		_, err := s.scopes.AuthorizeTransferSource(ctx, principal, *input.FromWarehouseID)
		return err

	case enums.TransactionTypeConsumption:
		if _, err := s.scopes.AuthorizeWarehouse(ctx, principal, *input.FromWarehouseID); err != nil {
			return err
		}
		_, err := s.scopes.AuthorizeMachine(ctx, principal, *input.MachineID)
		return err

	case enums.TransactionTypeAdjustment:
		target := input.ToWarehouseID
		if target == nil {
			target = input.FromWarehouseID
		}
		_, err := s.scopes.AuthorizeWarehouse(ctx, principal, *target)
		return err
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "unknown transaction type")
}

// writeOffPermitted reports whether this movement may drive a balance
// negative. Only decrease adjustments qualify, and only when the write-off
// policy flag is enabled.
func (s *service) writeOffPermitted(input AppendInput) bool {
	return s.cfg.AllowWriteOff &&
		input.Type == enums.TransactionTypeAdjustment &&
		input.Direction != nil &&
		*input.Direction == enums.AdjustmentDirectionDecrease
}

// deltasFor maps a transaction row onto its signed balance contributions. A
// transfer produces an indivisible pair; everything else touches one key.
func deltasFor(row *models.StockTransaction) []balanceDelta {
	switch row.Type {
	case enums.TransactionTypeCreation:
		return []balanceDelta{{warehouseID: *row.ToWarehouseID, partID: row.PartID, delta: row.Quantity}}

	case enums.TransactionTypeConsumption:
		return []balanceDelta{{warehouseID: *row.FromWarehouseID, partID: row.PartID, delta: row.Quantity.Neg()}}

	case enums.TransactionTypeTransfer:
		return []balanceDelta{
			{warehouseID: *row.FromWarehouseID, partID: row.PartID, delta: row.Quantity.Neg()},
			{warehouseID: *row.ToWarehouseID, partID: row.PartID, delta: row.Quantity},
		}

	case enums.TransactionTypeAdjustment:
		warehouseID := row.FromWarehouseID
		if warehouseID == nil {
			warehouseID = row.ToWarehouseID
		}
		delta := row.Quantity
		if row.Direction != nil && *row.Direction == enums.AdjustmentDirectionDecrease {
			delta = delta.Neg()
		}
		return []balanceDelta{{warehouseID: *warehouseID, partID: row.PartID, delta: delta}}
	}
	return nil
}

// sortDeltas orders keys ascending so every append acquires its locks in the
// same global order.
func sortDeltas(deltas []balanceDelta) {
	sort.Slice(deltas, func(i, j int) bool {
		if cmp := bytes.Compare(deltas[i].warehouseID[:], deltas[j].warehouseID[:]); cmp != 0 {
			return cmp < 0
		}
		return bytes.Compare(deltas[i].partID[:], deltas[j].partID[:]) < 0
	})
}

// CurrentStock reads the materialized balance for one key. Keys no
// transaction has touched read as zero; the ledger is never replayed here.
func (s *service) CurrentStock(ctx context.Context, principal auth.Principal, warehouseID, partID uuid.UUID) (decimal.Decimal, error) {
	if _, err := s.scopes.AuthorizeWarehouse(ctx, principal, warehouseID); err != nil {
		return decimal.Zero, err
	}
	balance, err := s.repo.GetBalance(ctx, warehouseID, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading balance")
	}
	return balance.CurrentStock, nil
}

// WarehouseBalances lists the materialized balances for one warehouse.
func (s *service) WarehouseBalances(ctx context.Context, principal auth.Principal, warehouseID uuid.UUID) ([]BalanceRow, error) {
	if _, err := s.scopes.AuthorizeWarehouse(ctx, principal, warehouseID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListBalancesByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing balances")
	}
	return rows, nil
}

// OrganizationAggregated sums balances per part across every warehouse owned
// by the organization.
func (s *service) OrganizationAggregated(ctx context.Context, principal auth.Principal, orgID uuid.UUID) ([]AggregatedRow, error) {
	org, err := s.scopes.AuthorizeOrganization(ctx, principal, orgID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.AggregateByPart(ctx, []uuid.UUID{org.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating balances")
	}
	return rows, nil
}

// RebuildBalance folds the full transaction history for one key and writes
// the result back under the same row lock Append uses. At any quiescent point
// the folded value equals the materialized one, and running the rebuild twice
// yields identical results.
func (s *service) RebuildBalance(ctx context.Context, principal auth.Principal, warehouseID, partID uuid.UUID) (*RebuildResult, error) {
	if _, err := s.scopes.AuthorizeWarehouse(ctx, principal, warehouseID); err != nil {
		return nil, err
	}

	var result *RebuildResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		balance, err := txRepo.LockBalance(ctx, warehouseID, partID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "locking balance row")
		}
		history, err := txRepo.ListTransactionsForKey(ctx, warehouseID, partID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading transaction history")
		}

		computed := decimal.Zero
		for i := range history {
			for _, d := range deltasFor(&history[i]) {
				if d.warehouseID == warehouseID && d.partID == partID {
					computed = computed.Add(d.delta)
				}
			}
		}

		result = &RebuildResult{
			WarehouseID:  warehouseID,
			PartID:       partID,
			Computed:     computed,
			Materialized: balance.CurrentStock,
			Match:        computed.Equal(balance.CurrentStock),
		}
		if !result.Match {
			balance.CurrentStock = computed
			balance.Version++
			if err := txRepo.SaveBalance(ctx, balance); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving rebuilt balance")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	label := "match"
	if !result.Match {
		label = "mismatch"
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"warehouse_id": warehouseID.String(),
				"part_id":      partID.String(),
				"computed":     result.Computed.String(),
				"materialized": result.Materialized.String(),
			})
			s.logg.Warn(logCtx, "balance rebuild found drift")
		}
	}
	s.metrics.IncRebuild(label)
	return result, nil
}

// ListTransactions pages the ledger history newest first with a keyset
// cursor. Non-wildcard callers only see movements touching warehouses inside
// their scope.
func (s *service) ListTransactions(ctx context.Context, principal auth.Principal, params pagination.Params) (*TransactionPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.NewValidation("invalid cursor", []pkgerrors.FieldError{{
			Field:   "cursor",
			Message: "cursor is malformed",
		}})
	}

	var orgIDs []uuid.UUID
	callerScope := s.scopes.Resolve(principal)
	if !callerScope.Wildcard() {
		orgIDs = callerScope.OrganizationIDs()
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListTransactions(ctx, orgIDs, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing transactions")
	}

	page := &TransactionPage{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		last := page.Items[len(page.Items)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}
