package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrosales/partsledger-backend/internal/repo"
	"github.com/mrosales/partsledger-backend/pkg/db/models"
	"github.com/mrosales/partsledger-backend/pkg/pagination"
)

// BalanceRow is a warehouse balance joined with its part's catalog fields.
type BalanceRow struct {
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	PartID        uuid.UUID       `json:"part_id"`
	PartNumber    string          `json:"part_number"`
	PartName      string          `json:"part_name"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AggregatedRow is an organization-wide stock total for one part, summed
// across every warehouse in scope.
type AggregatedRow struct {
	PartID        uuid.UUID       `json:"part_id"`
	PartNumber    string          `json:"part_number"`
	PartName      string          `json:"part_name"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	TotalStock    decimal.Decimal `json:"total_stock"`
}

// Repository manages persistence for the stock ledger and its materialized
// balances. Balance writes only ever happen through LockBalance/SaveBalance
// inside the append transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	InsertTransaction(ctx context.Context, row *models.StockTransaction) error
	GetPart(ctx context.Context, id uuid.UUID) (*models.Part, error)

	// LockBalance fetches the balance row for the key under a row lock,
	// creating a zero row on first touch. Must run inside a transaction.
	LockBalance(ctx context.Context, warehouseID, partID uuid.UUID) (*models.StockBalance, error)
	SaveBalance(ctx context.Context, balance *models.StockBalance) error

	GetBalance(ctx context.Context, warehouseID, partID uuid.UUID) (*models.StockBalance, error)
	ListBalancesByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]BalanceRow, error)
	AggregateByPart(ctx context.Context, orgIDs []uuid.UUID) ([]AggregatedRow, error)

	ListTransactionsForKey(ctx context.Context, warehouseID, partID uuid.UUID) ([]models.StockTransaction, error)
	ListTransactions(ctx context.Context, orgIDs []uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.StockTransaction, error)
}

type repository struct {
	repo.Base
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: repo.NewBase(tx)}
}

func (r *repository) InsertTransaction(ctx context.Context, row *models.StockTransaction) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.DB(ctx).Create(row).Error
}

func (r *repository) GetPart(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	if err := r.DB(ctx).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) LockBalance(ctx context.Context, warehouseID, partID uuid.UUID) (*models.StockBalance, error) {
	var balance models.StockBalance
	err := r.DB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(models.StockBalance{WarehouseID: warehouseID, PartID: partID}).
		FirstOrCreate(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *repository) SaveBalance(ctx context.Context, balance *models.StockBalance) error {
	return r.DB(ctx).Save(balance).Error
}

func (r *repository) GetBalance(ctx context.Context, warehouseID, partID uuid.UUID) (*models.StockBalance, error) {
	var balance models.StockBalance
	err := r.DB(ctx).
		Where("warehouse_id = ? AND part_id = ?", warehouseID, partID).
		First(&balance).Error
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *repository) ListBalancesByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]BalanceRow, error) {
	var rows []BalanceRow
	err := r.DB(ctx).
		Table("stock_balances").
		Select(`stock_balances.warehouse_id,
			stock_balances.part_id,
			parts.part_number,
			parts.name AS part_name,
			parts.unit_of_measure,
			stock_balances.current_stock,
			stock_balances.updated_at`).
		Joins("JOIN parts ON parts.id = stock_balances.part_id").
		Where("stock_balances.warehouse_id = ?", warehouseID).
		Order("parts.part_number ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) AggregateByPart(ctx context.Context, orgIDs []uuid.UUID) ([]AggregatedRow, error) {
	query := r.DB(ctx).
		Table("stock_balances").
		Select(`stock_balances.part_id,
			parts.part_number,
			parts.name AS part_name,
			parts.unit_of_measure,
			SUM(stock_balances.current_stock) AS total_stock`).
		Joins("JOIN parts ON parts.id = stock_balances.part_id").
		Joins("JOIN warehouses ON warehouses.id = stock_balances.warehouse_id").
		Group("stock_balances.part_id, parts.part_number, parts.name, parts.unit_of_measure").
		Order("parts.part_number ASC")
	if orgIDs != nil {
		query = query.Where("warehouses.organization_id IN ?", orgIDs)
	}

	var rows []AggregatedRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListTransactionsForKey(ctx context.Context, warehouseID, partID uuid.UUID) ([]models.StockTransaction, error) {
	var rows []models.StockTransaction
	err := r.DB(ctx).
		Where("part_id = ? AND (from_warehouse_id = ? OR to_warehouse_id = ?)", partID, warehouseID, warehouseID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListTransactions(ctx context.Context, orgIDs []uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.StockTransaction, error) {
	query := r.DB(ctx).Model(&models.StockTransaction{})
	if orgIDs != nil {
		scoped := r.DB(ctx).
			Table("warehouses").
			Select("id").
			Where("organization_id IN ?", orgIDs)
		query = query.Where(
			"from_warehouse_id IN (?) OR to_warehouse_id IN (?)",
			scoped, scoped,
		)
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.StockTransaction
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
