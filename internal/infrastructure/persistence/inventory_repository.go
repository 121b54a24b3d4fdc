package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	stockItemList = listSpec{
		sortFields:   fields("warehouse_id", "product_id", "quantity"),
		filterFields: set("warehouse_id", "product_id"),
	}
	movementList = listSpec{
		sortFields:   fields("warehouse_id", "product_id", "quantity", "source_type"),
		filterFields: set("warehouse_id", "product_id", "source_type", "source_id"),
	}
	adjustmentList = listSpec{
		sortFields:   fields("reference", "date", "warehouse_id"),
		filterFields: set("warehouse_id", "created_by"),
		defaultSort:  "date",
	}
	transferList = listSpec{
		sortFields:   fields("reference", "date", "from_warehouse_id", "to_warehouse_id"),
		filterFields: set("from_warehouse_id", "to_warehouse_id", "created_by"),
		defaultSort:  "date",
	}
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// GetOrCreateForUpdate selects the row FOR UPDATE, inserting an empty one
// first when the pair has never held stock
func (r *GormStockItemRepository) GetOrCreateForUpdate(ctx context.Context, key inventory.StockKey) (*inventory.StockItem, error) {
	item, err := r.findForUpdate(ctx, key)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err = inventory.NewStockItem(key.WarehouseID, key.ProductID)
	if err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "warehouse_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(item)
	if result.Error != nil {
		return nil, result.Error
	}
	// Lost the insert race; take the lock on the winner's row
	if result.RowsAffected == 0 {
		return r.findForUpdate(ctx, key)
	}
	return item, nil
}

func (r *GormStockItemRepository) findForUpdate(ctx context.Context, key inventory.StockKey) (*inventory.StockItem, error) {
	var item inventory.StockItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND product_id = ?", key.WarehouseID, key.ProductID).
		First(&item).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &item, nil
}

func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := applyList(r.db.WithContext(ctx).Model(&inventory.StockItem{}), filter, stockItemList)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormStockItemRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("warehouse_id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

type productQuantity struct {
	ProductID uuid.UUID
	Total     decimal.Decimal
}

// SumByProducts totals on-hand quantity per product. Products with no rows
// are absent from the result.
func (r *GormStockItemRepository) SumByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	totals := make(map[uuid.UUID]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return totals, nil
	}
	var rows []productQuantity
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Select("product_id, SUM(quantity) AS total").
		Where("product_id IN ?", productIDs).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.ProductID] = row.Total
	}
	return totals, nil
}

func (r *GormStockItemRepository) HasStockInWarehouse(ctx context.Context, warehouseID uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &inventory.StockItem{}, "warehouse_id = ? AND quantity > 0", warehouseID)
}

func (r *GormStockItemRepository) HasStockForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &inventory.StockItem{}, "product_id = ? AND quantity > 0", productID)
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *inventory.StockItem) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.StockItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"quantity":   item.Quantity,
			"version":    item.Version,
			"updated_at": item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Stock item was modified by another transaction")
	}
	return nil
}

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create inserts movements in one batch
func (r *GormStockMovementRepository) Create(ctx context.Context, movements ...*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

func (r *GormStockMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := applyList(r.db.WithContext(ctx).Model(&inventory.StockMovement{}), filter, movementList)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *GormStockMovementRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &inventory.StockMovement{}, "product_id = ?", productID)
}

// GormAdjustmentRepository implements AdjustmentRepository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Adjustment, error) {
	var a inventory.Adjustment
	if err := r.db.WithContext(ctx).Preload("Items").First(&a, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

func (r *GormAdjustmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Adjustment, error) {
	var adjustments []inventory.Adjustment
	query := applyList(r.db.WithContext(ctx).Model(&inventory.Adjustment{}).Preload("Items"), filter, adjustmentList)
	if err := query.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}

// Save writes the header then replaces every item row. Callers run it inside
// a transaction.
func (r *GormAdjustmentRepository) Save(ctx context.Context, adjustment *inventory.Adjustment) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(adjustment).Error; err != nil {
		return translateError(err)
	}
	if err := db.Where("adjustment_id = ?", adjustment.ID).Delete(&inventory.AdjustmentItem{}).Error; err != nil {
		return err
	}
	if len(adjustment.Items) == 0 {
		return nil
	}
	return db.Create(&adjustment.Items).Error
}

func (r *GormAdjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("adjustment_id = ?", id).Delete(&inventory.AdjustmentItem{}).Error; err != nil {
		return err
	}
	return deleteByID(ctx, r.db, &inventory.Adjustment{}, id)
}

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Transfer, error) {
	var t inventory.Transfer
	if err := r.db.WithContext(ctx).Preload("Items").First(&t, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Transfer, error) {
	var transfers []inventory.Transfer
	query := applyList(r.db.WithContext(ctx).Model(&inventory.Transfer{}).Preload("Items"), filter, transferList)
	if err := query.Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// Save writes the header then replaces every item row. Callers run it inside
// a transaction.
func (r *GormTransferRepository) Save(ctx context.Context, transfer *inventory.Transfer) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(transfer).Error; err != nil {
		return translateError(err)
	}
	if err := db.Where("transfer_id = ?", transfer.ID).Delete(&inventory.TransferItem{}).Error; err != nil {
		return err
	}
	if len(transfer.Items) == 0 {
		return nil
	}
	return db.Create(&transfer.Items).Error
}

func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("transfer_id = ?", id).Delete(&inventory.TransferItem{}).Error; err != nil {
		return err
	}
	return deleteByID(ctx, r.db, &inventory.Transfer{}, id)
}

var (
	_ inventory.StockItemRepository     = (*GormStockItemRepository)(nil)
	_ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
	_ inventory.AdjustmentRepository    = (*GormAdjustmentRepository)(nil)
	_ inventory.TransferRepository      = (*GormTransferRepository)(nil)
)
