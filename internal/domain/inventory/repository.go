package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// StockItemRepository defines persistence operations for stock items
type StockItemRepository interface {
	// GetOrCreateForUpdate loads the item for the key, creating an empty one if
	// missing, and row-locks it for the rest of the transaction
	GetOrCreateForUpdate(ctx context.Context, key StockKey) (*StockItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockItem, error)
	// SumByProducts returns total on-hand quantity per product across warehouses
	SumByProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
	HasStockInWarehouse(ctx context.Context, warehouseID uuid.UUID) (bool, error)
	HasStockForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
	// SaveWithLock persists the item, failing if its version moved underneath
	SaveWithLock(ctx context.Context, item *StockItem) error
}

// StockMovementRepository persists the append-only movement ledger
type StockMovementRepository interface {
	Create(ctx context.Context, movements ...*StockMovement) error
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

// AdjustmentRepository defines persistence operations for adjustments
type AdjustmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Adjustment, error)
	// Save upserts the header and replaces all items
	Save(ctx context.Context, adjustment *Adjustment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransferRepository defines persistence operations for transfers
type TransferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Transfer, error)
	// Save upserts the header and replaces all items
	Save(ctx context.Context, transfer *Transfer) error
	Delete(ctx context.Context, id uuid.UUID) error
}
