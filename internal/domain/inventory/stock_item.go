package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// StockItem is the on-hand quantity of one product in one warehouse.
// Rows are created lazily the first time a movement touches the pair.
type StockItem struct {
	shared.BaseAggregateRoot
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_warehouse_product,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_item_warehouse_product,priority:2;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates an empty stock item
func NewStockItem(warehouseID, productID uuid.UUID) (*StockItem, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		ProductID:         productID,
		Quantity:          decimal.Zero,
	}, nil
}

// Key returns the (warehouse, product) pair identifying the item
func (s *StockItem) Key() StockKey {
	return StockKey{WarehouseID: s.WarehouseID, ProductID: s.ProductID}
}

// Apply adds a signed delta to the on-hand quantity and returns the balance
// before and after. The quantity never goes below zero.
func (s *StockItem) Apply(delta decimal.Decimal) (before, after decimal.Decimal, err error) {
	before = s.Quantity
	after = before.Add(delta)
	if after.IsNegative() {
		return before, before, shared.NewDomainError("INSUFFICIENT_STOCK",
			"Insufficient stock: available "+before.String()+", change "+delta.String())
	}
	s.Quantity = after
	s.IncrementVersion()
	return before, after, nil
}

// IsEmpty returns true when nothing is on hand
func (s *StockItem) IsEmpty() bool {
	return s.Quantity.IsZero()
}
