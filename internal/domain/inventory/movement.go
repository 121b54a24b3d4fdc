package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// SourceType identifies the document that caused a stock movement
type SourceType string

const (
	SourceTypeAdjustment SourceType = "ADJUSTMENT"
	SourceTypeTransfer   SourceType = "TRANSFER"
	SourceTypeSale       SourceType = "SALE"
)

// IsValid returns true if the source type is known
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeAdjustment, SourceTypeTransfer, SourceTypeSale:
		return true
	}
	return false
}

// MovementSource describes the document a batch of movements belongs to
type MovementSource struct {
	Type      SourceType
	ID        uuid.UUID
	Reference string
	Reason    string
}

// StockMovement is an immutable ledger entry recording one change to a stock item
type StockMovement struct {
	shared.BaseEntity
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // signed
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SourceType    SourceType      `gorm:"type:varchar(20);not null;index:idx_stock_movement_source,priority:1"`
	SourceID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_source,priority:2"`
	Reference     string          `gorm:"type:varchar(50)"`
	Reason        string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a change already applied to item
func NewStockMovement(item *StockItem, delta, before, after decimal.Decimal, src MovementSource) *StockMovement {
	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		WarehouseID:   item.WarehouseID,
		ProductID:     item.ProductID,
		Quantity:      delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		SourceType:    src.Type,
		SourceID:      src.ID,
		Reference:     src.Reference,
		Reason:        src.Reason,
	}
}

// IsIncrease returns true for inbound movements
func (m *StockMovement) IsIncrease() bool {
	return m.Quantity.IsPositive()
}
