package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// AdjustmentType is the direction of an adjustment line
type AdjustmentType string

const (
	AdjustmentTypeAddition    AdjustmentType = "addition"
	AdjustmentTypeSubtraction AdjustmentType = "subtraction"
)

// IsValid returns true if the type is known
func (t AdjustmentType) IsValid() bool {
	return t == AdjustmentTypeAddition || t == AdjustmentTypeSubtraction
}

// AdjustmentLine is the input for one adjustment item
type AdjustmentLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	Type      AdjustmentType
}

// AdjustmentItem is one product line of an adjustment
type AdjustmentItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AdjustmentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Type         AdjustmentType  `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (AdjustmentItem) TableName() string {
	return "adjustment_items"
}

// SignedQuantity is +Quantity for additions and -Quantity for subtractions
func (i AdjustmentItem) SignedQuantity() decimal.Decimal {
	if i.Type == AdjustmentTypeSubtraction {
		return i.Quantity.Neg()
	}
	return i.Quantity
}

// Adjustment is a manual correction of stock quantities at one warehouse
type Adjustment struct {
	shared.BaseAggregateRoot
	Reference   string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	WarehouseID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Date        time.Time        `gorm:"not null"`
	Note        string           `gorm:"type:text"`
	CreatedBy   *uuid.UUID       `gorm:"type:uuid"`
	Items       []AdjustmentItem `gorm:"foreignKey:AdjustmentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Adjustment) TableName() string {
	return "adjustments"
}

// NewAdjustment creates an adjustment. An empty reference is generated from the date.
func NewAdjustment(reference string, warehouseID uuid.UUID, date time.Time, note string, lines []AdjustmentLine) (*Adjustment, error) {
	reference = strings.TrimSpace(reference)
	if date.IsZero() {
		date = time.Now()
	}
	if reference == "" {
		reference = shared.GenerateReference("ADJ", date)
	}
	if len(reference) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 50 characters")
	}

	a := &Adjustment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
	}
	if err := a.apply(warehouseID, date, note, lines); err != nil {
		return nil, err
	}
	a.Record(NewAdjustmentEvent(EventTypeAdjustmentCreated, a))
	return a, nil
}

// Revise replaces the header and items of the adjustment
func (a *Adjustment) Revise(warehouseID uuid.UUID, date time.Time, note string, lines []AdjustmentLine) error {
	if date.IsZero() {
		date = a.Date
	}
	if err := a.apply(warehouseID, date, note, lines); err != nil {
		return err
	}
	a.IncrementVersion()
	a.Record(NewAdjustmentEvent(EventTypeAdjustmentUpdated, a))
	return nil
}

// MarkDeleted records the deletion event
func (a *Adjustment) MarkDeleted() {
	a.Record(NewAdjustmentEvent(EventTypeAdjustmentDeleted, a))
}

// StockDeltas returns the signed stock changes this adjustment represents
func (a *Adjustment) StockDeltas() []StockDelta {
	out := make([]StockDelta, 0, len(a.Items))
	for _, it := range a.Items {
		out = append(out, StockDelta{
			StockKey: StockKey{WarehouseID: a.WarehouseID, ProductID: it.ProductID},
			Quantity: it.SignedQuantity(),
		})
	}
	return out
}

// ProductIDs returns the products referenced by the items
func (a *Adjustment) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(a.Items))
	for _, it := range a.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (a *Adjustment) apply(warehouseID uuid.UUID, date time.Time, note string, lines []AdjustmentLine) error {
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is required")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Adjustment must contain at least one item")
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	items := make([]AdjustmentItem, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product is required on every item")
		}
		if _, dup := seen[l.ProductID]; dup {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Each product may appear only once")
		}
		seen[l.ProductID] = struct{}{}
		if !l.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if !l.Type.IsValid() {
			return shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Type must be addition or subtraction")
		}
		items = append(items, AdjustmentItem{
			ID:           uuid.New(),
			AdjustmentID: a.ID,
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			Type:         l.Type,
		})
	}

	a.WarehouseID = warehouseID
	a.Date = date
	a.Note = note
	a.Items = items
	return nil
}
