package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// TransferLine is the input for one transfer item
type TransferLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// TransferItem is one product line of a transfer
type TransferItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransferID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (TransferItem) TableName() string {
	return "transfer_items"
}

// Transfer moves product quantities from one warehouse to another
type Transfer struct {
	shared.BaseAggregateRoot
	Reference       string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	FromWarehouseID uuid.UUID      `gorm:"type:uuid;not null;index"`
	ToWarehouseID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Date            time.Time      `gorm:"not null"`
	Note            string         `gorm:"type:text"`
	CreatedBy       *uuid.UUID     `gorm:"type:uuid"`
	Items           []TransferItem `gorm:"foreignKey:TransferID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// NewTransfer creates a transfer. An empty reference is generated from the date.
func NewTransfer(reference string, fromID, toID uuid.UUID, date time.Time, note string, lines []TransferLine) (*Transfer, error) {
	reference = strings.TrimSpace(reference)
	if date.IsZero() {
		date = time.Now()
	}
	if reference == "" {
		reference = shared.GenerateReference("TRF", date)
	}
	if len(reference) > 50 {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference cannot exceed 50 characters")
	}

	t := &Transfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
	}
	if err := t.apply(fromID, toID, date, note, lines); err != nil {
		return nil, err
	}
	t.Record(NewTransferEvent(EventTypeTransferCreated, t))
	return t, nil
}

// Revise replaces the header and items of the transfer
func (t *Transfer) Revise(fromID, toID uuid.UUID, date time.Time, note string, lines []TransferLine) error {
	if date.IsZero() {
		date = t.Date
	}
	if err := t.apply(fromID, toID, date, note, lines); err != nil {
		return err
	}
	t.IncrementVersion()
	t.Record(NewTransferEvent(EventTypeTransferUpdated, t))
	return nil
}

// MarkDeleted records the deletion event
func (t *Transfer) MarkDeleted() {
	t.Record(NewTransferEvent(EventTypeTransferDeleted, t))
}

// StockDeltas returns -q at the source and +q at the destination for every item
func (t *Transfer) StockDeltas() []StockDelta {
	out := make([]StockDelta, 0, len(t.Items)*2)
	for _, it := range t.Items {
		out = append(out,
			StockDelta{StockKey: StockKey{WarehouseID: t.FromWarehouseID, ProductID: it.ProductID}, Quantity: it.Quantity.Neg()},
			StockDelta{StockKey: StockKey{WarehouseID: t.ToWarehouseID, ProductID: it.ProductID}, Quantity: it.Quantity},
		)
	}
	return out
}

// ProductIDs returns the products referenced by the items
func (t *Transfer) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(t.Items))
	for _, it := range t.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (t *Transfer) apply(fromID, toID uuid.UUID, date time.Time, note string, lines []TransferLine) error {
	if fromID == uuid.Nil || toID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses are required")
	}
	if fromID == toID {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Source and destination warehouses must differ")
	}
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "Transfer must contain at least one item")
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	items := make([]TransferItem, 0, len(lines))
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
		items = append(items, TransferItem{
			ID:         uuid.New(),
			TransferID: t.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
		})
	}

	t.FromWarehouseID = fromID
	t.ToWarehouseID = toID
	t.Date = date
	t.Note = note
	t.Items = items
	return nil
}
