package inventory

import (
	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/shared"
)

const (
	AggregateTypeAdjustment = "Adjustment"
	AggregateTypeTransfer   = "Transfer"

	EventTypeAdjustmentCreated = "AdjustmentCreated"
	EventTypeAdjustmentUpdated = "AdjustmentUpdated"
	EventTypeAdjustmentDeleted = "AdjustmentDeleted"
	EventTypeTransferCreated   = "TransferCreated"
	EventTypeTransferUpdated   = "TransferUpdated"
	EventTypeTransferDeleted   = "TransferDeleted"
)

// AdjustmentEvent is raised when an adjustment is created, revised or deleted
type AdjustmentEvent struct {
	shared.BaseDomainEvent
	Reference   string    `json:"reference"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	ItemCount   int       `json:"item_count"`
}

// NewAdjustmentEvent creates an adjustment event of the given type
func NewAdjustmentEvent(eventType string, a *Adjustment) *AdjustmentEvent {
	return &AdjustmentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeAdjustment, a.ID),
		Reference:       a.Reference,
		WarehouseID:     a.WarehouseID,
		ItemCount:       len(a.Items),
	}
}

// TransferEvent is raised when a transfer is created, revised or deleted
type TransferEvent struct {
	shared.BaseDomainEvent
	Reference       string    `json:"reference"`
	FromWarehouseID uuid.UUID `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id"`
	ItemCount       int       `json:"item_count"`
}

// NewTransferEvent creates a transfer event of the given type
func NewTransferEvent(eventType string, t *Transfer) *TransferEvent {
	return &TransferEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTransfer, t.ID),
		Reference:       t.Reference,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		ItemCount:       len(t.Items),
	}
}
