package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

const (
	AggregateTypeSale      = "Sale"
	EventTypeSaleCompleted = "SaleCompleted"
)

// SaleCompletedEvent is raised after a checkout commits
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	Reference   string          `json:"reference"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
}

// NewSaleCompletedEvent creates the event for s
func NewSaleCompletedEvent(s *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, s.ID),
		Reference:       s.Reference,
		WarehouseID:     s.WarehouseID,
		GrandTotal:      s.GrandTotal,
	}
}
