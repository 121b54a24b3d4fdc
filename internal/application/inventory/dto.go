package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// ListFilter carries ordering for list endpoints
type ListFilter struct {
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (f ListFilter) domain() shared.Filter {
	out := shared.DefaultFilter()
	if f.OrderBy != "" {
		out.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		out.OrderDir = f.OrderDir
	}
	return out
}

// withIDs adds a uuid equality filter for every non-empty raw value
func withIDs(f shared.Filter, pairs ...string) (shared.Filter, error) {
	for i := 0; i+1 < len(pairs); i += 2 {
		key, raw := pairs[i], pairs[i+1]
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, shared.NewDomainError("INVALID_INPUT", "Invalid "+key)
		}
		f = f.With(key, id)
	}
	return f, nil
}

// =============================================================================
// Stock
// =============================================================================

// StockListFilter filters stock items
type StockListFilter struct {
	ListFilter
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	ProductID   string `form:"product_id" binding:"omitempty,uuid"`
}

// MovementListFilter filters stock movements
type MovementListFilter struct {
	ListFilter
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	ProductID   string `form:"product_id" binding:"omitempty,uuid"`
	SourceType  string `form:"source_type" binding:"omitempty,oneof=ADJUSTMENT TRANSFER SALE adjustment transfer sale"`
	SourceID    string `form:"source_id" binding:"omitempty,uuid"`
}

// StockItemResponse is a stock item in API responses
type StockItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Version     int             `json:"version"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// WarehouseQuantity is one warehouse's share of a product's stock
type WarehouseQuantity struct {
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ProductStockResponse is a product's stock across warehouses
type ProductStockResponse struct {
	ProductID  uuid.UUID           `json:"product_id"`
	Warehouses []WarehouseQuantity `json:"warehouses"`
	Total      decimal.Decimal     `json:"total"`
}

// MovementResponse is a ledger row in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	SourceType    string          `json:"source_type"`
	SourceID      uuid.UUID       `json:"source_id"`
	Reference     string          `json:"reference"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToStockItemResponse converts a domain stock item
func ToStockItemResponse(s *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:          s.ID,
		WarehouseID: s.WarehouseID,
		ProductID:   s.ProductID,
		Quantity:    s.Quantity,
		Version:     s.Version,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToMovementResponse converts a domain movement
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		WarehouseID:   m.WarehouseID,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		SourceType:    string(m.SourceType),
		SourceID:      m.SourceID,
		Reference:     m.Reference,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt,
	}
}

// =============================================================================
// Adjustments
// =============================================================================

// AdjustmentItemInput is one requested adjustment line
type AdjustmentItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	Type      string          `json:"type" binding:"required,oneof=addition subtraction ADDITION SUBTRACTION"`
}

// AdjustmentRequest creates or replaces an adjustment
type AdjustmentRequest struct {
	Reference   string                `json:"reference" binding:"max=50"`
	WarehouseID uuid.UUID             `json:"warehouse_id" binding:"required"`
	Date        *time.Time            `json:"date"`
	Note        string                `json:"note" binding:"max=2000"`
	Items       []AdjustmentItemInput `json:"items" binding:"required,min=1,dive"`
}

func (r AdjustmentRequest) lines() []inventory.AdjustmentLine {
	out := make([]inventory.AdjustmentLine, len(r.Items))
	for i, it := range r.Items {
		out[i] = inventory.AdjustmentLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Type:      inventory.AdjustmentType(strings.ToLower(it.Type)),
		}
	}
	return out
}

func (r AdjustmentRequest) productIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Items))
	for i, it := range r.Items {
		ids[i] = it.ProductID
	}
	return ids
}

// AdjustmentListFilter filters adjustments
type AdjustmentListFilter struct {
	ListFilter
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
}

// AdjustmentItemResponse is one adjustment line in API responses
type AdjustmentItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Type      string          `json:"type"`
}

// AdjustmentResponse is an adjustment in API responses
type AdjustmentResponse struct {
	ID          uuid.UUID                `json:"id"`
	Reference   string                   `json:"reference"`
	WarehouseID uuid.UUID                `json:"warehouse_id"`
	Date        time.Time                `json:"date"`
	Note        string                   `json:"note"`
	CreatedBy   *uuid.UUID               `json:"created_by,omitempty"`
	Items       []AdjustmentItemResponse `json:"items"`
	Version     int                      `json:"version"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// ToAdjustmentResponse converts a domain adjustment
func ToAdjustmentResponse(a *inventory.Adjustment) AdjustmentResponse {
	items := make([]AdjustmentItemResponse, len(a.Items))
	for i, it := range a.Items {
		items[i] = AdjustmentItemResponse{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity, Type: string(it.Type)}
	}
	return AdjustmentResponse{
		ID:          a.ID,
		Reference:   a.Reference,
		WarehouseID: a.WarehouseID,
		Date:        a.Date,
		Note:        a.Note,
		CreatedBy:   a.CreatedBy,
		Items:       items,
		Version:     a.Version,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// =============================================================================
// Transfers
// =============================================================================

// TransferItemInput is one requested transfer line
type TransferItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
}

// TransferRequest creates or replaces a transfer
type TransferRequest struct {
	Reference       string              `json:"reference" binding:"max=50"`
	FromWarehouseID uuid.UUID           `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID           `json:"to_warehouse_id" binding:"required"`
	Date            *time.Time          `json:"date"`
	Note            string              `json:"note" binding:"max=2000"`
	Items           []TransferItemInput `json:"items" binding:"required,min=1,dive"`
}

func (r TransferRequest) lines() []inventory.TransferLine {
	out := make([]inventory.TransferLine, len(r.Items))
	for i, it := range r.Items {
		out[i] = inventory.TransferLine{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return out
}

func (r TransferRequest) productIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Items))
	for i, it := range r.Items {
		ids[i] = it.ProductID
	}
	return ids
}

// TransferListFilter filters transfers
type TransferListFilter struct {
	ListFilter
	FromWarehouseID string `form:"from_warehouse_id" binding:"omitempty,uuid"`
	ToWarehouseID   string `form:"to_warehouse_id" binding:"omitempty,uuid"`
}

// TransferItemResponse is one transfer line in API responses
type TransferItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// TransferResponse is a transfer in API responses
type TransferResponse struct {
	ID              uuid.UUID              `json:"id"`
	Reference       string                 `json:"reference"`
	FromWarehouseID uuid.UUID              `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID              `json:"to_warehouse_id"`
	Date            time.Time              `json:"date"`
	Note            string                 `json:"note"`
	CreatedBy       *uuid.UUID             `json:"created_by,omitempty"`
	Items           []TransferItemResponse `json:"items"`
	Version         int                    `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// ToTransferResponse converts a domain transfer
func ToTransferResponse(t *inventory.Transfer) TransferResponse {
	items := make([]TransferItemResponse, len(t.Items))
	for i, it := range t.Items {
		items[i] = TransferItemResponse{ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return TransferResponse{
		ID:              t.ID,
		Reference:       t.Reference,
		FromWarehouseID: t.FromWarehouseID,
		ToWarehouseID:   t.ToWarehouseID,
		Date:            t.Date,
		Note:            t.Note,
		CreatedBy:       t.CreatedBy,
		Items:           items,
		Version:         t.Version,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func dateOrZero(d *time.Time) time.Time {
	if d == nil {
		return time.Time{}
	}
	return *d
}
