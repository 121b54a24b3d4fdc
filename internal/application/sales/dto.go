package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/sales"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// CartLineRequest is one product line of a cart
type CartLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
}

// CartRequest is the basket sent to quote and checkout
type CartRequest struct {
	WarehouseID uuid.UUID         `json:"warehouse_id" binding:"required"`
	CustomerID  *uuid.UUID        `json:"customer_id"`
	Lines       []CartLineRequest `json:"lines" binding:"required,min=1,dive"`
	Discount    decimal.Decimal   `json:"discount" binding:"decimal_gte0"`
	Shipping    decimal.Decimal   `json:"shipping" binding:"decimal_gte0"`
	// TaxRate is a percent; nil falls back to the configured default
	TaxRate *decimal.Decimal `json:"tax_rate"`
}

func (r CartRequest) productIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(r.Lines))
	for i, l := range r.Lines {
		ids[i] = l.ProductID
	}
	return ids
}

// PaymentRequest is the tender presented at checkout
type PaymentRequest struct {
	Method     string          `json:"method" binding:"required,oneof=cash card other CASH CARD OTHER"`
	PaidAmount decimal.Decimal `json:"paid_amount" binding:"decimal_gte0"`
}

func (p PaymentRequest) payment() sales.Payment {
	return sales.Payment{
		Method: sales.PaymentMethod(strings.ToLower(p.Method)),
		Amount: p.PaidAmount,
	}
}

// CheckoutRequest is a cart plus its payment
type CheckoutRequest struct {
	CartRequest
	Payment PaymentRequest `json:"payment"`
	Note    string         `json:"note" binding:"max=500"`
}

// QuoteLineResponse is a priced cart line
type QuoteLineResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteResponse is the price breakdown of a cart
type QuoteResponse struct {
	Lines      []QuoteLineResponse `json:"lines"`
	Subtotal   decimal.Decimal     `json:"subtotal"`
	Discount   decimal.Decimal     `json:"discount"`
	TaxRate    decimal.Decimal     `json:"tax_rate"`
	Tax        decimal.Decimal     `json:"tax"`
	Shipping   decimal.Decimal     `json:"shipping"`
	GrandTotal decimal.Decimal     `json:"grand_total"`
	ItemCount  decimal.Decimal     `json:"item_count"`
}

func toQuoteResponse(cart *sales.Cart, t sales.Totals) QuoteResponse {
	lines := make([]QuoteLineResponse, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = QuoteLineResponse{
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Total:       l.Total(),
		}
	}
	return QuoteResponse{
		Lines:      lines,
		Subtotal:   t.Subtotal,
		Discount:   t.Discount,
		TaxRate:    t.TaxRate,
		Tax:        t.Tax,
		Shipping:   t.Shipping,
		GrandTotal: t.GrandTotal,
		ItemCount:  t.ItemCount,
	}
}

// SaleListFilter filters sales
type SaleListFilter struct {
	CustomerID  string `form:"customer_id" binding:"omitempty,uuid"`
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (f SaleListFilter) domain() (shared.Filter, error) {
	out := shared.DefaultFilter()
	out.OrderBy = "sold_at"
	if f.OrderBy != "" {
		out.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		out.OrderDir = f.OrderDir
	}
	for _, p := range [][2]string{{"customer_id", f.CustomerID}, {"warehouse_id", f.WarehouseID}} {
		if p[1] == "" {
			continue
		}
		id, err := uuid.Parse(p[1])
		if err != nil {
			return out, shared.NewDomainError("INVALID_INPUT", "Invalid "+p[0])
		}
		out = out.With(p[0], id)
	}
	return out, nil
}

// SaleItemResponse is a sold line
type SaleItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	Reference     string             `json:"reference"`
	WarehouseID   uuid.UUID          `json:"warehouse_id"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	CashierID     *uuid.UUID         `json:"cashier_id,omitempty"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	TaxRate       decimal.Decimal    `json:"tax_rate"`
	Tax           decimal.Decimal    `json:"tax"`
	Shipping      decimal.Decimal    `json:"shipping"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	PaymentMethod string             `json:"payment_method"`
	PaidAmount    decimal.Decimal    `json:"paid_amount"`
	ChangeAmount  decimal.Decimal    `json:"change_amount"`
	Note          string             `json:"note"`
	ReceiptKey    string             `json:"receipt_key,omitempty"`
	SoldAt        time.Time          `json:"sold_at"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = SaleItemResponse{
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Total:       it.Total,
		}
	}
	return SaleResponse{
		ID:            s.ID,
		Reference:     s.Reference,
		WarehouseID:   s.WarehouseID,
		CustomerID:    s.CustomerID,
		CashierID:     s.CashierID,
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		TaxRate:       s.TaxRate,
		Tax:           s.Tax,
		Shipping:      s.Shipping,
		GrandTotal:    s.GrandTotal,
		PaymentMethod: string(s.PaymentMethod),
		PaidAmount:    s.PaidAmount,
		ChangeAmount:  s.ChangeAmount,
		Note:          s.Note,
		ReceiptKey:    s.ReceiptKey,
		SoldAt:        s.SoldAt,
		CreatedAt:     s.CreatedAt,
	}
}
