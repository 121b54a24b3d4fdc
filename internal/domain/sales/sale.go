package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// PaymentMethod is how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodOther PaymentMethod = "other"
)

// IsValid returns true if the method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is the tender presented at checkout
type Payment struct {
	Method PaymentMethod
	Amount decimal.Decimal
}

// SaleItem is a snapshot of a cart line at checkout time
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// Sale is a completed POS checkout
type Sale struct {
	shared.BaseAggregateRoot
	Reference     string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID      `gorm:"type:uuid;index"`
	CashierID     *uuid.UUID      `gorm:"type:uuid"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Tax           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Shipping      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ChangeAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Note          string          `gorm:"type:text"`
	SoldAt        time.Time       `gorm:"not null;index"`
	ReceiptKey    string          `gorm:"type:varchar(255)"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale prices the cart, checks the payment covers it and snapshots the lines
func NewSale(cart *Cart, payment Payment, cashierID *uuid.UUID, note string) (*Sale, error) {
	totals, err := cart.Totals()
	if err != nil {
		return nil, err
	}
	if !payment.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be cash, card or other")
	}
	paid := payment.Amount.Round(MoneyPlaces)
	if paid.LessThan(totals.GrandTotal) {
		return nil, shared.NewDomainError("INVALID_INPUT",
			"Paid amount "+paid.StringFixed(MoneyPlaces)+" is less than the total "+totals.GrandTotal.StringFixed(MoneyPlaces))
	}

	now := time.Now()
	s := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         shared.GenerateReference("SAL", now),
		WarehouseID:       cart.WarehouseID,
		CustomerID:        cart.CustomerID,
		CashierID:         cashierID,
		Subtotal:          totals.Subtotal,
		Discount:          totals.Discount,
		TaxRate:           totals.TaxRate,
		Tax:               totals.Tax,
		Shipping:          totals.Shipping,
		GrandTotal:        totals.GrandTotal,
		PaymentMethod:     payment.Method,
		PaidAmount:        paid,
		ChangeAmount:      paid.Sub(totals.GrandTotal),
		Note:              strings.TrimSpace(note),
		SoldAt:            now,
	}
	s.Items = make([]SaleItem, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		s.Items = append(s.Items, SaleItem{
			ID:          uuid.New(),
			SaleID:      s.ID,
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			Total:       l.Total(),
		})
	}
	s.Record(NewSaleCompletedEvent(s))
	return s, nil
}

// StockDeltas returns the stock deductions the sale causes
func (s *Sale) StockDeltas() []inventory.StockDelta {
	out := make([]inventory.StockDelta, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, inventory.StockDelta{
			StockKey: inventory.StockKey{WarehouseID: s.WarehouseID, ProductID: it.ProductID},
			Quantity: it.Quantity.Neg(),
		})
	}
	return out
}

// SetReceiptKey records where the archived receipt lives
func (s *Sale) SetReceiptKey(key string) {
	s.ReceiptKey = key
	s.Touch()
}
