package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

var hundred = decimal.NewFromInt(100)

// MoneyPlaces is the number of decimal places money is rounded to
const MoneyPlaces = 2

// CartLine is a priced product line in the cart
type CartLine struct {
	ProductID   uuid.UUID
	ProductCode string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    decimal.Decimal
}

// Total returns unit price times quantity, rounded to money places
func (l CartLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(l.Quantity).Round(MoneyPlaces)
}

// Cart is a POS basket awaiting checkout
type Cart struct {
	WarehouseID uuid.UUID
	CustomerID  *uuid.UUID
	Lines       []CartLine
	Discount    decimal.Decimal
	Shipping    decimal.Decimal
	TaxRate     decimal.Decimal // percent
}

// Totals is the computed price breakdown of a cart
type Totals struct {
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	TaxRate    decimal.Decimal
	Tax        decimal.Decimal
	Shipping   decimal.Decimal
	GrandTotal decimal.Decimal
	ItemCount  decimal.Decimal
}

// Validate checks the cart shape without pricing it
func (c *Cart) Validate() error {
	if c.WarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is required")
	}
	if len(c.Lines) == 0 {
		return shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}
	seen := make(map[uuid.UUID]struct{}, len(c.Lines))
	for _, l := range c.Lines {
		if l.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", "Product is required on every line")
		}
		if _, dup := seen[l.ProductID]; dup {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Each product may appear only once in the cart")
		}
		seen[l.ProductID] = struct{}{}
		if !l.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if l.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
	}
	if c.Discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if c.Shipping.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING", "Shipping cannot be negative")
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	return nil
}

// Totals computes the cart totals. Tax is charged on the discounted subtotal:
//
//	grand = subtotal - discount + (subtotal - discount) * rate / 100 + shipping
func (c *Cart) Totals() (Totals, error) {
	if err := c.Validate(); err != nil {
		return Totals{}, err
	}

	subtotal := decimal.Zero
	count := decimal.Zero
	for _, l := range c.Lines {
		subtotal = subtotal.Add(l.Total())
		count = count.Add(l.Quantity)
	}

	discount := c.Discount.Round(MoneyPlaces)
	if discount.GreaterThan(subtotal) {
		return Totals{}, shared.NewDomainError("INVALID_INPUT", "Discount cannot exceed the subtotal")
	}
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(c.TaxRate).Div(hundred).Round(MoneyPlaces)
	shipping := c.Shipping.Round(MoneyPlaces)

	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		TaxRate:    c.TaxRate,
		Tax:        tax,
		Shipping:   shipping,
		GrandTotal: taxable.Add(tax).Add(shipping),
		ItemCount:  count,
	}, nil
}
