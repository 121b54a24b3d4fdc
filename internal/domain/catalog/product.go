package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable SKU
// It is the aggregate root for product-related operations
type Product struct {
	shared.BaseAggregateRoot
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Barcode       string          `gorm:"type:varchar(50);index"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index"`
	BrandID       *uuid.UUID      `gorm:"type:uuid;index"`
	UnitID        *uuid.UUID      `gorm:"type:uuid;index"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AlertQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // low-stock threshold
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`  // percent
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
	Note          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product with zero prices
func NewProduct(code, name string) (*Product, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	name, err = normalizeName(name, 200)
	if err != nil {
		return nil, err
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		CostPrice:         decimal.Zero,
		SellingPrice:      decimal.Zero,
		AlertQuantity:     decimal.Zero,
		TaxRate:           decimal.Zero,
		Status:            ProductStatusActive,
	}, nil
}

// Update replaces the product's descriptive fields
func (p *Product) Update(name, barcode, note string) error {
	name, err := normalizeName(name, 200)
	if err != nil {
		return err
	}
	barcode = strings.TrimSpace(barcode)
	if barcode != "" && !barcodePattern.MatchString(barcode) {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode must be 4-50 letters, digits or hyphens")
	}
	p.Name = name
	p.Barcode = barcode
	p.Note = note
	p.IncrementVersion()
	return nil
}

// SetBarcode sets or clears the barcode
func (p *Product) SetBarcode(barcode string) error {
	return p.Update(p.Name, barcode, p.Note)
}

// SetClassification sets category, brand and unit references
func (p *Product) SetClassification(categoryID, brandID, unitID *uuid.UUID) {
	p.CategoryID = categoryID
	p.BrandID = brandID
	p.UnitID = unitID
	p.IncrementVersion()
}

// SetPrices updates cost and selling price
func (p *Product) SetPrices(cost, selling decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}
	if selling.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	p.CostPrice = cost
	p.SellingPrice = selling
	p.IncrementVersion()
	return nil
}

// SetStockSettings updates the low-stock threshold and tax rate
func (p *Product) SetStockSettings(alertQuantity, taxRate decimal.Decimal) error {
	if alertQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_ALERT_QUANTITY", "Alert quantity cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	p.AlertQuantity = alertQuantity
	p.TaxRate = taxRate
	p.IncrementVersion()
	return nil
}

// Activate makes the product sellable
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.IncrementVersion()
	return nil
}

// Deactivate removes the product from sale
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.IncrementVersion()
	return nil
}

// IsActive returns true if the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// IsLowStock reports whether the given total stock is at or under the alert quantity
func (p *Product) IsLowStock(total decimal.Decimal) bool {
	return total.LessThanOrEqual(p.AlertQuantity)
}

// ProductDetails is the editable state of a product
type ProductDetails struct {
	Name          string
	Barcode       string
	Note          string
	CategoryID    *uuid.UUID
	BrandID       *uuid.UUID
	UnitID        *uuid.UUID
	CostPrice     decimal.Decimal
	SellingPrice  decimal.Decimal
	AlertQuantity decimal.Decimal
	TaxRate       decimal.Decimal
}

// NewProductWithDetails creates an active product with every editable field set
func NewProductWithDetails(code string, d ProductDetails) (*Product, error) {
	p, err := NewProduct(code, d.Name)
	if err != nil {
		return nil, err
	}
	if err := p.setDetails(d); err != nil {
		return nil, err
	}
	return p, nil
}

// Revise replaces every editable field at once
func (p *Product) Revise(d ProductDetails) error {
	if err := p.setDetails(d); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// setDetails validates the whole set before changing anything
func (p *Product) setDetails(d ProductDetails) error {
	name, err := normalizeName(d.Name, 200)
	if err != nil {
		return err
	}
	barcode := strings.TrimSpace(d.Barcode)
	if barcode != "" && !barcodePattern.MatchString(barcode) {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode must be 4-50 letters, digits or hyphens")
	}
	if d.CostPrice.IsNegative() || d.SellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if d.AlertQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_ALERT_QUANTITY", "Alert quantity cannot be negative")
	}
	if d.TaxRate.IsNegative() || d.TaxRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}

	p.Name = name
	p.Barcode = barcode
	p.Note = d.Note
	p.CategoryID = d.CategoryID
	p.BrandID = d.BrandID
	p.UnitID = d.UnitID
	p.CostPrice = d.CostPrice
	p.SellingPrice = d.SellingPrice
	p.AlertQuantity = d.AlertQuantity
	p.TaxRate = d.TaxRate
	return nil
}
