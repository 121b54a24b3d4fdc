package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// ListFilter carries ordering for catalog lists
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
// Unit DTOs
// =============================================================================

// CreateUnitRequest represents a request to create a unit
type CreateUnitRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=100"`
	ShortName     string          `json:"short_name" binding:"required,min=1,max=20"`
	BaseUnitID    *uuid.UUID      `json:"base_unit_id"`
	Operator      string          `json:"operator" binding:"omitempty,oneof=* /"`
	OperatorValue decimal.Decimal `json:"operator_value" binding:"decimal_gte0"`
}

// UpdateUnitRequest replaces a unit's names and conversion
type UpdateUnitRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=100"`
	ShortName     string          `json:"short_name" binding:"required,min=1,max=20"`
	BaseUnitID    *uuid.UUID      `json:"base_unit_id"`
	Operator      string          `json:"operator" binding:"omitempty,oneof=* /"`
	OperatorValue decimal.Decimal `json:"operator_value" binding:"decimal_gte0"`
}

// UnitListFilter filters units
type UnitListFilter struct {
	ListFilter
	BaseUnitID string `form:"base_unit_id" binding:"omitempty,uuid"`
}

// UnitResponse represents a unit in API responses
type UnitResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	ShortName     string          `json:"short_name"`
	BaseUnitID    *uuid.UUID      `json:"base_unit_id,omitempty"`
	Operator      string          `json:"operator"`
	OperatorValue decimal.Decimal `json:"operator_value"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToUnitResponse converts a domain Unit to UnitResponse
func ToUnitResponse(u *catalog.Unit) UnitResponse {
	return UnitResponse{
		ID:            u.ID,
		Name:          u.Name,
		ShortName:     u.ShortName,
		BaseUnitID:    u.BaseUnitID,
		Operator:      string(u.Operator),
		OperatorValue: u.OperatorValue,
		Version:       u.Version,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func unitOperator(raw string) catalog.UnitOperator {
	if raw == "" {
		return catalog.UnitOperatorMultiply
	}
	return catalog.UnitOperator(raw)
}

// =============================================================================
// Brand DTOs
// =============================================================================

// CreateBrandRequest represents a request to create a brand
type CreateBrandRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateBrandRequest replaces a brand's fields
type UpdateBrandRequest = CreateBrandRequest

// BrandResponse represents a brand in API responses
type BrandResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToBrandResponse converts a domain Brand to BrandResponse
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Version:     b.Version,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// =============================================================================
// Category DTOs
// =============================================================================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code     string     `json:"code" binding:"required,min=1,max=50"`
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest replaces a category's name and parent
type UpdateCategoryRequest struct {
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CategoryListFilter filters categories
type CategoryListFilter struct {
	ListFilter
	ParentID string `form:"parent_id" binding:"omitempty,uuid"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		ParentID:  c.ParentID,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// =============================================================================
// Product DTOs
// =============================================================================

// ProductFields are the editable product fields shared by create and update
type ProductFields struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Barcode       string          `json:"barcode" binding:"max=50"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	BrandID       *uuid.UUID      `json:"brand_id"`
	UnitID        *uuid.UUID      `json:"unit_id"`
	CostPrice     decimal.Decimal `json:"cost_price" binding:"decimal_gte0"`
	SellingPrice  decimal.Decimal `json:"selling_price" binding:"decimal_gte0"`
	AlertQuantity decimal.Decimal `json:"alert_quantity" binding:"decimal_gte0"`
	TaxRate       decimal.Decimal `json:"tax_rate" binding:"decimal_gte0"`
	Note          string          `json:"note" binding:"max=2000"`
}

func (f ProductFields) details() catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:          f.Name,
		Barcode:       f.Barcode,
		Note:          f.Note,
		CategoryID:    f.CategoryID,
		BrandID:       f.BrandID,
		UnitID:        f.UnitID,
		CostPrice:     f.CostPrice,
		SellingPrice:  f.SellingPrice,
		AlertQuantity: f.AlertQuantity,
		TaxRate:       f.TaxRate,
	}
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	ProductFields
}

// UpdateProductRequest replaces a product's editable fields
type UpdateProductRequest struct {
	ProductFields
}

// ProductListFilter filters products
type ProductListFilter struct {
	ListFilter
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	BrandID    string `form:"brand_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=active inactive ACTIVE INACTIVE"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	BrandID       *uuid.UUID      `json:"brand_id,omitempty"`
	UnitID        *uuid.UUID      `json:"unit_id,omitempty"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	AlertQuantity decimal.Decimal `json:"alert_quantity"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Status        string          `json:"status"`
	Note          string          `json:"note"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Barcode:       p.Barcode,
		CategoryID:    p.CategoryID,
		BrandID:       p.BrandID,
		UnitID:        p.UnitID,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		AlertQuantity: p.AlertQuantity,
		TaxRate:       p.TaxRate,
		Status:        string(p.Status),
		Note:          p.Note,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// LowStockResponse is a product at or under its alert quantity
type LowStockResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AlertQuantity decimal.Decimal `json:"alert_quantity"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}
