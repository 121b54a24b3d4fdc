package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/sales"
	"github.com/storeadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductRepositories groups the repositories ProductService reads from
type ProductRepositories struct {
	Products   catalog.ProductRepository
	Categories catalog.CategoryRepository
	Brands     catalog.BrandRepository
	Units      catalog.UnitRepository
	Stock      inventory.StockItemRepository
	Movements  inventory.StockMovementRepository
	Sales      sales.SaleRepository
}

// ProductService handles product-related business operations
type ProductService struct {
	repos  ProductRepositories
	logger *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repos ProductRepositories, logger *zap.Logger) *ProductService {
	return &ProductService{
		repos:  repos,
		logger: logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.repos.Products.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}
	if err := s.ensureBarcodeFree(ctx, req.Barcode); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req.ProductFields); err != nil {
		return nil, err
	}

	product, err := catalog.NewProductWithDetails(req.Code, req.details())
	if err != nil {
		return nil, err
	}
	if err := s.repos.Products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product created", zap.String("code", product.Code))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products matching the filter
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	f, err := withIDs(filter.domain(), "category_id", filter.CategoryID, "brand_id", filter.BrandID)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" {
		f = f.With("status", strings.ToLower(filter.Status))
	}
	products, err := s.repos.Products.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out, nil
}

// Update replaces a product's editable fields
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Barcode) != product.Barcode {
		if err := s.ensureBarcodeFree(ctx, req.Barcode); err != nil {
			return nil, err
		}
	}
	if err := s.checkReferences(ctx, req.ProductFields); err != nil {
		return nil, err
	}

	if err := product.Revise(req.details()); err != nil {
		return nil, err
	}
	if err := s.repos.Products.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete deletes a product that has never held stock or been sold
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repos.Products.FindByID(ctx, id); err != nil {
		return err
	}
	checks := []struct {
		exists func(context.Context, uuid.UUID) (bool, error)
		msg    string
	}{
		{s.repos.Stock.HasStockForProduct, "Product has stock on hand"},
		{s.repos.Movements.ExistsForProduct, "Product has stock movements"},
		{s.repos.Sales.ExistsForProduct, "Product appears on sales"},
	}
	for _, c := range checks {
		found, err := c.exists(ctx, id)
		if err != nil {
			return err
		}
		if found {
			return shared.NewDomainError("INVALID_STATE", c.msg)
		}
	}

	if err := s.repos.Products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("id", id.String()))
	return nil
}

// Activate makes a product sellable
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Activate)
}

// Deactivate removes a product from sale
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Product).Deactivate)
}

// LowStock lists active products whose total stock across warehouses is at or under the alert quantity
func (s *ProductService) LowStock(ctx context.Context) ([]LowStockResponse, error) {
	filter := shared.DefaultFilter().With("status", string(catalog.ProductStatusActive))
	filter.OrderBy = "code"
	filter.OrderDir = "asc"
	products, err := s.repos.Products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []LowStockResponse{}, nil
	}

	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	totals, err := s.repos.Stock.SumByProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]LowStockResponse, 0)
	for i := range products {
		p := &products[i]
		total := totals[p.ID]
		if !p.IsLowStock(total) {
			continue
		}
		out = append(out, LowStockResponse{
			ProductID:     p.ID,
			Code:          p.Code,
			Name:          p.Name,
			AlertQuantity: p.AlertQuantity,
			TotalQuantity: total,
		})
	}
	return out, nil
}

func (s *ProductService) changeStatus(ctx context.Context, id uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.repos.Products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.logger.Info("Product status changed", zap.String("code", product.Code), zap.String("status", string(product.Status)))
	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) ensureBarcodeFree(ctx context.Context, barcode string) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil
	}
	exists, err := s.repos.Products.ExistsByBarcode(ctx, barcode)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Product with this barcode already exists")
	}
	return nil
}

// checkReferences verifies that the category, brand and unit exist when set
func (s *ProductService) checkReferences(ctx context.Context, f ProductFields) error {
	if f.CategoryID != nil {
		if _, err := s.repos.Categories.FindByID(ctx, *f.CategoryID); err != nil {
			return referenceError(err, "INVALID_CATEGORY", "Category not found")
		}
	}
	if f.BrandID != nil {
		if _, err := s.repos.Brands.FindByID(ctx, *f.BrandID); err != nil {
			return referenceError(err, "INVALID_BRAND", "Brand not found")
		}
	}
	if f.UnitID != nil {
		if _, err := s.repos.Units.FindByID(ctx, *f.UnitID); err != nil {
			return referenceError(err, "INVALID_UNIT", "Unit not found")
		}
	}
	return nil
}

func referenceError(err error, code, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(code, message)
	}
	return err
}
