package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BrandService handles brand operations
type BrandService struct {
	brandRepo   catalog.BrandRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewBrandService creates a new BrandService
func NewBrandService(brandRepo catalog.BrandRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *BrandService {
	return &BrandService{
		brandRepo:   brandRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a brand
func (s *BrandService) Create(ctx context.Context, req CreateBrandRequest) (*BrandResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}
	brand, err := catalog.NewBrand(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	s.logger.Info("Brand created", zap.String("name", brand.Name))

	response := ToBrandResponse(brand)
	return &response, nil
}

// GetByID retrieves a brand by ID
func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBrandResponse(brand)
	return &response, nil
}

// List retrieves all brands
func (s *BrandService) List(ctx context.Context, filter ListFilter) ([]BrandResponse, error) {
	brands, err := s.brandRepo.FindAll(ctx, filter.domain())
	if err != nil {
		return nil, err
	}
	out := make([]BrandResponse, len(brands))
	for i := range brands {
		out[i] = ToBrandResponse(&brands[i])
	}
	return out, nil
}

// Update replaces a brand's fields
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req UpdateBrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) != brand.Name {
		if err := s.ensureNameFree(ctx, req.Name); err != nil {
			return nil, err
		}
	}
	if err := brand.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}

	response := ToBrandResponse(brand)
	return &response, nil
}

// Delete deletes a brand no product refers to
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	used, err := s.productRepo.ExistsByReference(ctx, "brand_id", id)
	if err != nil {
		return err
	}
	if used {
		return shared.NewDomainError("INVALID_STATE", "Brand is used by products")
	}
	if err := s.brandRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Brand deleted", zap.String("id", id.String()))
	return nil
}

func (s *BrandService) ensureNameFree(ctx context.Context, name string) error {
	exists, err := s.brandRepo.ExistsByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Brand with this name already exists")
	}
	return nil
}
