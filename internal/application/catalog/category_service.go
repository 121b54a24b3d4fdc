package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// maxCategoryDepth bounds the ancestor walk when re-parenting
const maxCategoryDepth = 32

// CategoryService handles category operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Create creates a top-level or nested category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this code already exists")
	}

	var category *catalog.Category
	if req.ParentID == nil {
		category, err = catalog.NewCategory(req.Code, req.Name)
	} else {
		if err := s.checkParent(ctx, uuid.Nil, *req.ParentID); err != nil {
			return nil, err
		}
		category, err = catalog.NewChildCategory(req.Code, req.Name, *req.ParentID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("Category created", zap.String("code", category.Code))

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves categories matching the filter
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, error) {
	f, err := withIDs(filter.domain(), "parent_id", filter.ParentID)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out, nil
}

// Update renames a category and moves it under a new parent
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, category.ID, *req.ParentID); err != nil {
			return nil, err
		}
	}
	if err := category.Revise(req.Name, req.ParentID); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete deletes a category with no children and no products
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	children, err := s.categoryRepo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if children {
		return shared.NewDomainError("INVALID_STATE", "Category has child categories")
	}
	used, err := s.productRepo.ExistsByReference(ctx, "category_id", id)
	if err != nil {
		return err
	}
	if used {
		return shared.NewDomainError("INVALID_STATE", "Category is used by products")
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.String("id", id.String()))
	return nil
}

// checkParent verifies the parent exists and that self is not among its ancestors
func (s *CategoryService) checkParent(ctx context.Context, self, parentID uuid.UUID) error {
	if parentID == self {
		return shared.NewDomainError("INVALID_PARENT", "A category cannot be its own parent")
	}
	current := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		category, err := s.categoryRepo.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) && depth == 0 {
				return shared.NewDomainError("INVALID_PARENT", "Parent category not found")
			}
			return err
		}
		if category.ParentID == nil {
			return nil
		}
		if *category.ParentID == self {
			return shared.NewDomainError("INVALID_PARENT", "A category cannot be moved under its own descendant")
		}
		current = *category.ParentID
	}
	return shared.NewDomainError("INVALID_PARENT", "Category tree is too deep")
}
