package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCategoryService() (*CategoryService, *MockCategoryRepository, *MockProductRepository) {
	categories := new(MockCategoryRepository)
	products := new(MockProductRepository)
	return NewCategoryService(categories, products, zap.NewNop()), categories, products
}

func mustCategory(t *testing.T, code string, parent *catalog.Category) *catalog.Category {
	t.Helper()
	if parent == nil {
		c, err := catalog.NewCategory(code, code)
		require.NoError(t, err)
		return c
	}
	c, err := catalog.NewChildCategory(code, code, parent.ID)
	require.NoError(t, err)
	return c
}

func invalidParent(t *testing.T, err error) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PARENT", domainErr.Code)
}

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates nested category", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		parent := mustCategory(t, "DRINKS", nil)
		categories.On("ExistsByCode", ctx, "tea").Return(false, nil)
		categories.On("FindByID", ctx, parent.ID).Return(parent, nil)
		categories.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)

		resp, err := svc.Create(ctx, CreateCategoryRequest{Code: "tea", Name: "Tea", ParentID: &parent.ID})
		require.NoError(t, err)
		assert.Equal(t, "TEA", resp.Code)
		assert.Equal(t, &parent.ID, resp.ParentID)
		assert.Equal(t, 1, resp.Version)
	})

	t.Run("duplicate code", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		categories.On("ExistsByCode", ctx, "tea").Return(true, nil)

		_, err := svc.Create(ctx, CreateCategoryRequest{Code: "tea", Name: "Tea"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("missing parent", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		parentID := uuid.New()
		categories.On("ExistsByCode", ctx, "tea").Return(false, nil)
		categories.On("FindByID", ctx, parentID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, CreateCategoryRequest{Code: "tea", Name: "Tea", ParentID: &parentID})
		invalidParent(t, err)
	})
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("moves under another root", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		food := mustCategory(t, "FOOD", nil)
		tea := mustCategory(t, "TEA", nil)
		categories.On("FindByID", ctx, tea.ID).Return(tea, nil)
		categories.On("FindByID", ctx, food.ID).Return(food, nil)
		categories.On("Save", ctx, tea).Return(nil)

		resp, err := svc.Update(ctx, tea.ID, UpdateCategoryRequest{Name: "Tea", ParentID: &food.ID})
		require.NoError(t, err)
		assert.Equal(t, &food.ID, resp.ParentID)
		assert.Equal(t, 2, resp.Version)
	})

	t.Run("rejects own descendant as parent", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		root := mustCategory(t, "DRINKS", nil)
		child := mustCategory(t, "TEA", root)
		grandchild := mustCategory(t, "GREEN", child)
		categories.On("FindByID", ctx, root.ID).Return(root, nil)
		categories.On("FindByID", ctx, grandchild.ID).Return(grandchild, nil)
		categories.On("FindByID", ctx, child.ID).Return(child, nil)

		_, err := svc.Update(ctx, root.ID, UpdateCategoryRequest{Name: "Drinks", ParentID: &grandchild.ID})
		invalidParent(t, err)
		categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects self as parent", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		tea := mustCategory(t, "TEA", nil)
		categories.On("FindByID", ctx, tea.ID).Return(tea, nil)

		_, err := svc.Update(ctx, tea.ID, UpdateCategoryRequest{Name: "Tea", ParentID: &tea.ID})
		invalidParent(t, err)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("has children", func(t *testing.T) {
		svc, categories, _ := newCategoryService()
		id := uuid.New()
		categories.On("HasChildren", ctx, id).Return(true, nil)

		assert.ErrorIs(t, svc.Delete(ctx, id), shared.ErrInvalidState)
	})

	t.Run("used by products", func(t *testing.T) {
		svc, categories, products := newCategoryService()
		id := uuid.New()
		categories.On("HasChildren", ctx, id).Return(false, nil)
		products.On("ExistsByReference", ctx, "category_id", id).Return(true, nil)

		assert.ErrorIs(t, svc.Delete(ctx, id), shared.ErrInvalidState)
		categories.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes leaf", func(t *testing.T) {
		svc, categories, products := newCategoryService()
		id := uuid.New()
		categories.On("HasChildren", ctx, id).Return(false, nil)
		products.On("ExistsByReference", ctx, "category_id", id).Return(false, nil)
		categories.On("Delete", ctx, id).Return(nil)

		require.NoError(t, svc.Delete(ctx, id))
	})

	t.Run("list with bad parent id", func(t *testing.T) {
		svc, _, _ := newCategoryService()
		_, err := svc.List(ctx, CategoryListFilter{ParentID: "nope"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
