package partner

import (
	"context"
	"testing"

	appinv "github.com/storeadmin/backend/internal/application/inventory"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWarehouseService(repo *MockWarehouseRepository, stock *MockStockItemRepository) *WarehouseService {
	return NewWarehouseService(&appinv.NoOpTransactionScope{Warehouses: repo}, repo, stock, zap.NewNop())
}

func newTestWarehouse(t *testing.T, code string) *partner.Warehouse {
	t.Helper()
	w, err := partner.NewWarehouse(code, "Store "+code, partner.Contact{})
	require.NoError(t, err)
	return w
}

func TestWarehouseService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("plain warehouse", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := newWarehouseService(repo, new(MockStockItemRepository))
		repo.On("ExistsByCode", ctx, "MAIN").Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Warehouse")).Return(nil)

		resp, err := svc.Create(ctx, CreateWarehouseRequest{Code: "MAIN", Name: "Main"})
		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		repo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
	})

	t.Run("default warehouse clears the previous one", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := newWarehouseService(repo, new(MockStockItemRepository))
		repo.On("ExistsByCode", ctx, "MAIN").Return(false, nil)
		repo.On("ClearDefault", ctx, mock.Anything).Return(nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Warehouse")).Return(nil)

		resp, err := svc.Create(ctx, CreateWarehouseRequest{Code: "MAIN", Name: "Main", IsDefault: true})
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		repo.AssertCalled(t, "ClearDefault", ctx, resp.ID)
	})
}

func TestWarehouseService_SetDefault(t *testing.T) {
	ctx := context.Background()

	t.Run("switches default", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := newWarehouseService(repo, new(MockStockItemRepository))
		w := newTestWarehouse(t, "B")
		repo.On("FindByID", ctx, w.ID).Return(w, nil)
		repo.On("ClearDefault", ctx, w.ID).Return(nil)
		repo.On("Save", ctx, w).Return(nil)

		resp, err := svc.SetDefault(ctx, w.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		repo.AssertExpectations(t)
	})

	t.Run("inactive warehouse cannot become default", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := newWarehouseService(repo, new(MockStockItemRepository))
		w := newTestWarehouse(t, "B")
		require.NoError(t, w.Deactivate())
		repo.On("FindByID", ctx, w.ID).Return(w, nil)

		_, err := svc.SetDefault(ctx, w.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		repo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
	})

	t.Run("already default is a no-op", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := newWarehouseService(repo, new(MockStockItemRepository))
		w := newTestWarehouse(t, "A")
		w.IsDefault = true
		repo.On("FindByID", ctx, w.ID).Return(w, nil)

		resp, err := svc.SetDefault(ctx, w.ID)
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestWarehouseService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("holding stock", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		stock := new(MockStockItemRepository)
		svc := newWarehouseService(repo, stock)
		w := newTestWarehouse(t, "A")
		repo.On("FindByID", ctx, w.ID).Return(w, nil)
		stock.On("HasStockInWarehouse", ctx, w.ID).Return(true, nil)

		err := svc.Delete(ctx, w.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("default warehouse", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		svc := newWarehouseService(repo, new(MockStockItemRepository))
		w := newTestWarehouse(t, "A")
		w.IsDefault = true
		repo.On("FindByID", ctx, w.ID).Return(w, nil)

		assert.ErrorIs(t, svc.Delete(ctx, w.ID), shared.ErrInvalidState)
	})

	t.Run("empty warehouse", func(t *testing.T) {
		repo := new(MockWarehouseRepository)
		stock := new(MockStockItemRepository)
		svc := newWarehouseService(repo, stock)
		w := newTestWarehouse(t, "A")
		repo.On("FindByID", ctx, w.ID).Return(w, nil)
		stock.On("HasStockInWarehouse", ctx, w.ID).Return(false, nil)
		repo.On("Delete", ctx, w.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, w.ID))
		repo.AssertExpectations(t)
	})
}

func TestWarehouseService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockWarehouseRepository)
	svc := newWarehouseService(repo, new(MockStockItemRepository))
	yes := true

	repo.On("FindAll", ctx, shared.DefaultFilter().With("is_default", true)).Return([]partner.Warehouse{*newTestWarehouse(t, "A")}, nil)

	list, err := svc.List(ctx, WarehouseListFilter{IsDefault: &yes})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
