package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinv "github.com/storeadmin/backend/internal/application/inventory"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/persistence"
	"github.com/storeadmin/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db          *gorm.DB
	adjustments *appinv.AdjustmentService
	transfers   *appinv.TransferService
	stock       *appinv.StockService
	publisher   *testutil.RecordingPublisher
	wh1, wh2    *partner.Warehouse
	apple, pear *catalog.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	scope := persistence.NewGormTransactionScope(db)
	warehouses := persistence.NewGormWarehouseRepository(db)
	products := persistence.NewGormProductRepository(db)
	publisher := testutil.NewRecordingPublisher()

	adjustments := appinv.NewAdjustmentService(scope, persistence.NewGormAdjustmentRepository(db), warehouses, products, zap.NewNop())
	adjustments.SetEventPublisher(publisher)
	transfers := appinv.NewTransferService(scope, persistence.NewGormTransferRepository(db), warehouses, products, zap.NewNop())
	transfers.SetEventPublisher(publisher)

	return &fixture{
		db:          db,
		adjustments: adjustments,
		transfers:   transfers,
		stock: appinv.NewStockService(
			persistence.NewGormStockItemRepository(db),
			persistence.NewGormStockMovementRepository(db),
			products,
		),
		publisher: publisher,
		wh1:       testutil.SeedWarehouse(t, db, "WH1"),
		wh2:       testutil.SeedWarehouse(t, db, "WH2"),
		apple:     testutil.SeedProduct(t, db, "APPLE", "1.50"),
		pear:      testutil.SeedProduct(t, db, "PEAR", "2.00"),
	}
}

func (f *fixture) qty(t *testing.T, w *partner.Warehouse, p *catalog.Product) string {
	t.Helper()
	return testutil.StockQuantity(t, f.db, w.ID, p.ID).String()
}

func adjItem(p *catalog.Product, qty, typ string) appinv.AdjustmentItemInput {
	return appinv.AdjustmentItemInput{ProductID: p.ID, Quantity: decimal.RequireFromString(qty), Type: typ}
}

func trfItem(p *catalog.Product, qty string) appinv.TransferItemInput {
	return appinv.TransferItemInput{ProductID: p.ID, Quantity: decimal.RequireFromString(qty)}
}

func TestAdjustmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("applies signed quantities and writes movements", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedStock(t, f.db, f.wh1.ID, f.pear.ID, "10")
		user := testutil.TestUserID()

		resp, err := f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items: []appinv.AdjustmentItemInput{
				adjItem(f.apple, "5", "addition"),
				adjItem(f.pear, "3", "subtraction"),
			},
		}, &user)
		require.NoError(t, err)

		assert.Contains(t, resp.Reference, "ADJ-")
		assert.Equal(t, &user, resp.CreatedBy)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, "5", f.qty(t, f.wh1, f.apple))
		assert.Equal(t, "7", f.qty(t, f.wh1, f.pear))
		assert.Equal(t, int64(2), testutil.MovementCount(t, f.db, resp.ID))
		assert.Equal(t, []string{inventory.EventTypeAdjustmentCreated}, f.publisher.EventTypes())
	})

	t.Run("insufficient stock rolls back every line", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedStock(t, f.db, f.wh1.ID, f.pear.ID, "2")

		_, err := f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items: []appinv.AdjustmentItemInput{
				adjItem(f.apple, "5", "addition"),
				adjItem(f.pear, "3", "subtraction"),
			},
		}, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		assert.Equal(t, "0", f.qty(t, f.wh1, f.apple))
		assert.Equal(t, "2", f.qty(t, f.wh1, f.pear))
		list, err := f.adjustments.List(ctx, appinv.AdjustmentListFilter{})
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Empty(t, f.publisher.Events())
	})

	t.Run("unknown product is rejected before any write", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items: []appinv.AdjustmentItemInput{
				{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1), Type: "addition"},
			},
		}, nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("inactive warehouse is rejected", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.wh2.Deactivate())
		require.NoError(t, f.db.Save(f.wh2).Error)

		_, err := f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh2.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "1", "addition")},
		}, nil)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("duplicate reference conflicts", func(t *testing.T) {
		f := newFixture(t)
		req := appinv.AdjustmentRequest{
			Reference:   "ADJ-FIXED",
			WarehouseID: f.wh1.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "1", "addition")},
		}
		_, err := f.adjustments.Create(ctx, req, nil)
		require.NoError(t, err)

		_, err = f.adjustments.Create(ctx, req, nil)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Equal(t, "1", f.qty(t, f.wh1, f.apple))
	})
}

func TestAdjustmentService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("nets the old and new quantities", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "10", "addition")},
		}, nil)
		require.NoError(t, err)

		updated, err := f.adjustments.Update(ctx, created.ID, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "4", "addition")},
		})
		require.NoError(t, err)

		assert.Equal(t, created.Reference, updated.Reference)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "4", f.qty(t, f.wh1, f.apple))
		// one movement for the create, one net -6 for the update
		assert.Equal(t, int64(2), testutil.MovementCount(t, f.db, created.ID))
	})

	t.Run("moving to another warehouse reverts the old one", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "3", "addition")},
		}, nil)
		require.NoError(t, err)

		_, err = f.adjustments.Update(ctx, created.ID, appinv.AdjustmentRequest{
			WarehouseID: f.wh2.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "3", "addition")},
		})
		require.NoError(t, err)

		assert.Equal(t, "0", f.qty(t, f.wh1, f.apple))
		assert.Equal(t, "3", f.qty(t, f.wh2, f.apple))
	})

	t.Run("failed revert leaves the stored adjustment untouched", func(t *testing.T) {
		f := newFixture(t)
		created, err := f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "5", "addition")},
		}, nil)
		require.NoError(t, err)
		// consume the stock the adjustment added
		_, err = f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "5", "subtraction")},
		}, nil)
		require.NoError(t, err)

		_, err = f.adjustments.Update(ctx, created.ID, appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "1", "addition")},
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		stored, err := f.adjustments.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Version)
		require.Len(t, stored.Items, 1)
		assert.Equal(t, "5", stored.Items[0].Quantity.String())
		assert.Equal(t, "0", f.qty(t, f.wh1, f.apple))
	})

	t.Run("missing adjustment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.adjustments.Update(ctx, uuid.New(), appinv.AdjustmentRequest{
			WarehouseID: f.wh1.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "1", "addition")},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestAdjustmentService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.SeedStock(t, f.db, f.wh1.ID, f.pear.ID, "10")

	created, err := f.adjustments.Create(ctx, appinv.AdjustmentRequest{
		WarehouseID: f.wh1.ID,
		Items: []appinv.AdjustmentItemInput{
			adjItem(f.apple, "2", "addition"),
			adjItem(f.pear, "4", "subtraction"),
		},
	}, nil)
	require.NoError(t, err)

	require.NoError(t, f.adjustments.Delete(ctx, created.ID))

	assert.Equal(t, "0", f.qty(t, f.wh1, f.apple))
	assert.Equal(t, "10", f.qty(t, f.wh1, f.pear))
	_, err = f.adjustments.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, []string{
		inventory.EventTypeAdjustmentCreated,
		inventory.EventTypeAdjustmentDeleted,
	}, f.publisher.EventTypes())

	assert.ErrorIs(t, f.adjustments.Delete(ctx, created.ID), shared.ErrNotFound)
}

func TestTransferService(t *testing.T) {
	ctx := context.Background()

	t.Run("create moves stock between warehouses", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedStock(t, f.db, f.wh1.ID, f.apple.ID, "10")

		resp, err := f.transfers.Create(ctx, appinv.TransferRequest{
			FromWarehouseID: f.wh1.ID,
			ToWarehouseID:   f.wh2.ID,
			Items:           []appinv.TransferItemInput{trfItem(f.apple, "4")},
		}, nil)
		require.NoError(t, err)

		assert.Contains(t, resp.Reference, "TRF-")
		assert.Equal(t, "6", f.qty(t, f.wh1, f.apple))
		assert.Equal(t, "4", f.qty(t, f.wh2, f.apple))
		assert.Equal(t, int64(2), testutil.MovementCount(t, f.db, resp.ID))
	})

	t.Run("short source fails without touching the destination", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedStock(t, f.db, f.wh1.ID, f.apple.ID, "1")

		_, err := f.transfers.Create(ctx, appinv.TransferRequest{
			FromWarehouseID: f.wh1.ID,
			ToWarehouseID:   f.wh2.ID,
			Items:           []appinv.TransferItemInput{trfItem(f.apple, "4")},
		}, nil)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, "1", f.qty(t, f.wh1, f.apple))
		assert.Equal(t, "0", f.qty(t, f.wh2, f.apple))
	})

	t.Run("update and delete revert the previous version", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedStock(t, f.db, f.wh1.ID, f.apple.ID, "10")
		testutil.SeedStock(t, f.db, f.wh1.ID, f.pear.ID, "10")

		created, err := f.transfers.Create(ctx, appinv.TransferRequest{
			FromWarehouseID: f.wh1.ID,
			ToWarehouseID:   f.wh2.ID,
			Items:           []appinv.TransferItemInput{trfItem(f.apple, "4")},
		}, nil)
		require.NoError(t, err)

		_, err = f.transfers.Update(ctx, created.ID, appinv.TransferRequest{
			FromWarehouseID: f.wh1.ID,
			ToWarehouseID:   f.wh2.ID,
			Items:           []appinv.TransferItemInput{trfItem(f.pear, "3")},
		})
		require.NoError(t, err)
		assert.Equal(t, "10", f.qty(t, f.wh1, f.apple))
		assert.Equal(t, "0", f.qty(t, f.wh2, f.apple))
		assert.Equal(t, "7", f.qty(t, f.wh1, f.pear))
		assert.Equal(t, "3", f.qty(t, f.wh2, f.pear))

		require.NoError(t, f.transfers.Delete(ctx, created.ID))
		assert.Equal(t, "10", f.qty(t, f.wh1, f.pear))
		assert.Equal(t, "0", f.qty(t, f.wh2, f.pear))
	})

	t.Run("delete fails when the destination stock was consumed", func(t *testing.T) {
		f := newFixture(t)
		testutil.SeedStock(t, f.db, f.wh1.ID, f.apple.ID, "5")

		created, err := f.transfers.Create(ctx, appinv.TransferRequest{
			FromWarehouseID: f.wh1.ID,
			ToWarehouseID:   f.wh2.ID,
			Items:           []appinv.TransferItemInput{trfItem(f.apple, "5")},
		}, nil)
		require.NoError(t, err)
		_, err = f.adjustments.Create(ctx, appinv.AdjustmentRequest{
			WarehouseID: f.wh2.ID,
			Items:       []appinv.AdjustmentItemInput{adjItem(f.apple, "2", "subtraction")},
		}, nil)
		require.NoError(t, err)

		assert.ErrorIs(t, f.transfers.Delete(ctx, created.ID), shared.ErrInsufficientStock)
		_, err = f.transfers.GetByID(ctx, created.ID)
		assert.NoError(t, err)
		assert.Equal(t, "0", f.qty(t, f.wh1, f.apple))
		assert.Equal(t, "3", f.qty(t, f.wh2, f.apple))
	})
}

func TestStockService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	testutil.SeedStock(t, f.db, f.wh1.ID, f.apple.ID, "10")

	_, err := f.transfers.Create(ctx, appinv.TransferRequest{
		FromWarehouseID: f.wh1.ID,
		ToWarehouseID:   f.wh2.ID,
		Items:           []appinv.TransferItemInput{trfItem(f.apple, "4")},
	}, nil)
	require.NoError(t, err)

	t.Run("product stock sums warehouses", func(t *testing.T) {
		resp, err := f.stock.GetProductStock(ctx, f.apple.ID)
		require.NoError(t, err)
		assert.Len(t, resp.Warehouses, 2)
		assert.Equal(t, "10", resp.Total.String())
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.stock.GetProductStock(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list filtered by warehouse", func(t *testing.T) {
		items, err := f.stock.ListStock(ctx, appinv.StockListFilter{WarehouseID: f.wh2.ID.String()})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "4", items[0].Quantity.String())
	})

	t.Run("movements filtered by source type", func(t *testing.T) {
		movements, err := f.stock.ListMovements(ctx, appinv.MovementListFilter{SourceType: string(inventory.SourceTypeTransfer)})
		require.NoError(t, err)
		assert.Len(t, movements, 2)
	})

	t.Run("bad id filter", func(t *testing.T) {
		_, err := f.stock.ListStock(ctx, appinv.StockListFilter{ProductID: "nope"})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
