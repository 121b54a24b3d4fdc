package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/identity"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/sales"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every persisted domain type, parents before children.
func Models() []interface{} {
	return []interface{}{
		&partner.Customer{},
		&partner.Supplier{},
		&partner.Warehouse{},
		&catalog.Unit{},
		&catalog.Brand{},
		&catalog.Category{},
		&catalog.Product{},
		&inventory.StockItem{},
		&inventory.StockMovement{},
		&inventory.Adjustment{},
		&inventory.AdjustmentItem{},
		&inventory.Transfer{},
		&inventory.TransferItem{},
		&sales.Sale{},
		&sales.SaleItem{},
		&identity.Role{},
		&identity.User{},
	}
}

// NewSQLiteDB opens a private in-memory sqlite database with the full
// schema. A single connection is used so a transaction sees its own writes
// and nothing else runs beside it.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(Models()...), "Failed to migrate sqlite schema")
	return db
}

// SeedWarehouse inserts an active warehouse.
func SeedWarehouse(t *testing.T, db *gorm.DB, code string) *partner.Warehouse {
	t.Helper()
	w, err := partner.NewWarehouse(code, "Warehouse "+code, partner.Contact{})
	require.NoError(t, err)
	require.NoError(t, db.Create(w).Error)
	return w
}

// SeedProduct inserts an active product with the given selling price.
func SeedProduct(t *testing.T, db *gorm.DB, code string, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, "Product "+code)
	require.NoError(t, err)
	selling := decimal.RequireFromString(price)
	require.NoError(t, p.SetPrices(selling, selling))
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedStock sets the on-hand quantity of a product in a warehouse.
func SeedStock(t *testing.T, db *gorm.DB, warehouseID, productID uuid.UUID, qty string) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(warehouseID, productID)
	require.NoError(t, err)
	item.Quantity = decimal.RequireFromString(qty)
	require.NoError(t, db.Create(item).Error)
	return item
}

// StockQuantity reads the on-hand quantity, zero when no row exists.
func StockQuantity(t *testing.T, db *gorm.DB, warehouseID, productID uuid.UUID) decimal.Decimal {
	t.Helper()
	var items []inventory.StockItem
	require.NoError(t, db.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).Find(&items).Error)
	if len(items) == 0 {
		return decimal.Zero
	}
	return items[0].Quantity
}

// MovementCount counts ledger rows written for one source document.
func MovementCount(t *testing.T, db *gorm.DB, sourceID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&inventory.StockMovement{}).Where("source_id = ?", sourceID).Count(&n).Error)
	return n
}
