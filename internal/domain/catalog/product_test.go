package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates product with defaults", func(t *testing.T) {
		p, err := NewProduct("sku-001", "Test Product")
		require.NoError(t, err)
		assert.Equal(t, "SKU-001", p.Code)
		assert.Equal(t, ProductStatusActive, p.Status)
		assert.True(t, p.SellingPrice.IsZero())
		assert.Equal(t, 1, p.Version)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewProduct("", "Test Product")
		assert.Error(t, err)
	})

	t.Run("fails with invalid code characters", func(t *testing.T) {
		_, err := NewProduct("SKU 001", "Test Product")
		assert.Error(t, err)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("SKU-001", "")
		assert.Error(t, err)
	})
}

func TestProductSetPrices(t *testing.T) {
	p, _ := NewProduct("SKU-001", "Test Product")

	t.Run("sets prices", func(t *testing.T) {
		require.NoError(t, p.SetPrices(decimal.NewFromInt(60), decimal.NewFromInt(100)))
		assert.True(t, p.CostPrice.Equal(decimal.NewFromInt(60)))
		assert.True(t, p.SellingPrice.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		assert.Error(t, p.SetPrices(decimal.NewFromInt(-1), decimal.NewFromInt(100)))
	})
}

func TestProductStockSettings(t *testing.T) {
	p, _ := NewProduct("SKU-001", "Test Product")

	require.NoError(t, p.SetStockSettings(decimal.NewFromInt(5), decimal.NewFromInt(10)))
	assert.True(t, p.IsLowStock(decimal.NewFromInt(5)))
	assert.False(t, p.IsLowStock(decimal.NewFromInt(6)))

	assert.Error(t, p.SetStockSettings(decimal.NewFromInt(-1), decimal.Zero))
	assert.Error(t, p.SetStockSettings(decimal.Zero, decimal.NewFromInt(101)))
}

func TestProductBarcode(t *testing.T) {
	p, _ := NewProduct("SKU-001", "Test Product")
	require.NoError(t, p.SetBarcode("4006381333931"))
	assert.Equal(t, "4006381333931", p.Barcode)
	assert.Error(t, p.SetBarcode("12"))
	require.NoError(t, p.SetBarcode(""))
	assert.Empty(t, p.Barcode)
}

func TestProductActivation(t *testing.T) {
	p, _ := NewProduct("SKU-001", "Test Product")
	assert.Error(t, p.Activate())
	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsActive())
	require.NoError(t, p.Activate())
	assert.True(t, p.IsActive())
}

func TestUnitConversion(t *testing.T) {
	pcs, err := NewUnit("Piece", "pcs")
	require.NoError(t, err)
	box, err := NewUnit("Box", "box")
	require.NoError(t, err)

	t.Run("base unit converts one to one", func(t *testing.T) {
		assert.True(t, pcs.ToBase(decimal.NewFromInt(3)).Equal(decimal.NewFromInt(3)))
	})

	t.Run("multiply operator", func(t *testing.T) {
		require.NoError(t, box.SetConversion(&pcs.ID, UnitOperatorMultiply, decimal.NewFromInt(12)))
		assert.True(t, box.ToBase(decimal.NewFromInt(2)).Equal(decimal.NewFromInt(24)))
	})

	t.Run("divide operator", func(t *testing.T) {
		require.NoError(t, box.SetConversion(&pcs.ID, UnitOperatorDivide, decimal.NewFromInt(4)))
		assert.True(t, box.ToBase(decimal.NewFromInt(2)).Equal(decimal.RequireFromString("0.5")))
	})

	t.Run("cannot be its own base", func(t *testing.T) {
		assert.Error(t, box.SetConversion(&box.ID, UnitOperatorMultiply, decimal.NewFromInt(1)))
	})

	t.Run("rejects non-positive value", func(t *testing.T) {
		assert.Error(t, box.SetConversion(&pcs.ID, UnitOperatorMultiply, decimal.Zero))
	})

	t.Run("rejects unknown operator", func(t *testing.T) {
		assert.Error(t, box.SetConversion(&pcs.ID, UnitOperator("+"), decimal.NewFromInt(1)))
	})

	t.Run("clearing base resets conversion", func(t *testing.T) {
		require.NoError(t, box.SetConversion(nil, "", decimal.Zero))
		assert.Nil(t, box.BaseUnitID)
		assert.True(t, box.OperatorValue.Equal(decimal.NewFromInt(1)))
	})
}

func TestCategoryParent(t *testing.T) {
	c, err := NewCategory("drinks", "Drinks")
	require.NoError(t, err)
	assert.Equal(t, "DRINKS", c.Code)
	assert.True(t, c.IsRoot())

	assert.Error(t, c.SetParent(&c.ID))

	parent := uuid.New()
	require.NoError(t, c.SetParent(&parent))
	assert.False(t, c.IsRoot())
	require.NoError(t, c.SetParent(nil))
	assert.True(t, c.IsRoot())
}

func TestBrand(t *testing.T) {
	b, err := NewBrand(" Acme ", "desc")
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)
	assert.Error(t, b.Update("", ""))
}

func TestProductDetails(t *testing.T) {
	cat := uuid.New()
	details := ProductDetails{
		Name:          "Green Tea",
		Barcode:       "6901234",
		CategoryID:    &cat,
		CostPrice:     decimal.NewFromInt(3),
		SellingPrice:  decimal.NewFromInt(5),
		AlertQuantity: decimal.NewFromInt(10),
		TaxRate:       decimal.NewFromInt(13),
	}

	t.Run("creates at version one", func(t *testing.T) {
		p, err := NewProductWithDetails("tea-1", details)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Version)
		assert.Equal(t, "TEA-1", p.Code)
		assert.Equal(t, &cat, p.CategoryID)
		assert.True(t, p.TaxRate.Equal(decimal.NewFromInt(13)))
	})

	t.Run("revise bumps version once", func(t *testing.T) {
		p, err := NewProductWithDetails("tea-2", details)
		require.NoError(t, err)
		changed := details
		changed.Name = "Black Tea"
		changed.CategoryID = nil
		require.NoError(t, p.Revise(changed))
		assert.Equal(t, 2, p.Version)
		assert.Equal(t, "Black Tea", p.Name)
		assert.Nil(t, p.CategoryID)
	})

	t.Run("invalid set leaves product untouched", func(t *testing.T) {
		p, err := NewProductWithDetails("tea-3", details)
		require.NoError(t, err)
		bad := details
		bad.Name = "Renamed"
		bad.TaxRate = decimal.NewFromInt(101)
		err = p.Revise(bad)
		assert.Error(t, err)
		assert.Equal(t, "Green Tea", p.Name)
		assert.Equal(t, 1, p.Version)
	})

	t.Run("rejects bad barcode", func(t *testing.T) {
		bad := details
		bad.Barcode = "x"
		_, err := NewProductWithDetails("tea-4", bad)
		assert.Error(t, err)
	})
}

func TestNewDerivedUnit(t *testing.T) {
	base := uuid.New()
	u, err := NewDerivedUnit("Dozen", "dz", base, UnitOperatorMultiply, decimal.NewFromInt(12))
	require.NoError(t, err)
	assert.Equal(t, 1, u.Version)
	assert.True(t, u.IsDerived())
	assert.True(t, u.ToBase(decimal.NewFromInt(2)).Equal(decimal.NewFromInt(24)))

	_, err = NewDerivedUnit("Dozen", "dz", base, UnitOperatorDivide, decimal.Zero)
	assert.Error(t, err)
}

func TestNewChildCategory(t *testing.T) {
	parent := uuid.New()
	c, err := NewChildCategory("tea", "Tea", parent)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, parent, *c.ParentID)
}

func TestUnitRevise(t *testing.T) {
	u, err := NewUnit("Box", "box")
	require.NoError(t, err)
	base := uuid.New()

	require.NoError(t, u.Revise("Crate", "crt", &base, UnitOperatorMultiply, decimal.NewFromInt(6)))
	assert.Equal(t, 2, u.Version)
	assert.Equal(t, "crt", u.ShortName)
	assert.Equal(t, &base, u.BaseUnitID)

	err = u.Revise("Pallet", "plt", &u.ID, UnitOperatorMultiply, decimal.NewFromInt(1))
	assert.Error(t, err)
	assert.Equal(t, "Crate", u.Name)
	assert.Equal(t, 2, u.Version)
}

func TestCategoryRevise(t *testing.T) {
	c, err := NewCategory("tea", "Tea")
	require.NoError(t, err)
	parent := uuid.New()

	require.NoError(t, c.Revise("Green Tea", &parent))
	assert.Equal(t, "Green Tea", c.Name)
	assert.Equal(t, 2, c.Version)
	assert.Error(t, c.Revise("Green Tea", &c.ID))
	require.NoError(t, c.Revise("Tea", nil))
	assert.True(t, c.IsRoot())
}
