package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(wh, p uuid.UUID, q int64) StockDelta {
	return StockDelta{StockKey: StockKey{WarehouseID: wh, ProductID: p}, Quantity: decimal.NewFromInt(q)}
}

func netMap(ds []StockDelta) map[StockKey]string {
	m := make(map[StockKey]string, len(ds))
	for _, x := range ds {
		m[x.StockKey] = x.Quantity.String()
	}
	return m
}

func TestNetDeltas(t *testing.T) {
	wh1, wh2 := uuid.New(), uuid.New()
	p1, p2 := uuid.New(), uuid.New()

	t.Run("create applies next as is", func(t *testing.T) {
		out := NetDeltas(nil, []StockDelta{d(wh1, p1, 5), d(wh1, p2, -2)})
		assert.Equal(t, map[StockKey]string{
			{wh1, p1}: "5",
			{wh1, p2}: "-2",
		}, netMap(out))
	})

	t.Run("delete reverts previous", func(t *testing.T) {
		out := NetDeltas([]StockDelta{d(wh1, p1, 5)}, nil)
		assert.Equal(t, map[StockKey]string{{wh1, p1}: "-5"}, netMap(out))
	})

	t.Run("edit quantity nets old and new", func(t *testing.T) {
		// addition of 10 edited to addition of 4: stock drops by 6
		out := NetDeltas([]StockDelta{d(wh1, p1, 10)}, []StockDelta{d(wh1, p1, 4)})
		assert.Equal(t, map[StockKey]string{{wh1, p1}: "-6"}, netMap(out))
	})

	t.Run("edit type flips sign twice", func(t *testing.T) {
		// addition of 3 edited to subtraction of 3: stock drops by 6
		out := NetDeltas([]StockDelta{d(wh1, p1, 3)}, []StockDelta{d(wh1, p1, -3)})
		assert.Equal(t, map[StockKey]string{{wh1, p1}: "-6"}, netMap(out))
	})

	t.Run("unchanged lines produce nothing", func(t *testing.T) {
		out := NetDeltas([]StockDelta{d(wh1, p1, 3)}, []StockDelta{d(wh1, p1, 3)})
		assert.Empty(t, out)
	})

	t.Run("warehouse change moves the whole quantity", func(t *testing.T) {
		out := NetDeltas([]StockDelta{d(wh1, p1, 7)}, []StockDelta{d(wh2, p1, 7)})
		assert.Equal(t, map[StockKey]string{
			{wh1, p1}: "-7",
			{wh2, p1}: "7",
		}, netMap(out))
	})

	t.Run("output is sorted by warehouse then product", func(t *testing.T) {
		out := NetDeltas(nil, []StockDelta{d(wh2, p2, 1), d(wh1, p1, 1), d(wh2, p1, 1), d(wh1, p2, 1)})
		require.Len(t, out, 4)
		for i := 1; i < len(out); i++ {
			a, b := out[i-1], out[i]
			less := a.WarehouseID.String() < b.WarehouseID.String() ||
				(a.WarehouseID == b.WarehouseID && a.ProductID.String() < b.ProductID.String())
			assert.True(t, less)
		}
	})
}

func TestReverse(t *testing.T) {
	wh, p := uuid.New(), uuid.New()
	out := Reverse([]StockDelta{d(wh, p, 4)})
	require.Len(t, out, 1)
	assert.Equal(t, "-4", out[0].Quantity.String())
}

func TestStockItemApply(t *testing.T) {
	item, err := NewStockItem(uuid.New(), uuid.New())
	require.NoError(t, err)

	before, after, err := item.Apply(decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, before.IsZero())
	assert.Equal(t, "10", after.String())
	assert.Equal(t, 2, item.Version)

	_, _, err = item.Apply(decimal.NewFromInt(-11))
	require.Error(t, err)
	assert.Equal(t, "10", item.Quantity.String())
	assert.Equal(t, 2, item.Version)

	_, after, err = item.Apply(decimal.NewFromInt(-10))
	require.NoError(t, err)
	assert.True(t, after.IsZero())
	assert.True(t, item.IsEmpty())
}

func TestNewStockItemValidation(t *testing.T) {
	_, err := NewStockItem(uuid.Nil, uuid.New())
	assert.Error(t, err)
	_, err = NewStockItem(uuid.New(), uuid.Nil)
	assert.Error(t, err)
}
