package inventory

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockKey identifies a stock item
type StockKey struct {
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
}

// StockDelta is a signed quantity change for one stock item
type StockDelta struct {
	StockKey
	Quantity decimal.Decimal
}

// Reverse returns the deltas that undo ds
func Reverse(ds []StockDelta) []StockDelta {
	out := make([]StockDelta, len(ds))
	for i, d := range ds {
		out[i] = StockDelta{StockKey: d.StockKey, Quantity: d.Quantity.Neg()}
	}
	return out
}

// NetDeltas computes the change that takes stock from the state produced by
// previous to the state produced by next: every previous delta is reverted and
// every next delta applied, merged per stock item. Zero nets are dropped.
//
// The result is sorted by warehouse then product so callers lock rows in a
// stable order.
func NetDeltas(previous, next []StockDelta) []StockDelta {
	totals := make(map[StockKey]decimal.Decimal)
	for _, d := range previous {
		totals[d.StockKey] = totals[d.StockKey].Sub(d.Quantity)
	}
	for _, d := range next {
		totals[d.StockKey] = totals[d.StockKey].Add(d.Quantity)
	}

	out := make([]StockDelta, 0, len(totals))
	for k, q := range totals {
		if q.IsZero() {
			continue
		}
		out = append(out, StockDelta{StockKey: k, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := bytes.Compare(out[i].WarehouseID[:], out[j].WarehouseID[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(out[i].ProductID[:], out[j].ProductID[:]) < 0
	})
	return out
}
