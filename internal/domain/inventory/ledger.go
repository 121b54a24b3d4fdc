package inventory

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockLedger applies stock deltas and records the matching ledger rows.
// It must be constructed with repositories bound to the surrounding
// transaction so that a failure on any delta rolls back all of them.
type StockLedger struct {
	items     StockItemRepository
	movements StockMovementRepository
}

// NewStockLedger creates a ledger over the given repositories
func NewStockLedger(items StockItemRepository, movements StockMovementRepository) *StockLedger {
	return &StockLedger{items: items, movements: movements}
}

// Apply applies each delta in order and writes one movement per delta.
// Zero deltas are skipped.
func (l *StockLedger) Apply(ctx context.Context, deltas []StockDelta, src MovementSource) ([]*StockMovement, error) {
	movements := make([]*StockMovement, 0, len(deltas))
	for _, d := range deltas {
		if d.Quantity.Equal(decimal.Zero) {
			continue
		}
		item, err := l.items.GetOrCreateForUpdate(ctx, d.StockKey)
		if err != nil {
			return nil, err
		}
		before, after, err := item.Apply(d.Quantity)
		if err != nil {
			return nil, err
		}
		if err := l.items.SaveWithLock(ctx, item); err != nil {
			return nil, err
		}
		movements = append(movements, NewStockMovement(item, d.Quantity, before, after, src))
	}
	if len(movements) == 0 {
		return movements, nil
	}
	if err := l.movements.Create(ctx, movements...); err != nil {
		return nil, err
	}
	return movements, nil
}

// Replace moves stock from the state produced by previous to the state
// produced by next, writing only the net changes
func (l *StockLedger) Replace(ctx context.Context, previous, next []StockDelta, src MovementSource) ([]*StockMovement, error) {
	return l.Apply(ctx, NetDeltas(previous, next), src)
}
