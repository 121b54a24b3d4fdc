package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// referenceChecker verifies that warehouses and products named by a stock
// document exist before any stock is touched
type referenceChecker struct {
	warehouseRepo partner.WarehouseRepository
	productRepo   catalog.ProductRepository
}

// check verifies every warehouse is active and every product exists
func (c referenceChecker) check(ctx context.Context, productIDs []uuid.UUID, warehouseIDs ...uuid.UUID) error {
	for _, id := range warehouseIDs {
		if err := c.activeWarehouse(ctx, id); err != nil {
			return err
		}
	}
	return c.products(ctx, productIDs)
}

// activeWarehouse loads the warehouse and rejects inactive ones
func (c referenceChecker) activeWarehouse(ctx context.Context, id uuid.UUID) error {
	w, err := c.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Warehouse not found")
		}
		return err
	}
	if !w.IsActive() {
		return shared.NewDomainError("INVALID_STATE", "Warehouse "+w.Code+" is inactive")
	}
	return nil
}

// products fails with NOT_FOUND naming the first id that does not exist
func (c referenceChecker) products(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := c.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return shared.NewDomainError("NOT_FOUND", "Product not found: "+id.String())
		}
	}
	return nil
}

// publishEvents hands the aggregate's events to the publisher after commit.
// Delivery failures are logged by the bus and never fail the operation.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, agg shared.EventRecorder) {
	events := agg.PullEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	_ = publisher.Publish(ctx, events...)
}
