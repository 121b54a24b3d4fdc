package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/inventory"
)

// StockService answers read-only stock queries
type StockService struct {
	stockRepo    inventory.StockItemRepository
	movementRepo inventory.StockMovementRepository
	productRepo  catalog.ProductRepository
}

// NewStockService creates a new StockService
func NewStockService(
	stockRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	productRepo catalog.ProductRepository,
) *StockService {
	return &StockService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
	}
}

// ListStock lists stock items, optionally for one warehouse or product
func (s *StockService) ListStock(ctx context.Context, filter StockListFilter) ([]StockItemResponse, error) {
	df, err := withIDs(filter.domain(), "warehouse_id", filter.WarehouseID, "product_id", filter.ProductID)
	if err != nil {
		return nil, err
	}
	items, err := s.stockRepo.FindAll(ctx, df)
	if err != nil {
		return nil, err
	}
	out := make([]StockItemResponse, len(items))
	for i := range items {
		out[i] = ToStockItemResponse(&items[i])
	}
	return out, nil
}

// GetProductStock returns per-warehouse quantities and the total for a product
func (s *StockService) GetProductStock(ctx context.Context, productID uuid.UUID) (*ProductStockResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	items, err := s.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	resp := &ProductStockResponse{
		ProductID:  productID,
		Warehouses: make([]WarehouseQuantity, 0, len(items)),
		Total:      decimal.Zero,
	}
	for _, it := range items {
		resp.Warehouses = append(resp.Warehouses, WarehouseQuantity{WarehouseID: it.WarehouseID, Quantity: it.Quantity})
		resp.Total = resp.Total.Add(it.Quantity)
	}
	return resp, nil
}

// ListMovements lists ledger rows, newest first by default
func (s *StockService) ListMovements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, error) {
	df, err := withIDs(filter.domain(),
		"warehouse_id", filter.WarehouseID,
		"product_id", filter.ProductID,
		"source_id", filter.SourceID,
	)
	if err != nil {
		return nil, err
	}
	if filter.SourceType != "" {
		df = df.With("source_type", strings.ToUpper(filter.SourceType))
	}

	movements, err := s.movementRepo.FindAll(ctx, df)
	if err != nil {
		return nil, err
	}
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out, nil
}
