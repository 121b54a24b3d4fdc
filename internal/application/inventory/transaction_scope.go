package inventory

import (
	"context"

	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/sales"
)

// TransactionScope runs a function inside one database transaction.
// Returning an error from fn rolls back every write made through repos.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current
// transaction. Stock items, movements and the document that caused them are
// always written through the same instance.
type TransactionalRepositories interface {
	StockItemRepo() inventory.StockItemRepository
	MovementRepo() inventory.StockMovementRepository
	AdjustmentRepo() inventory.AdjustmentRepository
	TransferRepo() inventory.TransferRepository
	SaleRepo() sales.SaleRepository
	WarehouseRepo() partner.WarehouseRepository
}

// NoOpTransactionScope hands its fixed repositories to fn without a
// transaction. Used by unit tests with mocked repositories.
type NoOpTransactionScope struct {
	StockItems  inventory.StockItemRepository
	Movements   inventory.StockMovementRepository
	Adjustments inventory.AdjustmentRepository
	Transfers   inventory.TransferRepository
	Sales       sales.SaleRepository
	Warehouses  partner.WarehouseRepository
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) StockItemRepo() inventory.StockItemRepository    { return s.StockItems }
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository { return s.Movements }
func (s *NoOpTransactionScope) AdjustmentRepo() inventory.AdjustmentRepository  { return s.Adjustments }
func (s *NoOpTransactionScope) TransferRepo() inventory.TransferRepository      { return s.Transfers }
func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository                  { return s.Sales }
func (s *NoOpTransactionScope) WarehouseRepo() partner.WarehouseRepository      { return s.Warehouses }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
