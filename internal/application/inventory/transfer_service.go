package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// TransferService moves stock between warehouses
type TransferService struct {
	scope          TransactionScope
	transferRepo   inventory.TransferRepository
	refs           referenceChecker
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(
	scope TransactionScope,
	transferRepo inventory.TransferRepository,
	warehouseRepo partner.WarehouseRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		scope:        scope,
		transferRepo: transferRepo,
		refs:         referenceChecker{warehouseRepo: warehouseRepo, productRepo: productRepo},
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for transfer events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records a transfer, taking each quantity out of the source
// warehouse and into the destination
func (s *TransferService) Create(ctx context.Context, req TransferRequest, createdBy *uuid.UUID) (_ *TransferResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_transfer", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	t, err := inventory.NewTransfer(req.Reference, req.FromWarehouseID, req.ToWarehouseID, dateOrZero(req.Date), req.Note, req.lines())
	if err != nil {
		return nil, err
	}
	t.CreatedBy = createdBy
	if err := s.refs.check(ctx, t.ProductIDs(), t.FromWarehouseID, t.ToWarehouseID); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.TransferRepo().Save(ctx, t); err != nil {
			return err
		}
		ledger := inventory.NewStockLedger(repos.StockItemRepo(), repos.MovementRepo())
		_, err := ledger.Replace(ctx, nil, t.StockDeltas(), s.source(t, "transfer created"))
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("transfer.reference", t.Reference))
	s.logger.Info("Transfer created",
		zap.String("reference", t.Reference),
		zap.String("from", t.FromWarehouseID.String()),
		zap.String("to", t.ToWarehouseID.String()),
	)
	publishEvents(ctx, s.eventPublisher, t)

	resp := ToTransferResponse(t)
	return &resp, nil
}

// Update reverts the stored transfer and applies the new version as net changes
func (s *TransferService) Update(ctx context.Context, id uuid.UUID, req TransferRequest) (_ *TransferResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_transfer", "update")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.refs.check(ctx, req.productIDs(), req.FromWarehouseID, req.ToWarehouseID); err != nil {
		return nil, err
	}

	var t *inventory.Transfer
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		t, err = repos.TransferRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous := t.StockDeltas()
		if err := t.Revise(req.FromWarehouseID, req.ToWarehouseID, dateOrZero(req.Date), req.Note, req.lines()); err != nil {
			return err
		}
		ledger := inventory.NewStockLedger(repos.StockItemRepo(), repos.MovementRepo())
		if _, err := ledger.Replace(ctx, previous, t.StockDeltas(), s.source(t, "transfer updated")); err != nil {
			return err
		}
		return repos.TransferRepo().Save(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transfer updated", zap.String("reference", t.Reference), zap.Int("version", t.Version))
	publishEvents(ctx, s.eventPublisher, t)

	resp := ToTransferResponse(t)
	return &resp, nil
}

// Delete moves the quantities back to the source warehouse and removes the transfer
func (s *TransferService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_transfer", "delete")
	defer func() { telemetry.EndSpan(span, err) }()

	var t *inventory.Transfer
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		t, err = repos.TransferRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		ledger := inventory.NewStockLedger(repos.StockItemRepo(), repos.MovementRepo())
		if _, err := ledger.Replace(ctx, t.StockDeltas(), nil, s.source(t, "transfer deleted")); err != nil {
			return err
		}
		return repos.TransferRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Transfer deleted", zap.String("reference", t.Reference))
	t.MarkDeleted()
	publishEvents(ctx, s.eventPublisher, t)
	return nil
}

// GetByID returns one transfer with its items
func (s *TransferService) GetByID(ctx context.Context, id uuid.UUID) (*TransferResponse, error) {
	t, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransferResponse(t)
	return &resp, nil
}

// List lists transfers, newest date first by default
func (s *TransferService) List(ctx context.Context, filter TransferListFilter) ([]TransferResponse, error) {
	df := filter.domain()
	if filter.OrderBy == "" {
		df.OrderBy = "date"
	}
	df, err := withIDs(df,
		"from_warehouse_id", filter.FromWarehouseID,
		"to_warehouse_id", filter.ToWarehouseID,
	)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.FindAll(ctx, df)
	if err != nil {
		return nil, err
	}
	out := make([]TransferResponse, len(transfers))
	for i := range transfers {
		out[i] = ToTransferResponse(&transfers[i])
	}
	return out, nil
}

func (s *TransferService) source(t *inventory.Transfer, reason string) inventory.MovementSource {
	return inventory.MovementSource{
		Type:      inventory.SourceTypeTransfer,
		ID:        t.ID,
		Reference: t.Reference,
		Reason:    reason,
	}
}
