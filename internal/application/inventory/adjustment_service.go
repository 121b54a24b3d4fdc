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

// AdjustmentService creates, revises and deletes stock adjustments.
// Every write runs in one transaction together with the stock it moves.
type AdjustmentService struct {
	scope          TransactionScope
	adjustmentRepo inventory.AdjustmentRepository
	refs           referenceChecker
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	scope TransactionScope,
	adjustmentRepo inventory.AdjustmentRepository,
	warehouseRepo partner.WarehouseRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *AdjustmentService {
	return &AdjustmentService{
		scope:          scope,
		adjustmentRepo: adjustmentRepo,
		refs:           referenceChecker{warehouseRepo: warehouseRepo, productRepo: productRepo},
		logger:         logger,
	}
}

// SetEventPublisher sets the publisher for adjustment events
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create records an adjustment and applies its signed quantities to stock
func (s *AdjustmentService) Create(ctx context.Context, req AdjustmentRequest, createdBy *uuid.UUID) (_ *AdjustmentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_adjustment", "create")
	defer func() { telemetry.EndSpan(span, err) }()

	adj, err := inventory.NewAdjustment(req.Reference, req.WarehouseID, dateOrZero(req.Date), req.Note, req.lines())
	if err != nil {
		return nil, err
	}
	adj.CreatedBy = createdBy
	if err := s.refs.check(ctx, adj.ProductIDs(), adj.WarehouseID); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.AdjustmentRepo().Save(ctx, adj); err != nil {
			return err
		}
		ledger := inventory.NewStockLedger(repos.StockItemRepo(), repos.MovementRepo())
		_, err := ledger.Replace(ctx, nil, adj.StockDeltas(), s.source(adj, "adjustment created"))
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("adjustment.reference", adj.Reference))
	s.logger.Info("Adjustment created",
		zap.String("reference", adj.Reference),
		zap.Int("items", len(adj.Items)),
	)
	publishEvents(ctx, s.eventPublisher, adj)

	resp := ToAdjustmentResponse(adj)
	return &resp, nil
}

// Update reverts the stored adjustment and applies the new version, writing
// one movement per net change
func (s *AdjustmentService) Update(ctx context.Context, id uuid.UUID, req AdjustmentRequest) (_ *AdjustmentResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_adjustment", "update")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.refs.check(ctx, req.productIDs(), req.WarehouseID); err != nil {
		return nil, err
	}

	var adj *inventory.Adjustment
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		adj, err = repos.AdjustmentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		previous := adj.StockDeltas()
		if err := adj.Revise(req.WarehouseID, dateOrZero(req.Date), req.Note, req.lines()); err != nil {
			return err
		}
		ledger := inventory.NewStockLedger(repos.StockItemRepo(), repos.MovementRepo())
		if _, err := ledger.Replace(ctx, previous, adj.StockDeltas(), s.source(adj, "adjustment updated")); err != nil {
			return err
		}
		return repos.AdjustmentRepo().Save(ctx, adj)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Adjustment updated", zap.String("reference", adj.Reference), zap.Int("version", adj.Version))
	publishEvents(ctx, s.eventPublisher, adj)

	resp := ToAdjustmentResponse(adj)
	return &resp, nil
}

// Delete reverts every item of the adjustment and removes it
func (s *AdjustmentService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock_adjustment", "delete")
	defer func() { telemetry.EndSpan(span, err) }()

	var adj *inventory.Adjustment
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		adj, err = repos.AdjustmentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		ledger := inventory.NewStockLedger(repos.StockItemRepo(), repos.MovementRepo())
		if _, err := ledger.Replace(ctx, adj.StockDeltas(), nil, s.source(adj, "adjustment deleted")); err != nil {
			return err
		}
		return repos.AdjustmentRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Adjustment deleted", zap.String("reference", adj.Reference))
	adj.MarkDeleted()
	publishEvents(ctx, s.eventPublisher, adj)
	return nil
}

// GetByID returns one adjustment with its items
func (s *AdjustmentService) GetByID(ctx context.Context, id uuid.UUID) (*AdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAdjustmentResponse(adj)
	return &resp, nil
}

// List lists adjustments, newest date first by default
func (s *AdjustmentService) List(ctx context.Context, filter AdjustmentListFilter) ([]AdjustmentResponse, error) {
	df := filter.domain()
	if filter.OrderBy == "" {
		df.OrderBy = "date"
	}
	df, err := withIDs(df, "warehouse_id", filter.WarehouseID)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.adjustmentRepo.FindAll(ctx, df)
	if err != nil {
		return nil, err
	}
	out := make([]AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		out[i] = ToAdjustmentResponse(&adjustments[i])
	}
	return out, nil
}

func (s *AdjustmentService) source(adj *inventory.Adjustment, reason string) inventory.MovementSource {
	return inventory.MovementSource{
		Type:      inventory.SourceTypeAdjustment,
		ID:        adj.ID,
		Reference: adj.Reference,
		Reason:    reason,
	}
}
