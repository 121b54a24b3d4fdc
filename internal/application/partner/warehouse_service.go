package partner

import (
	"context"

	"github.com/google/uuid"
	appinv "github.com/storeadmin/backend/internal/application/inventory"
	"github.com/storeadmin/backend/internal/domain/inventory"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WarehouseService handles warehouse-related business operations.
// Switching the default warehouse runs in a transaction so exactly one
// warehouse carries the flag.
type WarehouseService struct {
	scope         appinv.TransactionScope
	warehouseRepo partner.WarehouseRepository
	stockRepo     inventory.StockItemRepository
	logger        *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	scope appinv.TransactionScope,
	warehouseRepo partner.WarehouseRepository,
	stockRepo inventory.StockItemRepository,
	logger *zap.Logger,
) *WarehouseService {
	return &WarehouseService{
		scope:         scope,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		logger:        logger,
	}
}

// Create creates a new warehouse, optionally as the new default
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Warehouse with this code already exists")
	}

	contact, err := req.Contact.contact()
	if err != nil {
		return nil, err
	}
	warehouse, err := partner.NewWarehouse(req.Code, req.Name, contact)
	if err != nil {
		return nil, err
	}
	warehouse.Note = req.Note

	if req.IsDefault {
		warehouse.IsDefault = true
		err = s.saveAsDefault(ctx, warehouse)
	} else {
		err = s.warehouseRepo.Save(ctx, warehouse)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("Warehouse created", zap.String("code", warehouse.Code), zap.Bool("default", warehouse.IsDefault))

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// GetDefault retrieves the default warehouse
func (s *WarehouseService) GetDefault(ctx context.Context) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindDefault(ctx)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List retrieves warehouses matching the filter
func (s *WarehouseService) List(ctx context.Context, filter WarehouseListFilter) ([]WarehouseResponse, error) {
	df := filter.domain()
	if filter.IsDefault != nil {
		df = df.With("is_default", *filter.IsDefault)
	}
	warehouses, err := s.warehouseRepo.FindAll(ctx, df)
	if err != nil {
		return nil, err
	}
	out := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		out[i] = ToWarehouseResponse(&warehouses[i])
	}
	return out, nil
}

// Update replaces a warehouse's editable fields
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	contact, err := req.Contact.contact()
	if err != nil {
		return nil, err
	}
	if err := warehouse.Update(req.Name, contact, req.Note); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Delete deletes a warehouse that holds no stock and is not the default
func (s *WarehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if warehouse.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete the default warehouse")
	}
	hasStock, err := s.stockRepo.HasStockInWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if hasStock {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a warehouse that still holds stock")
	}
	if err := s.warehouseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Warehouse deleted", zap.String("code", warehouse.Code))
	return nil
}

// SetDefault makes the warehouse the default and clears the previous one
func (s *WarehouseService) SetDefault(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse.IsDefault {
		response := ToWarehouseResponse(warehouse)
		return &response, nil
	}
	if err := warehouse.SetDefault(true); err != nil {
		return nil, err
	}
	if err := s.saveAsDefault(ctx, warehouse); err != nil {
		return nil, err
	}
	s.logger.Info("Default warehouse changed", zap.String("code", warehouse.Code))

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Activate activates a warehouse
func (s *WarehouseService) Activate(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Warehouse).Activate)
}

// Deactivate deactivates a warehouse
func (s *WarehouseService) Deactivate(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	return s.changeStatus(ctx, id, (*partner.Warehouse).Deactivate)
}

func (s *WarehouseService) changeStatus(ctx context.Context, id uuid.UUID, change func(*partner.Warehouse) error) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(warehouse); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

func (s *WarehouseService) saveAsDefault(ctx context.Context, warehouse *partner.Warehouse) error {
	return s.scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		if err := repos.WarehouseRepo().ClearDefault(ctx, warehouse.ID); err != nil {
			return err
		}
		return repos.WarehouseRepo().Save(ctx, warehouse)
	})
}
