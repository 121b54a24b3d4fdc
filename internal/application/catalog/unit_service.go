package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UnitService handles unit-of-measure operations
type UnitService struct {
	unitRepo    catalog.UnitRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewUnitService creates a new UnitService
func NewUnitService(unitRepo catalog.UnitRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *UnitService {
	return &UnitService{
		unitRepo:    unitRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a base or derived unit
func (s *UnitService) Create(ctx context.Context, req CreateUnitRequest) (*UnitResponse, error) {
	if err := s.ensureShortNameFree(ctx, req.ShortName); err != nil {
		return nil, err
	}

	var (
		unit *catalog.Unit
		err  error
	)
	if req.BaseUnitID == nil {
		unit, err = catalog.NewUnit(req.Name, req.ShortName)
	} else {
		if err := s.checkBaseUnit(ctx, uuid.Nil, *req.BaseUnitID); err != nil {
			return nil, err
		}
		unit, err = catalog.NewDerivedUnit(req.Name, req.ShortName, *req.BaseUnitID, unitOperator(req.Operator), req.OperatorValue)
	}
	if err != nil {
		return nil, err
	}

	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}
	s.logger.Info("Unit created", zap.String("short_name", unit.ShortName))

	response := ToUnitResponse(unit)
	return &response, nil
}

// GetByID retrieves a unit by ID
func (s *UnitService) GetByID(ctx context.Context, id uuid.UUID) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUnitResponse(unit)
	return &response, nil
}

// List retrieves units matching the filter
func (s *UnitService) List(ctx context.Context, filter UnitListFilter) ([]UnitResponse, error) {
	f, err := withIDs(filter.domain(), "base_unit_id", filter.BaseUnitID)
	if err != nil {
		return nil, err
	}
	units, err := s.unitRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]UnitResponse, len(units))
	for i := range units {
		out[i] = ToUnitResponse(&units[i])
	}
	return out, nil
}

// Update replaces a unit's names and conversion
func (s *UnitService) Update(ctx context.Context, id uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.ShortName) != unit.ShortName {
		if err := s.ensureShortNameFree(ctx, req.ShortName); err != nil {
			return nil, err
		}
	}
	if req.BaseUnitID != nil {
		if err := s.checkBaseUnit(ctx, unit.ID, *req.BaseUnitID); err != nil {
			return nil, err
		}
		derived, err := s.unitRepo.HasDerivedUnits(ctx, unit.ID)
		if err != nil {
			return nil, err
		}
		if derived {
			return nil, shared.NewDomainError("INVALID_BASE_UNIT", "A unit that other units derive from cannot itself be derived")
		}
	}

	if err := unit.Revise(req.Name, req.ShortName, req.BaseUnitID, unitOperator(req.Operator), req.OperatorValue); err != nil {
		return nil, err
	}
	if err := s.unitRepo.Save(ctx, unit); err != nil {
		return nil, err
	}

	response := ToUnitResponse(unit)
	return &response, nil
}

// Delete deletes a unit that no other unit or product refers to
func (s *UnitService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.unitRepo.FindByID(ctx, id); err != nil {
		return err
	}
	derived, err := s.unitRepo.HasDerivedUnits(ctx, id)
	if err != nil {
		return err
	}
	if derived {
		return shared.NewDomainError("INVALID_STATE", "Unit is the base of other units")
	}
	used, err := s.productRepo.ExistsByReference(ctx, "unit_id", id)
	if err != nil {
		return err
	}
	if used {
		return shared.NewDomainError("INVALID_STATE", "Unit is used by products")
	}

	if err := s.unitRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Unit deleted", zap.String("id", id.String()))
	return nil
}

func (s *UnitService) ensureShortNameFree(ctx context.Context, shortName string) error {
	exists, err := s.unitRepo.ExistsByShortName(ctx, strings.TrimSpace(shortName))
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Unit with this short name already exists")
	}
	return nil
}

// checkBaseUnit keeps conversions one level deep: the base must exist and be a base unit itself
func (s *UnitService) checkBaseUnit(ctx context.Context, self, baseID uuid.UUID) error {
	if baseID == self {
		return shared.NewDomainError("INVALID_BASE_UNIT", "A unit cannot be its own base unit")
	}
	base, err := s.unitRepo.FindByID(ctx, baseID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_BASE_UNIT", "Base unit not found")
		}
		return err
	}
	if base.IsDerived() {
		return shared.NewDomainError("INVALID_BASE_UNIT", "Base unit must not itself be derived")
	}
	return nil
}
