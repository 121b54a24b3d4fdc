package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// UnitOperator describes how a unit converts to its base unit
type UnitOperator string

const (
	UnitOperatorMultiply UnitOperator = "*"
	UnitOperatorDivide   UnitOperator = "/"
)

// Unit is a unit of measure such as "piece" or "box of 12".
// A derived unit converts to its base unit via Operator and OperatorValue:
// 1 box = 12 pcs is BaseUnit=pcs, Operator="*", OperatorValue=12.
type Unit struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(100);not null"`
	ShortName     string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	BaseUnitID    *uuid.UUID      `gorm:"type:uuid;index"`
	Operator      UnitOperator    `gorm:"type:varchar(1);not null;default:'*'"`
	OperatorValue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "units"
}

// NewUnit creates a base unit
func NewUnit(name, shortName string) (*Unit, error) {
	u := &Unit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Operator:          UnitOperatorMultiply,
		OperatorValue:     decimal.NewFromInt(1),
	}
	if err := u.setNames(name, shortName); err != nil {
		return nil, err
	}
	return u, nil
}

// Update replaces the unit's names
func (u *Unit) Update(name, shortName string) error {
	if err := u.setNames(name, shortName); err != nil {
		return err
	}
	u.IncrementVersion()
	return nil
}

// NewDerivedUnit creates a unit that converts to baseUnitID
func NewDerivedUnit(name, shortName string, baseUnitID uuid.UUID, op UnitOperator, value decimal.Decimal) (*Unit, error) {
	u, err := NewUnit(name, shortName)
	if err != nil {
		return nil, err
	}
	if err := u.setConversion(&baseUnitID, op, value); err != nil {
		return nil, err
	}
	return u, nil
}

// SetConversion links the unit to a base unit. Passing a nil base clears it.
func (u *Unit) SetConversion(baseUnitID *uuid.UUID, op UnitOperator, value decimal.Decimal) error {
	if err := u.setConversion(baseUnitID, op, value); err != nil {
		return err
	}
	u.IncrementVersion()
	return nil
}

// Revise replaces the names and the conversion at once
func (u *Unit) Revise(name, shortName string, baseUnitID *uuid.UUID, op UnitOperator, value decimal.Decimal) error {
	next := *u
	if err := next.setNames(name, shortName); err != nil {
		return err
	}
	if err := next.setConversion(baseUnitID, op, value); err != nil {
		return err
	}
	*u = next
	u.IncrementVersion()
	return nil
}

// IsDerived returns true when the unit converts to another unit
func (u *Unit) IsDerived() bool {
	return u.BaseUnitID != nil
}

func (u *Unit) setConversion(baseUnitID *uuid.UUID, op UnitOperator, value decimal.Decimal) error {
	if baseUnitID == nil {
		u.BaseUnitID = nil
		u.Operator = UnitOperatorMultiply
		u.OperatorValue = decimal.NewFromInt(1)
		return nil
	}
	if *baseUnitID == u.ID {
		return shared.NewDomainError("INVALID_BASE_UNIT", "A unit cannot be its own base unit")
	}
	if op != UnitOperatorMultiply && op != UnitOperatorDivide {
		return shared.NewDomainError("INVALID_OPERATOR", "Operator must be '*' or '/'")
	}
	if !value.IsPositive() {
		return shared.NewDomainError("INVALID_OPERATOR_VALUE", "Operator value must be positive")
	}
	id := *baseUnitID
	u.BaseUnitID = &id
	u.Operator = op
	u.OperatorValue = value
	return nil
}

// ToBase converts a quantity in this unit to the base unit
func (u *Unit) ToBase(qty decimal.Decimal) decimal.Decimal {
	if u.BaseUnitID == nil {
		return qty
	}
	if u.Operator == UnitOperatorDivide {
		return qty.Div(u.OperatorValue)
	}
	return qty.Mul(u.OperatorValue)
}

func (u *Unit) setNames(name, shortName string) error {
	name, err := normalizeName(name, 100)
	if err != nil {
		return err
	}
	shortName = strings.TrimSpace(shortName)
	if shortName == "" || len(shortName) > 20 {
		return shared.NewDomainError("INVALID_SHORT_NAME", "Short name must be 1-20 characters")
	}
	u.Name = name
	u.ShortName = shortName
	return nil
}
