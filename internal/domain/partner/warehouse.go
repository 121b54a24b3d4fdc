package partner

import (
	"github.com/storeadmin/backend/internal/domain/shared"
)

// Warehouse is a stock location. Stock, adjustments, transfers and sales all
// reference a warehouse.
type Warehouse struct {
	shared.BaseAggregateRoot
	Code      string  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string  `gorm:"type:varchar(200);not null"`
	Contact   Contact `gorm:"embedded"`
	IsDefault bool    `gorm:"not null;default:false"`
	Status    Status  `gorm:"type:varchar(20);not null;default:'active'"`
	Note      string  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new active warehouse
func NewWarehouse(code, name string, contact Contact) (*Warehouse, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}

	return &Warehouse{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Contact:           contact,
		Status:            StatusActive,
	}, nil
}

// Update replaces the warehouse's editable fields
func (w *Warehouse) Update(name string, contact Contact, note string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	w.Name = name
	w.Contact = contact
	w.Note = note
	w.IncrementVersion()
	return nil
}

// SetDefault marks the warehouse as the default stock location
func (w *Warehouse) SetDefault(isDefault bool) error {
	if isDefault && w.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active warehouse can be the default")
	}
	w.IsDefault = isDefault
	w.IncrementVersion()
	return nil
}

// Activate marks the warehouse active
func (w *Warehouse) Activate() error {
	if w.Status == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Warehouse is already active")
	}
	w.Status = StatusActive
	w.IncrementVersion()
	return nil
}

// Deactivate marks the warehouse inactive. The default warehouse cannot be deactivated.
func (w *Warehouse) Deactivate() error {
	if w.Status == StatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Warehouse is already inactive")
	}
	if w.IsDefault {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate the default warehouse")
	}
	w.Status = StatusInactive
	w.IncrementVersion()
	return nil
}

// IsActive returns true if the warehouse accepts stock movements
func (w *Warehouse) IsActive() bool {
	return w.Status == StatusActive
}
