package partner

import (
	"strings"

	"github.com/storeadmin/backend/internal/domain/shared"
)

// Customer is a buyer that can be attached to POS sales
type Customer struct {
	shared.BaseAggregateRoot
	Code      string  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string  `gorm:"type:varchar(200);not null"`
	Contact   Contact `gorm:"embedded"`
	TaxNumber string  `gorm:"type:varchar(50)"`
	Status    Status  `gorm:"type:varchar(20);not null;default:'active'"`
	Note      string  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new active customer
func NewCustomer(code, name string, contact Contact) (*Customer, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Contact:           contact,
		Status:            StatusActive,
	}, nil
}

// Update replaces the customer's editable fields
func (c *Customer) Update(name string, contact Contact, taxNumber, note string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if len(taxNumber) > 50 {
		return shared.NewDomainError("INVALID_TAX_NUMBER", "Tax number cannot exceed 50 characters")
	}

	c.Name = name
	c.Contact = contact
	c.TaxNumber = strings.TrimSpace(taxNumber)
	c.Note = note
	c.IncrementVersion()
	return nil
}

// Activate marks the customer active
func (c *Customer) Activate() error {
	if c.Status == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}
	c.Status = StatusActive
	c.IncrementVersion()
	return nil
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() error {
	if c.Status == StatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already inactive")
	}
	c.Status = StatusInactive
	c.IncrementVersion()
	return nil
}

// IsActive returns true if the customer can be used on new sales
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}
