package partner

import (
	"strings"

	"github.com/storeadmin/backend/internal/domain/shared"
)

// Supplier is a vendor products are bought from
type Supplier struct {
	shared.BaseAggregateRoot
	Code          string  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string  `gorm:"type:varchar(200);not null"`
	ContactPerson string  `gorm:"type:varchar(100)"`
	Contact       Contact `gorm:"embedded"`
	TaxNumber     string  `gorm:"type:varchar(50)"`
	PaymentTerms  int     `gorm:"not null;default:0"` // days
	Status        Status  `gorm:"type:varchar(20);not null;default:'active'"`
	Note          string  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new active supplier
func NewSupplier(code, name string, contact Contact) (*Supplier, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Contact:           contact,
		Status:            StatusActive,
	}, nil
}

// Update replaces the supplier's editable fields
func (s *Supplier) Update(name, contactPerson string, contact Contact, taxNumber string, paymentTerms int, note string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if err := s.SetDetails(contactPerson, taxNumber, paymentTerms, note); err != nil {
		return err
	}
	s.Name = name
	s.Contact = contact
	s.IncrementVersion()
	return nil
}

// SetDetails sets the purchasing details without bumping the version
func (s *Supplier) SetDetails(contactPerson, taxNumber string, paymentTerms int, note string) error {
	if len(contactPerson) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact person cannot exceed 100 characters")
	}
	if paymentTerms < 0 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
	}
	if len(taxNumber) > 50 {
		return shared.NewDomainError("INVALID_TAX_NUMBER", "Tax number cannot exceed 50 characters")
	}
	s.ContactPerson = strings.TrimSpace(contactPerson)
	s.TaxNumber = strings.TrimSpace(taxNumber)
	s.PaymentTerms = paymentTerms
	s.Note = note
	return nil
}

// Activate marks the supplier active
func (s *Supplier) Activate() error {
	if s.Status == StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Supplier is already active")
	}
	s.Status = StatusActive
	s.IncrementVersion()
	return nil
}

// Deactivate marks the supplier inactive
func (s *Supplier) Deactivate() error {
	if s.Status == StatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Supplier is already inactive")
	}
	s.Status = StatusInactive
	s.IncrementVersion()
	return nil
}
