package partner

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/partner"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// ContactInput carries the contact and address fields shared by partners
type ContactInput struct {
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=30"`
	Country string `json:"country" binding:"max=100"`
	City    string `json:"city" binding:"max=100"`
	Address string `json:"address" binding:"max=500"`
}

func (c ContactInput) contact() (partner.Contact, error) {
	return partner.NewContact(c.Email, c.Phone, c.Country, c.City, c.Address)
}

// ContactResponse is the contact block of partner responses
type ContactResponse struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
	City    string `json:"city"`
	Address string `json:"address"`
}

func toContactResponse(c partner.Contact) ContactResponse {
	return ContactResponse{
		Email:   c.Email,
		Phone:   c.Phone,
		Country: c.Country,
		City:    c.City,
		Address: c.Address,
	}
}

// ListFilter carries ordering and the status filter for partner lists
type ListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=active inactive ACTIVE INACTIVE"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (f ListFilter) domain() shared.Filter {
	out := shared.DefaultFilter()
	if f.OrderBy != "" {
		out.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		out.OrderDir = f.OrderDir
	}
	if f.Status != "" {
		out = out.With("status", strings.ToLower(f.Status))
	}
	return out
}

// =============================================================================
// Customer DTOs
// =============================================================================

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code      string       `json:"code" binding:"required,min=1,max=50"`
	Name      string       `json:"name" binding:"required,min=1,max=200"`
	Contact   ContactInput `json:"contact"`
	TaxNumber string       `json:"tax_number" binding:"max=50"`
	Note      string       `json:"note" binding:"max=2000"`
}

// UpdateCustomerRequest replaces a customer's editable fields
type UpdateCustomerRequest struct {
	Name      string       `json:"name" binding:"required,min=1,max=200"`
	Contact   ContactInput `json:"contact"`
	TaxNumber string       `json:"tax_number" binding:"max=50"`
	Note      string       `json:"note" binding:"max=2000"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Contact   ContactResponse `json:"contact"`
	TaxNumber string          `json:"tax_number"`
	Status    string          `json:"status"`
	Note      string          `json:"note"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Contact:   toContactResponse(c.Contact),
		TaxNumber: c.TaxNumber,
		Status:    string(c.Status),
		Note:      c.Note,
		Version:   c.Version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// =============================================================================
// Supplier DTOs
// =============================================================================

// CreateSupplierRequest represents a request to create a new supplier
type CreateSupplierRequest struct {
	Code          string       `json:"code" binding:"required,min=1,max=50"`
	Name          string       `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string       `json:"contact_person" binding:"max=100"`
	Contact       ContactInput `json:"contact"`
	TaxNumber     string       `json:"tax_number" binding:"max=50"`
	PaymentTerms  int          `json:"payment_terms" binding:"min=0,max=365"`
	Note          string       `json:"note" binding:"max=2000"`
}

// UpdateSupplierRequest replaces a supplier's editable fields
type UpdateSupplierRequest struct {
	Name          string       `json:"name" binding:"required,min=1,max=200"`
	ContactPerson string       `json:"contact_person" binding:"max=100"`
	Contact       ContactInput `json:"contact"`
	TaxNumber     string       `json:"tax_number" binding:"max=50"`
	PaymentTerms  int          `json:"payment_terms" binding:"min=0,max=365"`
	Note          string       `json:"note" binding:"max=2000"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	ContactPerson string          `json:"contact_person"`
	Contact       ContactResponse `json:"contact"`
	TaxNumber     string          `json:"tax_number"`
	PaymentTerms  int             `json:"payment_terms"`
	Status        string          `json:"status"`
	Note          string          `json:"note"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Contact:       toContactResponse(s.Contact),
		TaxNumber:     s.TaxNumber,
		PaymentTerms:  s.PaymentTerms,
		Status:        string(s.Status),
		Note:          s.Note,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// =============================================================================
// Warehouse DTOs
// =============================================================================

// CreateWarehouseRequest represents a request to create a new warehouse
type CreateWarehouseRequest struct {
	Code      string       `json:"code" binding:"required,min=1,max=50"`
	Name      string       `json:"name" binding:"required,min=1,max=200"`
	Contact   ContactInput `json:"contact"`
	Note      string       `json:"note" binding:"max=2000"`
	IsDefault bool         `json:"is_default"`
}

// UpdateWarehouseRequest replaces a warehouse's editable fields
type UpdateWarehouseRequest struct {
	Name    string       `json:"name" binding:"required,min=1,max=200"`
	Contact ContactInput `json:"contact"`
	Note    string       `json:"note" binding:"max=2000"`
}

// WarehouseListFilter filters warehouses
type WarehouseListFilter struct {
	ListFilter
	IsDefault *bool `form:"is_default"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Contact   ContactResponse `json:"contact"`
	IsDefault bool            `json:"is_default"`
	Status    string          `json:"status"`
	Note      string          `json:"note"`
	Version   int             `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToWarehouseResponse converts a domain Warehouse to WarehouseResponse
func ToWarehouseResponse(w *partner.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Contact:   toContactResponse(w.Contact),
		IsDefault: w.IsDefault,
		Status:    string(w.Status),
		Note:      w.Note,
		Version:   w.Version,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
