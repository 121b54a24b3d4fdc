package partner

import (
	"regexp"
	"strings"

	"github.com/storeadmin/backend/internal/domain/shared"
)

var (
	codePattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]{5,30}$`)
)

// Status is the lifecycle status shared by customers, suppliers and warehouses
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Contact holds the contact and address columns every partner record carries
type Contact struct {
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(50)"`
	Country string `gorm:"type:varchar(100)"`
	City    string `gorm:"type:varchar(100)"`
	Address string `gorm:"type:text"`
}

// NewContact validates and normalises contact details
func NewContact(email, phone, country, city, address string) (Contact, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email != "" && !emailPattern.MatchString(email) {
		return Contact{}, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return Contact{}, shared.NewDomainError("INVALID_PHONE", "Invalid phone format")
	}
	if len(address) > 500 {
		return Contact{}, shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	if len(city) > 100 || len(country) > 100 {
		return Contact{}, shared.NewDomainError("INVALID_ADDRESS", "City and country cannot exceed 100 characters")
	}
	return Contact{
		Email:   strings.ToLower(email),
		Phone:   phone,
		Country: strings.TrimSpace(country),
		City:    strings.TrimSpace(city),
		Address: strings.TrimSpace(address),
	}, nil
}

func normalizeCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > 50 {
		return "", shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}
	if !codePattern.MatchString(code) {
		return "", shared.NewDomainError("INVALID_CODE", "Code can only contain letters, numbers, underscores, and hyphens")
	}
	return strings.ToUpper(code), nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return "", shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return name, nil
}
