package catalog

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/shared"
)

var (
	codePattern    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	barcodePattern = regexp.MustCompile(`^[A-Za-z0-9-]{4,50}$`)
	hundred        = decimal.NewFromInt(100)
)

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

func normalizeName(name string, max int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > max {
		return "", shared.NewDomainError("INVALID_NAME", "Name is too long")
	}
	return name, nil
}
