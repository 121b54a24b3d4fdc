package shared

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateReference builds a human-readable document number such as
// ADJ-20260102-3F9A1C from a prefix, the document date and a random suffix.
func GenerateReference(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return prefix + "-" + at.Format("20060102") + "-" + suffix
}
