package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// SaleRepository defines persistence operations for sales
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)
	Create(ctx context.Context, sale *Sale) error
	UpdateReceiptKey(ctx context.Context, id uuid.UUID, key string) error
	ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}
