package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/sales"
	"github.com/storeadmin/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var saleList = listSpec{
	sortFields:   fields("reference", "sold_at", "grand_total", "warehouse_id"),
	filterFields: set("warehouse_id", "customer_id", "cashier_id", "payment_method"),
	defaultSort:  "sold_at",
}

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var s sales.Sale
	if err := r.db.WithContext(ctx).Preload("Items").First(&s, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &s, nil
}

func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var list []sales.Sale
	query := applyList(r.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Items"), filter, saleList)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Create inserts the sale together with its items
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	return translateError(r.db.WithContext(ctx).Create(sale).Error)
}

func (r *GormSaleRepository) UpdateReceiptKey(ctx context.Context, id uuid.UUID, key string) error {
	result := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Where("id = ?", id).
		Update("receipt_key", key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormSaleRepository) ExistsForProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &sales.SaleItem{}, "product_id = ?", productID)
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
