package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/catalog"
	"github.com/storeadmin/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var (
	productList = listSpec{
		sortFields:   fields("code", "name", "barcode", "status", "cost_price", "selling_price", "alert_quantity"),
		filterFields: set("status", "category_id", "brand_id", "unit_id", "barcode"),
	}
	unitList = listSpec{
		sortFields:   fields("name", "short_name"),
		filterFields: set("base_unit_id"),
		defaultSort:  "name",
	}
	brandList = listSpec{
		sortFields:  fields("name"),
		defaultSort: "name",
	}
	categoryList = listSpec{
		sortFields:   fields("code", "name"),
		filterFields: set("parent_id"),
		defaultSort:  "code",
	}

	productReferenceColumns = set("category_id", "brand_id", "unit_id")
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

// FindByIDs returns the products that exist among ids, in no particular order
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := applyList(r.db.WithContext(ctx).Model(&catalog.Product{}), filter, productList)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(ctx, r.db, &catalog.Product{}, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

func (r *GormProductRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	return exists(ctx, r.db, &catalog.Product{}, "barcode = ?", barcode)
}

// ExistsByReference reports whether any product points at id through column
func (r *GormProductRepository) ExistsByReference(ctx context.Context, column string, id uuid.UUID) (bool, error) {
	if !productReferenceColumns[column] {
		return false, shared.NewDomainError("INVALID_INPUT", "Unknown product reference column: "+column)
	}
	return exists(ctx, r.db, &catalog.Product{}, column+" = ?", id)
}

func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return translateError(r.db.WithContext(ctx).Save(product).Error)
}

func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &catalog.Product{}, id)
}

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Unit, error) {
	var u catalog.Unit
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *GormUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Unit, error) {
	var units []catalog.Unit
	query := applyList(r.db.WithContext(ctx).Model(&catalog.Unit{}), filter, unitList)
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *GormUnitRepository) ExistsByShortName(ctx context.Context, shortName string) (bool, error) {
	return exists(ctx, r.db, &catalog.Unit{}, "short_name = ?", strings.TrimSpace(shortName))
}

// HasDerivedUnits reports whether any unit converts into id
func (r *GormUnitRepository) HasDerivedUnits(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &catalog.Unit{}, "base_unit_id = ?", id)
}

func (r *GormUnitRepository) Save(ctx context.Context, unit *catalog.Unit) error {
	return translateError(r.db.WithContext(ctx).Save(unit).Error)
}

func (r *GormUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &catalog.Unit{}, id)
}

// GormBrandRepository implements BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	var b catalog.Brand
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &b, nil
}

func (r *GormBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Brand, error) {
	var brands []catalog.Brand
	query := applyList(r.db.WithContext(ctx).Model(&catalog.Brand{}), filter, brandList)
	if err := query.Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// ExistsByName compares names case-insensitively
func (r *GormBrandRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, &catalog.Brand{}, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
}

func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	return translateError(r.db.WithContext(ctx).Save(brand).Error)
}

func (r *GormBrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &catalog.Brand{}, id)
}

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var c catalog.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var categories []catalog.Category
	query := applyList(r.db.WithContext(ctx).Model(&catalog.Category{}), filter, categoryList)
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(ctx, r.db, &catalog.Category{}, "code = ?", strings.ToUpper(strings.TrimSpace(code)))
}

func (r *GormCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, &catalog.Category{}, "parent_id = ?", id)
}

func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return translateError(r.db.WithContext(ctx).Save(category).Error)
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &catalog.Category{}, id)
}

var (
	_ catalog.ProductRepository  = (*GormProductRepository)(nil)
	_ catalog.UnitRepository     = (*GormUnitRepository)(nil)
	_ catalog.BrandRepository    = (*GormBrandRepository)(nil)
	_ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
)
