package persistence

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/storeadmin/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// listSpec whitelists the columns a list query may filter and sort on
type listSpec struct {
	sortFields   map[string]bool
	filterFields map[string]bool
	defaultSort  string
}

// fields builds a whitelist that always includes the base entity columns
func fields(names ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, n := range names {
		m[n] = true
	}
	return m
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// applyList adds equality conditions and ordering from filter.
// Unknown filter keys are ignored; keys are applied in sorted order so the
// generated SQL is stable.
func applyList(query *gorm.DB, filter shared.Filter, spec listSpec) *gorm.DB {
	keys := make([]string, 0, len(filter.Filters))
	for k := range filter.Filters {
		if spec.filterFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		query = query.Where(k+" = ?", filter.Filters[k])
	}

	defaultSort := spec.defaultSort
	if defaultSort == "" {
		defaultSort = "created_at"
	}
	field := ValidateSortField(filter.OrderBy, spec.sortFields, defaultSort)
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// translateError maps gorm errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainErrorWithCause("ALREADY_EXISTS", "Resource already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainErrorWithCause("INVALID_STATE", "Resource is still referenced by other records", err)
	default:
		return err
	}
}

// exists reports whether at least one row of model matches the condition
func exists(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// deleteByID removes one row, returning ErrNotFound when nothing matched
func deleteByID(ctx context.Context, db *gorm.DB, model interface{}, id interface{}) error {
	result := db.WithContext(ctx).Delete(model, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
