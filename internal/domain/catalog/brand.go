package catalog

import (
	"github.com/storeadmin/backend/internal/domain/shared"
)

// Brand groups products by manufacturer or label
type Brand struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new brand
func NewBrand(name, description string) (*Brand, error) {
	name, err := normalizeName(name, 100)
	if err != nil {
		return nil, err
	}
	return &Brand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
	}, nil
}

// Update replaces the brand's fields
func (b *Brand) Update(name, description string) error {
	name, err := normalizeName(name, 100)
	if err != nil {
		return err
	}
	b.Name = name
	b.Description = description
	b.IncrementVersion()
	return nil
}
