package catalog

import (
	"github.com/google/uuid"
	"github.com/storeadmin/backend/internal/domain/shared"
)

// Category is a product category, optionally nested under a parent
type Category struct {
	shared.BaseAggregateRoot
	Code     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string     `gorm:"type:varchar(100);not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new top-level category
func NewCategory(code, name string) (*Category, error) {
	code, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}
	name, err = normalizeName(name, 100)
	if err != nil {
		return nil, err
	}
	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
	}, nil
}

// Update replaces the category name
func (c *Category) Update(name string) error {
	name, err := normalizeName(name, 100)
	if err != nil {
		return err
	}
	c.Name = name
	c.IncrementVersion()
	return nil
}

// NewChildCategory creates a category nested under parentID
func NewChildCategory(code, name string, parentID uuid.UUID) (*Category, error) {
	c, err := NewCategory(code, name)
	if err != nil {
		return nil, err
	}
	c.ParentID = &parentID
	return c, nil
}

// SetParent moves the category under parentID, or to the top level when nil
func (c *Category) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError("INVALID_PARENT", "A category cannot be its own parent")
	}
	if parentID == nil {
		c.ParentID = nil
	} else {
		id := *parentID
		c.ParentID = &id
	}
	c.IncrementVersion()
	return nil
}

// Revise replaces the name and the parent at once
func (c *Category) Revise(name string, parentID *uuid.UUID) error {
	name, err := normalizeName(name, 100)
	if err != nil {
		return err
	}
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError("INVALID_PARENT", "A category cannot be its own parent")
	}
	c.Name = name
	c.ParentID = nil
	if parentID != nil {
		id := *parentID
		c.ParentID = &id
	}
	c.IncrementVersion()
	return nil
}

// IsRoot returns true for a top-level category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
