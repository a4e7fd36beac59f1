package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrInvalidProduct is returned by the save hooks when a product breaks a model invariant.
var ErrInvalidProduct = errors.New("invalid product")

type Product struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"not null;index"`
	SearchName  string    `gorm:"index" json:"-"` // lowercased Name, kept in sync by BeforeSave
	Description string    `gorm:"type:text"`
	Price       float64   `gorm:"not null"`
	ImageURLs   []string  `gorm:"serializer:json;type:text"`
	Category    Category  `gorm:"size:32;not null;index"`
	Show        bool      `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// NewProduct returns a visible product. Show is a plain bool, so a zero Product is hidden.
func NewProduct(name, description string, price float64, category Category) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		Show:        true,
	}
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	if err := p.Validate(); err != nil {
		return err
	}
	// lowered in Go so search folds non-ASCII letters the same on every database
	p.SearchName = strings.ToLower(p.Name)
	return nil
}

// Validate checks the invariants every stored product must hold.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.Wrap(ErrInvalidProduct, "name is required")
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return errors.Wrapf(ErrInvalidProduct, "price %v is not a non-negative number", p.Price)
	}
	if !p.Category.Valid() {
		return errors.Wrapf(ErrInvalidProduct, "category %q is not allowed", p.Category)
	}
	return nil
}
