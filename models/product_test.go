package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	for _, category := range Categories {
		parsed, ok := ParseCategory(string(category))
		assert.True(t, ok)
		assert.Equal(t, category, parsed)
	}

	_, ok := ParseCategory("electronics")
	assert.False(t, ok, "matching is case sensitive")
	_, ok = ParseCategory("Toys")
	assert.False(t, ok)
}

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name    string
		product Product
		valid   bool
	}{
		{"ok", Product{Name: "Phone", Price: 10, Category: CategoryMobiles}, true},
		{"free", Product{Name: "Sample", Price: 0, Category: CategoryGrocery}, true},
		{"blank name", Product{Name: "  ", Price: 1, Category: CategoryBooks}, false},
		{"negative price", Product{Name: "Book", Price: -1, Category: CategoryBooks}, false},
		{"unknown category", Product{Name: "Car", Price: 1, Category: "Cars"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidProduct))
		})
	}
}

func TestNewProductIsVisible(t *testing.T) {
	p := NewProduct("Kettle", "steel kettle", 25, CategoryHome)
	assert.True(t, p.Show)
	assert.NoError(t, p.Validate())
}
