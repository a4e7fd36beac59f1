// Package store is the query layer over the product and feedback tables.
package store

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("malformed identifier")
)

// ValidID reports whether id is a well-formed record identifier.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
