package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a user's rating and comment on a product. ProductID is not checked against products.
type Feedback struct {
	ID        string    `gorm:"primaryKey;size:36"`
	ProductID string    `gorm:"size:36;not null;index"`
	UserID    string    `gorm:"size:36;not null;index"`
	User      User      `gorm:"foreignKey:UserID"`
	Text      string    `gorm:"type:text;not null"`
	Rate      int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
