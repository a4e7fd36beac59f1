package models

import (
	"time"

	"gorm.io/gorm"
)

type LoginToken struct {
	gorm.Model
	Token          string `gorm:"size:512;index"`
	ExpirationTime time.Time
	UserID         string `gorm:"size:36;index"`
	Role           string
}
