package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID          string `gorm:"primaryKey;size:36"`
	Username    string `gorm:"size:64;unique;not null"`
	Email       string `gorm:"size:191;unique;not null"`
	Password    string `gorm:"not null"`
	Name        string
	Role        string
	LoginTokens []LoginToken
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
