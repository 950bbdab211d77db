package model

import (
	"time"
)

type User struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Username   string    `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password   string    `json:"-" gorm:"size:255;not null"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Email      string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Role       string    `json:"role" gorm:"size:20;default:'user'"` // "admin" or "user"
	Department string    `json:"department" gorm:"size:100"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
