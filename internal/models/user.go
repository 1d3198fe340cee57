package models

import (
	"time"
)

// RoleUser is the role given to every registered user.
const RoleUser = "user"

type User struct {
	ID              uint64     `gorm:"primarykey" json:"id"`
	Username        string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Password        string     `gorm:"type:varchar(255);not null" json:"-"`
	Email           *string    `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	FirstName       *string    `gorm:"type:varchar(100)" json:"firstName"`
	LastName        *string    `gorm:"type:varchar(100)" json:"lastName"`
	Role            string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	ProfileImageURL *string    `gorm:"type:varchar(512)" json:"profileImageUrl"`
	IsActive        bool       `gorm:"not null;default:true" json:"isActive"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	LastLogin       *time.Time `json:"lastLogin"`
}
