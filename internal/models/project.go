package models

import "time"

// Project is a named, colored grouping of tasks owned by exactly one user.
type Project struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Color     string    `gorm:"type:varchar(32);not null" json:"color"`
	UserID    uint64    `gorm:"not null;index" json:"userId"`
	TeamID    *uint64   `json:"teamId"`
	IsPublic  bool      `gorm:"not null;default:false" json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
