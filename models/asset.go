package models

import (
	"time"

	"gorm.io/gorm"
)

// NonCurrentAsset an illiquid possession tracked at an estimated value
// (property, vehicles, collectibles). Counts toward net worth.
type NonCurrentAsset struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"size:255"`
	Value       float64        `json:"value" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name
func (NonCurrentAsset) TableName() string {
	return "non_current_assets"
}
