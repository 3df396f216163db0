package models

import (
	"time"

	"gorm.io/gorm"
)

// Category type constants
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// Category transaction category, unique per user, name and type.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_user_name_type,priority:1"`
	Name      string         `json:"name" gorm:"size:100;not null;uniqueIndex:idx_user_name_type,priority:2"`
	Type      string         `json:"type" gorm:"size:20;not null;uniqueIndex:idx_user_name_type,priority:3"` // income / expense
	Color     string         `json:"color" gorm:"size:20;default:#64748b"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name
func (Category) TableName() string {
	return "categories"
}
