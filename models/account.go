package models

import (
	"time"

	"gorm.io/gorm"
)

// Account type constants
const (
	AccountTypeBank       = "bank"
	AccountTypeInvestment = "investment"
)

// Account bank or investment account with a running balance.
type Account struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	Type      string         `json:"type" gorm:"size:20;not null"` // bank / investment
	Balance   float64        `json:"balance" gorm:"type:decimal(12,2);default:0"`
	IsDefault bool           `json:"is_default" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name
func (Account) TableName() string {
	return "accounts"
}

// IsValidAccountType reports whether t is a known account type.
func IsValidAccountType(t string) bool {
	return t == AccountTypeBank || t == AccountTypeInvestment
}
