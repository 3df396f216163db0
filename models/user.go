package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// CurrencyEUR default display currency
	CurrencyEUR = "EUR"
	// CurrencyUSD alternative display currency
	CurrencyUSD = "USD"
)

// User account owner; every domain record hangs off a user.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex;size:100;not null"`
	Name      string         `json:"name" gorm:"size:100;not null"`
	Password  string         `json:"-" gorm:"size:255;not null"`
	Currency  string         `json:"currency" gorm:"size:3;default:EUR"` // EUR or USD
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name
func (User) TableName() string {
	return "users"
}
