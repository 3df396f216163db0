package models

import (
	"time"

	"gorm.io/gorm"
)

// Transaction type constants
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction categorized income or expense movement on an account.
type Transaction struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Description string         `json:"description" gorm:"size:255;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Date        time.Time      `json:"date" gorm:"index;not null"`
	Type        string         `json:"type" gorm:"size:20;index;not null"` // income / expense
	AccountID   uint           `json:"account_id" gorm:"index;not null"`
	CategoryID  uint           `json:"category_id" gorm:"index;not null"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
	Account     Account        `json:"account,omitempty" gorm:"foreignKey:AccountID"`
	Category    Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName sets the table name
func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount returns the amount with expense negated, for balance math.
func (t *Transaction) SignedAmount() float64 {
	if t.Type == TransactionTypeExpense {
		return -t.Amount
	}
	return t.Amount
}
