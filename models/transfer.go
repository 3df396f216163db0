package models

import (
	"time"

	"gorm.io/gorm"
)

// Transfer movement of money between two accounts of the same user.
type Transfer struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	Amount        float64        `json:"amount" gorm:"type:decimal(12,2);not null"`
	Date          time.Time      `json:"date" gorm:"not null"`
	Description   string         `json:"description" gorm:"size:255"`
	FromAccountID uint           `json:"from_account_id" gorm:"index;not null"`
	ToAccountID   uint           `json:"to_account_id" gorm:"index;not null"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	User          User           `json:"-" gorm:"foreignKey:UserID"`
	FromAccount   Account        `json:"from_account,omitempty" gorm:"foreignKey:FromAccountID"`
	ToAccount     Account        `json:"to_account,omitempty" gorm:"foreignKey:ToAccountID"`
}

// TableName sets the table name
func (Transfer) TableName() string {
	return "transfers"
}
