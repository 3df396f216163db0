package models

import (
	"time"

	"gorm.io/gorm"
)

// Budget type constants
const (
	// BudgetTypeFixed allocates liquidity up to the target amount.
	BudgetTypeFixed = "fixed"
	// BudgetTypeUnlimited absorbs whatever liquidity remains.
	BudgetTypeUnlimited = "unlimited"
)

// Budget prioritized savings goal. Order values of a user's budgets form a
// contiguous ascending sequence starting at 1, with no duplicates; every
// writer of this table must keep that invariant.
type Budget struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	Name         string         `json:"name" gorm:"size:100;not null"`
	TargetAmount float64        `json:"target_amount" gorm:"type:decimal(12,2);default:0"`
	Type         string         `json:"type" gorm:"size:20;not null"` // fixed / unlimited
	Order        int            `json:"order" gorm:"column:sort_order;not null"`
	Color        string         `json:"color" gorm:"size:20;default:#3B82F6"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	User         User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name
func (Budget) TableName() string {
	return "budgets"
}

// IsValidBudgetType reports whether t is a known budget type.
func IsValidBudgetType(t string) bool {
	return t == BudgetTypeFixed || t == BudgetTypeUnlimited
}
