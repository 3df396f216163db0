package models

import (
	"time"

	"gorm.io/gorm"
)

// NetWorthSnapshot point-in-time record of a user's total net worth,
// computed server-side from account balances, open crypto positions,
// credits and non-current assets.
type NetWorthSnapshot struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	UserID           uint           `json:"user_id" gorm:"index;not null"`
	Date             time.Time      `json:"date" gorm:"index;not null"`
	Liquidity        float64        `json:"liquidity" gorm:"type:decimal(14,2);not null"`    // sum of bank account balances
	Investments      float64        `json:"investments" gorm:"type:decimal(14,2);not null"`  // sum of investment account balances
	CryptoValue      float64        `json:"crypto_value" gorm:"type:decimal(14,2);not null"` // open positions at snapshot prices
	Credits          float64        `json:"credits" gorm:"type:decimal(14,2);not null"`
	NonCurrentAssets float64        `json:"non_current_assets" gorm:"type:decimal(14,2);not null"`
	Total            float64        `json:"total" gorm:"type:decimal(14,2);not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
	User             User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name
func (NetWorthSnapshot) TableName() string {
	return "net_worth_snapshots"
}
