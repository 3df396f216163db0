package models

import (
	"time"

	"gorm.io/gorm"
)

// CryptoPortfolio a named collection of crypto trades, optionally linked to
// an investment account.
type CryptoPortfolio struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"size:255"`
	AccountID   *uint          `json:"account_id" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
	Account     *Account       `json:"account,omitempty" gorm:"foreignKey:AccountID"`
	Trades      []CryptoTrade  `json:"trades,omitempty" gorm:"foreignKey:PortfolioID"`
}

// TableName sets the table name
func (CryptoPortfolio) TableName() string {
	return "crypto_portfolios"
}

// CryptoTrade an open or closed position inside a portfolio.
type CryptoTrade struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	PortfolioID uint           `json:"portfolio_id" gorm:"index;not null"`
	Symbol      string         `json:"symbol" gorm:"size:20;not null"` // upper-case ticker, e.g. BTC
	Quantity    float64        `json:"quantity" gorm:"type:decimal(20,8);not null"`
	EntryPrice  float64        `json:"entry_price" gorm:"type:decimal(20,8);not null"`
	OpenDate    time.Time      `json:"open_date" gorm:"not null"`
	ExitPrice   *float64       `json:"exit_price,omitempty" gorm:"type:decimal(20,8)"`
	CloseDate   *time.Time     `json:"close_date,omitempty"`
	RealizedPnL *float64       `json:"realized_pnl,omitempty" gorm:"type:decimal(20,8)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name
func (CryptoTrade) TableName() string {
	return "crypto_trades"
}

// IsOpen reports whether the trade has not been closed yet.
func (t *CryptoTrade) IsOpen() bool {
	return t.CloseDate == nil
}

// CostBasis returns quantity * entry price.
func (t *CryptoTrade) CostBasis() float64 {
	return t.Quantity * t.EntryPrice
}
