package models

import (
	"time"

	"gorm.io/gorm"
)

// Default percentages of the Italian "regime forfettario": 78% of revenue is
// taxable, 5% substitute tax, 26.23% INPS contributions.
const (
	DefaultPercentualeImponibile = 78
	DefaultPercentualeImposta    = 5
	DefaultPercentualeContributi = 26.23
)

// PartitaIVAConfig per-year tax parameters for a sole proprietorship.
type PartitaIVAConfig struct {
	ID                    uint           `json:"id" gorm:"primaryKey"`
	UserID                uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_piva_config_user_anno,priority:1"`
	Anno                  int            `json:"anno" gorm:"not null;uniqueIndex:idx_piva_config_user_anno,priority:2"`
	PercentualeImponibile float64        `json:"percentuale_imponibile" gorm:"type:decimal(5,2);not null"`
	PercentualeImposta    float64        `json:"percentuale_imposta" gorm:"type:decimal(5,2);not null"`
	PercentualeContributi float64        `json:"percentuale_contributi" gorm:"type:decimal(5,2);not null"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `json:"-" gorm:"index"`
	User                  User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name
func (PartitaIVAConfig) TableName() string {
	return "partita_iva_configs"
}

// PartitaIVAIncome invoiced income with its derived tax amounts. The derived
// fields are computed from the year config at creation time and stored, so a
// later config change does not silently rewrite history.
type PartitaIVAIncome struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	UserID        uint             `json:"user_id" gorm:"index;not null"`
	DataIncasso   time.Time        `json:"data_incasso" gorm:"index;not null"`  // date the money arrived
	DataEmissione time.Time        `json:"data_emissione" gorm:"not null"`      // invoice issue date
	Riferimento   string           `json:"riferimento" gorm:"size:255;not null"` // invoice reference
	Entrata       float64          `json:"entrata" gorm:"type:decimal(12,2);not null"`
	Imponibile    float64          `json:"imponibile" gorm:"type:decimal(12,2);not null"`
	Imposta       float64          `json:"imposta" gorm:"type:decimal(12,2);not null"`
	Contributi    float64          `json:"contributi" gorm:"type:decimal(12,2);not null"`
	TotaleTasse   float64          `json:"totale_tasse" gorm:"type:decimal(12,2);not null"`
	ConfigID      uint             `json:"config_id" gorm:"index;not null"`
	AccountID     *uint            `json:"account_id" gorm:"index"`               // optional linked bank account
	TransactionID *uint            `json:"transaction_id,omitempty" gorm:"index"` // mirrored transaction when an account is linked
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `json:"-" gorm:"index"`
	User          User             `json:"-" gorm:"foreignKey:UserID"`
	Config        PartitaIVAConfig `json:"config,omitempty" gorm:"foreignKey:ConfigID"`
	Account       *Account         `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}

// TableName sets the table name
func (PartitaIVAIncome) TableName() string {
	return "partita_iva_incomes"
}

// ComputeTaxes fills the derived tax fields from the given year config.
func (in *PartitaIVAIncome) ComputeTaxes(cfg *PartitaIVAConfig) {
	in.Imponibile = in.Entrata * cfg.PercentualeImponibile / 100
	in.Imposta = in.Imponibile * cfg.PercentualeImposta / 100
	in.Contributi = in.Imponibile * cfg.PercentualeContributi / 100
	in.TotaleTasse = in.Imposta + in.Contributi
}

// PartitaIVATaxPayment a tax payment; not tied to a year at the storage
// level, year scoping happens on the payment date where needed.
type PartitaIVATaxPayment struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"user_id" gorm:"index;not null"`
	Data          time.Time      `json:"data" gorm:"index;not null"`
	Descrizione   string         `json:"descrizione" gorm:"size:255;not null"`
	Importo       float64        `json:"importo" gorm:"type:decimal(12,2);not null"`
	Tipo          string         `json:"tipo" gorm:"size:50;default:generico"` // generico / acconto / saldo
	AccountID     *uint          `json:"account_id" gorm:"index"`
	TransactionID *uint          `json:"transaction_id,omitempty" gorm:"index"` // mirrored transaction when an account is linked
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
	User          User           `json:"-" gorm:"foreignKey:UserID"`
	Account       *Account       `json:"account,omitempty" gorm:"foreignKey:AccountID"`
}

// TableName sets the table name
func (PartitaIVATaxPayment) TableName() string {
	return "partita_iva_tax_payments"
}
