package database

import (
	"fmt"
	"log"

	"github.com/snptech2/snp-fin-sub002/config"
	"github.com/snptech2/snp-fin-sub002/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the MySQL connection pool and migrates the schema.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := Migrate(DB); err != nil {
		return err
	}

	log.Println("database initialized")
	return nil
}

// Migrate runs the GORM auto-migration for every model. Separated from Init
// so tests can migrate an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Transfer{},
		&models.Budget{},
		&models.PartitaIVAConfig{},
		&models.PartitaIVAIncome{},
		&models.PartitaIVATaxPayment{},
		&models.CryptoPortfolio{},
		&models.CryptoTrade{},
		&models.Credit{},
		&models.NonCurrentAsset{},
		&models.NetWorthSnapshot{},
	)
}

// GetDB returns the global database handle.
func GetDB() *gorm.DB {
	return DB
}
