package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"
	"github.com/snptech2/snp-fin-sub002/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Categories auto-created for P.IVA movements mirrored into the normal
// transaction list. The expense one is excluded from spending averages by
// the front-end, hence the dedicated name.
const (
	pivaIncomeCategoryName  = "Entrate Partita IVA"
	pivaExpenseCategoryName = "Tasse Partita IVA"
)

// PartitaIVAHandler Italian sole-proprietorship tax endpoints
type PartitaIVAHandler struct{}

func NewPartitaIVAHandler() *PartitaIVAHandler {
	return &PartitaIVAHandler{}
}

// ===== Config =====

type UpdatePIVAConfigRequest struct {
	Anno                  int      `json:"anno" binding:"required,gte=2000,lte=2100" example:"2024"`
	PercentualeImponibile *float64 `json:"percentuale_imponibile" binding:"required" example:"78"`
	PercentualeImposta    *float64 `json:"percentuale_imposta" binding:"required" example:"5"`
	PercentualeContributi *float64 `json:"percentuale_contributi" binding:"required" example:"26.23"`
}

// getOrCreateConfig loads the config for a year, creating the default
// "regime forfettario" percentages on first access.
func getOrCreateConfig(db *gorm.DB, userID uint, anno int) (*models.PartitaIVAConfig, error) {
	var cfg models.PartitaIVAConfig
	err := db.Where("user_id = ? AND anno = ?", userID, anno).First(&cfg).Error
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	cfg = models.PartitaIVAConfig{
		UserID:                userID,
		Anno:                  anno,
		PercentualeImponibile: models.DefaultPercentualeImponibile,
		PercentualeImposta:    models.DefaultPercentualeImposta,
		PercentualeContributi: models.DefaultPercentualeContributi,
	}
	if err := db.Create(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfig returns the tax configuration for a year, creating the default
// one on first access.
// @Summary Get year configuration
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Param anno query int true "year"
// @Success 200 {object} Response{data=models.PartitaIVAConfig} "ok"
// @Failure 400 {object} Response "missing year"
// @Router /api/v1/partita-iva/config [get]
func (h *PartitaIVAHandler) GetConfig(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	anno, err := strconv.Atoi(c.Query("anno"))
	if err != nil {
		BadRequest(c, "anno required")
		return
	}

	cfg, err := getOrCreateConfig(database.DB, userID, anno)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load configuration"))
		return
	}
	Success(c, cfg)
}

// UpdateConfig upserts the percentages for a year.
// @Summary Update year configuration
// @Tags partita-iva
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePIVAConfigRequest true "configuration"
// @Success 200 {object} Response{data=models.PartitaIVAConfig} "ok"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/partita-iva/config [put]
func (h *PartitaIVAHandler) UpdateConfig(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdatePIVAConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	for _, p := range []float64{*req.PercentualeImponibile, *req.PercentualeImposta, *req.PercentualeContributi} {
		if p < 0 || p > 100 {
			BadRequest(c, "percentages must be between 0 and 100")
			return
		}
	}

	cfg, err := getOrCreateConfig(database.DB, userID, req.Anno)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load configuration"))
		return
	}

	updates := map[string]interface{}{
		"percentuale_imponibile": *req.PercentualeImponibile,
		"percentuale_imposta":    *req.PercentualeImposta,
		"percentuale_contributi": *req.PercentualeContributi,
	}
	if err := database.DB.Model(cfg).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update configuration"))
		return
	}

	database.DB.First(cfg, cfg.ID)
	Success(c, cfg)
}

// ListConfigs returns every year configuration of the user.
// @Summary List year configurations
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.PartitaIVAConfig} "ok"
// @Router /api/v1/partita-iva/configs [get]
func (h *PartitaIVAHandler) ListConfigs(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var configs []models.PartitaIVAConfig
	if err := database.DB.Where("user_id = ?", userID).
		Order("anno DESC").Find(&configs).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list configurations"))
		return
	}
	Success(c, configs)
}

// DeleteConfig removes a year configuration, refused while incomes or
// payments exist for that year.
// @Summary Delete year configuration
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Param anno query int true "year"
// @Success 200 {object} Response "ok"
// @Failure 400 {object} Response "year still has records"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/partita-iva/config [delete]
func (h *PartitaIVAHandler) DeleteConfig(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	anno, err := strconv.Atoi(c.Query("anno"))
	if err != nil {
		BadRequest(c, "anno required")
		return
	}

	var cfg models.PartitaIVAConfig
	if err := database.DB.Where("user_id = ? AND anno = ?", userID, anno).First(&cfg).Error; err != nil {
		NotFound(c, "configuration not found")
		return
	}

	var incomes int64
	database.DB.Model(&models.PartitaIVAIncome{}).Where("config_id = ?", cfg.ID).Count(&incomes)
	if incomes > 0 {
		BadRequest(c, "cannot delete a year that still has incomes")
		return
	}

	yearStart := time.Date(anno, 1, 1, 0, 0, 0, 0, time.Local)
	yearEnd := yearStart.AddDate(1, 0, 0)
	var payments int64
	database.DB.Model(&models.PartitaIVATaxPayment{}).
		Where("user_id = ? AND data >= ? AND data < ?", userID, yearStart, yearEnd).
		Count(&payments)
	if payments > 0 {
		BadRequest(c, "cannot delete a year that still has tax payments")
		return
	}

	if err := database.DB.Delete(&cfg).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete configuration"))
		return
	}
	SuccessWithMessage(c, "configuration deleted", nil)
}

// ===== Incomes =====

type CreatePIVAIncomeRequest struct {
	DataIncasso   string  `json:"data_incasso" binding:"required" example:"2024-03-10"`
	DataEmissione string  `json:"data_emissione" binding:"required" example:"2024-03-01"`
	Riferimento   string  `json:"riferimento" binding:"required,max=255" example:"FATT-2024-001"`
	Entrata       float64 `json:"entrata" binding:"required,gt=0" example:"2500.00"`
	Anno          int     `json:"anno" binding:"required,gte=2000,lte=2100" example:"2024"`
	AccountID     *uint   `json:"account_id"`
}

type UpdatePIVAIncomeRequest struct {
	DataIncasso   string  `json:"data_incasso"`
	DataEmissione string  `json:"data_emissione"`
	Riferimento   string  `json:"riferimento" binding:"omitempty,max=255"`
	Entrata       float64 `json:"entrata" binding:"omitempty,gt=0"`
}

// ListIncomes returns P.IVA incomes, optionally scoped to a year.
// @Summary List P.IVA incomes
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Param anno query int false "year filter"
// @Param limit query int false "max records" default(50)
// @Success 200 {object} Response{data=[]models.PartitaIVAIncome} "ok"
// @Router /api/v1/partita-iva/incomes [get]
func (h *PartitaIVAHandler) ListIncomes(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 500 {
		limit = l
	}

	query := database.DB.Preload("Config").Preload("Account").
		Where("user_id = ?", userID)
	if anno, err := strconv.Atoi(c.Query("anno")); err == nil {
		query = query.Joins("JOIN partita_iva_configs ON partita_iva_configs.id = partita_iva_incomes.config_id").
			Where("partita_iva_configs.anno = ?", anno)
	}

	var incomes []models.PartitaIVAIncome
	if err := query.Order("data_incasso DESC").Limit(limit).Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list incomes"))
		return
	}
	Success(c, incomes)
}

// CreateIncome records an invoiced income, derives its tax amounts from the
// year configuration, optionally credits a bank account (mirroring the
// income into the normal transaction list), and reconciles the tax reserve
// budget. Everything runs in one database transaction.
// @Summary Create P.IVA income
// @Tags partita-iva
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePIVAIncomeRequest true "income data"
// @Success 201 {object} Response{data=models.PartitaIVAIncome} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "bank account not found"
// @Router /api/v1/partita-iva/incomes [post]
func (h *PartitaIVAHandler) CreateIncome(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreatePIVAIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	dataIncasso, err := time.ParseInLocation("2006-01-02", req.DataIncasso, time.Local)
	if err != nil {
		BadRequest(c, "invalid data_incasso, expected format: 2006-01-02")
		return
	}
	dataEmissione, err := time.ParseInLocation("2006-01-02", req.DataEmissione, time.Local)
	if err != nil {
		BadRequest(c, "invalid data_emissione, expected format: 2006-01-02")
		return
	}

	var account *models.Account
	if req.AccountID != nil {
		var a models.Account
		if err := database.DB.
			Where("id = ? AND user_id = ? AND type = ?", *req.AccountID, userID, models.AccountTypeBank).
			First(&a).Error; err != nil {
			NotFound(c, "bank account not found")
			return
		}
		account = &a
	}

	var income models.PartitaIVAIncome
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := getOrCreateConfig(tx, userID, req.Anno)
		if err != nil {
			return err
		}

		income = models.PartitaIVAIncome{
			UserID:        userID,
			DataIncasso:   dataIncasso,
			DataEmissione: dataEmissione,
			Riferimento:   req.Riferimento,
			Entrata:       req.Entrata,
			ConfigID:      cfg.ID,
			AccountID:     req.AccountID,
		}
		income.ComputeTaxes(cfg)

		if err := tx.Create(&income).Error; err != nil {
			return err
		}

		if account != nil {
			if err := tx.Model(account).
				Update("balance", gorm.Expr("balance + ?", req.Entrata)).Error; err != nil {
				return err
			}
			category, err := findOrCreateCategory(tx, userID, pivaIncomeCategoryName, models.CategoryTypeIncome, "#10B981")
			if err != nil {
				return err
			}
			mirrored := models.Transaction{
				UserID:      userID,
				Description: "P.IVA - " + req.Riferimento,
				Amount:      req.Entrata,
				Date:        dataIncasso,
				Type:        models.TransactionTypeIncome,
				AccountID:   account.ID,
				CategoryID:  category.ID,
			}
			if err := tx.Create(&mirrored).Error; err != nil {
				return err
			}
			income.TransactionID = &mirrored.ID
			if err := tx.Model(&income).UpdateColumn("transaction_id", mirrored.ID).Error; err != nil {
				return err
			}
		}

		_, err = service.ReconcileTaxReserve(tx, userID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create income"))
		return
	}

	database.DB.Preload("Config").Preload("Account").First(&income, income.ID)
	Created(c, income)
}

// UpdateIncome edits an income; tax amounts are re-derived from the year
// configuration and the reserve budget reconciled.
// @Summary Update P.IVA income
// @Tags partita-iva
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Param request body UpdatePIVAIncomeRequest true "income data"
// @Success 200 {object} Response{data=models.PartitaIVAIncome} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/partita-iva/incomes/{id} [put]
func (h *PartitaIVAHandler) UpdateIncome(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var income models.PartitaIVAIncome
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&income).Error; err != nil {
		NotFound(c, "income not found")
		return
	}

	var req UpdatePIVAIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	oldEntrata := income.Entrata
	if req.DataIncasso != "" {
		t, err := time.ParseInLocation("2006-01-02", req.DataIncasso, time.Local)
		if err != nil {
			BadRequest(c, "invalid data_incasso, expected format: 2006-01-02")
			return
		}
		income.DataIncasso = t
	}
	if req.DataEmissione != "" {
		t, err := time.ParseInLocation("2006-01-02", req.DataEmissione, time.Local)
		if err != nil {
			BadRequest(c, "invalid data_emissione, expected format: 2006-01-02")
			return
		}
		income.DataEmissione = t
	}
	if req.Riferimento != "" {
		income.Riferimento = req.Riferimento
	}
	if req.Entrata > 0 {
		income.Entrata = req.Entrata
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var cfg models.PartitaIVAConfig
		if err := tx.First(&cfg, income.ConfigID).Error; err != nil {
			return err
		}
		income.ComputeTaxes(&cfg)

		if err := tx.Save(&income).Error; err != nil {
			return err
		}

		// keep the linked account in sync with the new amount
		if income.AccountID != nil && income.Entrata != oldEntrata {
			if err := tx.Model(&models.Account{}).
				Where("id = ?", *income.AccountID).
				Update("balance", gorm.Expr("balance + ?", income.Entrata-oldEntrata)).Error; err != nil {
				return err
			}
		}

		// the mirrored transaction must keep matching the income
		if income.TransactionID != nil {
			if err := tx.Model(&models.Transaction{}).
				Where("id = ? AND user_id = ?", *income.TransactionID, userID).
				Updates(map[string]interface{}{
					"description": "P.IVA - " + income.Riferimento,
					"amount":      income.Entrata,
					"date":        income.DataIncasso,
				}).Error; err != nil {
				return err
			}
		}

		_, err := service.ReconcileTaxReserve(tx, userID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update income"))
		return
	}

	database.DB.Preload("Config").Preload("Account").First(&income, income.ID)
	Success(c, income)
}

// DeleteIncome removes an income together with its mirrored transaction,
// reverses the optional account credit and reconciles the reserve budget.
// @Summary Delete P.IVA income
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/partita-iva/incomes/{id} [delete]
func (h *PartitaIVAHandler) DeleteIncome(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var income models.PartitaIVAIncome
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&income).Error; err != nil {
		NotFound(c, "income not found")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&income).Error; err != nil {
			return err
		}
		if income.AccountID != nil {
			if err := tx.Model(&models.Account{}).
				Where("id = ?", *income.AccountID).
				Update("balance", gorm.Expr("balance - ?", income.Entrata)).Error; err != nil {
				return err
			}
		}
		// the mirrored transaction goes with the income; deleting it here,
		// not through the transactions endpoint, so the balance is only
		// adjusted once
		if income.TransactionID != nil {
			if err := tx.Where("id = ? AND user_id = ?", *income.TransactionID, userID).
				Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
		}
		_, err := service.ReconcileTaxReserve(tx, userID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete income"))
		return
	}
	SuccessWithMessage(c, "income deleted", nil)
}

// ===== Tax payments =====

type CreatePIVAPaymentRequest struct {
	Data        string  `json:"data" binding:"required" example:"2024-06-30"`
	Descrizione string  `json:"descrizione" binding:"required,max=255" example:"F24 saldo 2023"`
	Importo     float64 `json:"importo" binding:"required,gt=0" example:"1200.00"`
	Tipo        string  `json:"tipo" binding:"omitempty,oneof=generico acconto saldo" example:"saldo"`
	AccountID   *uint   `json:"account_id"`
}

// ListPayments returns tax payments, optionally scoped to a year.
// @Summary List tax payments
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Param anno query int false "year filter"
// @Param limit query int false "max records" default(50)
// @Success 200 {object} Response{data=[]models.PartitaIVATaxPayment} "ok"
// @Router /api/v1/partita-iva/tax-payments [get]
func (h *PartitaIVAHandler) ListPayments(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 500 {
		limit = l
	}

	query := database.DB.Preload("Account").Where("user_id = ?", userID)
	if anno, err := strconv.Atoi(c.Query("anno")); err == nil {
		yearStart := time.Date(anno, 1, 1, 0, 0, 0, 0, time.Local)
		query = query.Where("data >= ? AND data < ?", yearStart, yearStart.AddDate(1, 0, 0))
	}

	var payments []models.PartitaIVATaxPayment
	if err := query.Order("data DESC").Limit(limit).Find(&payments).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list payments"))
		return
	}
	Success(c, payments)
}

// CreatePayment records a tax payment, optionally debits a bank account
// (mirroring it into the transaction list), and reconciles the reserve.
// @Summary Create tax payment
// @Tags partita-iva
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePIVAPaymentRequest true "payment data"
// @Success 201 {object} Response{data=models.PartitaIVATaxPayment} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "bank account not found"
// @Router /api/v1/partita-iva/tax-payments [post]
func (h *PartitaIVAHandler) CreatePayment(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreatePIVAPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	data, err := time.ParseInLocation("2006-01-02", req.Data, time.Local)
	if err != nil {
		BadRequest(c, "invalid data, expected format: 2006-01-02")
		return
	}

	var account *models.Account
	if req.AccountID != nil {
		var a models.Account
		if err := database.DB.
			Where("id = ? AND user_id = ? AND type = ?", *req.AccountID, userID, models.AccountTypeBank).
			First(&a).Error; err != nil {
			NotFound(c, "bank account not found")
			return
		}
		account = &a
	}

	tipo := req.Tipo
	if tipo == "" {
		tipo = "generico"
	}

	payment := models.PartitaIVATaxPayment{
		UserID:      userID,
		Data:        data,
		Descrizione: req.Descrizione,
		Importo:     req.Importo,
		Tipo:        tipo,
		AccountID:   req.AccountID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if account != nil {
			if err := tx.Model(account).
				Update("balance", gorm.Expr("balance - ?", req.Importo)).Error; err != nil {
				return err
			}
			category, err := findOrCreateCategory(tx, userID, pivaExpenseCategoryName, models.CategoryTypeExpense, "#EF4444")
			if err != nil {
				return err
			}
			mirrored := models.Transaction{
				UserID:      userID,
				Description: "Tasse - " + req.Descrizione,
				Amount:      req.Importo,
				Date:        data,
				Type:        models.TransactionTypeExpense,
				AccountID:   account.ID,
				CategoryID:  category.ID,
			}
			if err := tx.Create(&mirrored).Error; err != nil {
				return err
			}
			payment.TransactionID = &mirrored.ID
			if err := tx.Model(&payment).UpdateColumn("transaction_id", mirrored.ID).Error; err != nil {
				return err
			}
		}
		_, err := service.ReconcileTaxReserve(tx, userID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create payment"))
		return
	}

	database.DB.Preload("Account").First(&payment, payment.ID)
	Created(c, payment)
}

// DeletePayment removes a tax payment together with its mirrored
// transaction, reverses the optional account debit and reconciles the
// reserve.
// @Summary Delete tax payment
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Param id path int true "payment id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/partita-iva/tax-payments/{id} [delete]
func (h *PartitaIVAHandler) DeletePayment(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var payment models.PartitaIVATaxPayment
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&payment).Error; err != nil {
		NotFound(c, "payment not found")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&payment).Error; err != nil {
			return err
		}
		if payment.AccountID != nil {
			if err := tx.Model(&models.Account{}).
				Where("id = ?", *payment.AccountID).
				Update("balance", gorm.Expr("balance + ?", payment.Importo)).Error; err != nil {
				return err
			}
		}
		if payment.TransactionID != nil {
			if err := tx.Where("id = ? AND user_id = ?", *payment.TransactionID, userID).
				Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
		}
		_, err := service.ReconcileTaxReserve(tx, userID)
		return err
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete payment"))
		return
	}
	SuccessWithMessage(c, "payment deleted", nil)
}

// ===== Statistics =====

// PIVAStatsResponse year-scoped P.IVA statistics.
type PIVAStatsResponse struct {
	Anno              int     `json:"anno"`
	TotaleEntrate     float64 `json:"totale_entrate"`
	TotaleTasseDovute float64 `json:"totale_tasse_dovute"`
	TotaleTassePagate float64 `json:"totale_tasse_pagate"`
	SaldoTasse        float64 `json:"saldo_tasse"`
	NumeroFatture     int     `json:"numero_fatture"`
	NumeroPagamenti   int     `json:"numero_pagamenti"`
	PercentualeTasse  float64 `json:"percentuale_tasse"`
}

// Stats computes statistics for one year. Unlike the tax reserve, which
// covers lifetime liability, these figures are year-scoped.
// @Summary Year statistics
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Param anno query int false "year, defaults to the current one"
// @Success 200 {object} Response{data=PIVAStatsResponse} "ok"
// @Router /api/v1/partita-iva/stats [get]
func (h *PartitaIVAHandler) Stats(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	anno, err := strconv.Atoi(c.Query("anno"))
	if err != nil {
		anno = time.Now().Year()
	}

	var incomes []models.PartitaIVAIncome
	if err := database.DB.
		Joins("JOIN partita_iva_configs ON partita_iva_configs.id = partita_iva_incomes.config_id").
		Where("partita_iva_incomes.user_id = ? AND partita_iva_configs.anno = ?", userID, anno).
		Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to compute statistics"))
		return
	}

	yearStart := time.Date(anno, 1, 1, 0, 0, 0, 0, time.Local)
	var payments []models.PartitaIVATaxPayment
	if err := database.DB.
		Where("user_id = ? AND data >= ? AND data < ?", userID, yearStart, yearStart.AddDate(1, 0, 0)).
		Find(&payments).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to compute statistics"))
		return
	}

	stats := PIVAStatsResponse{Anno: anno, NumeroFatture: len(incomes), NumeroPagamenti: len(payments)}
	for _, in := range incomes {
		stats.TotaleEntrate += in.Entrata
		stats.TotaleTasseDovute += in.TotaleTasse
	}
	for _, p := range payments {
		stats.TotaleTassePagate += p.Importo
	}
	if saldo := stats.TotaleTasseDovute - stats.TotaleTassePagate; saldo > 0 {
		stats.SaldoTasse = saldo
	}
	if stats.TotaleEntrate > 0 {
		stats.PercentualeTasse = stats.TotaleTasseDovute / stats.TotaleEntrate * 100
	}

	Success(c, stats)
}

// PIVAGlobalStatsResponse all-years totals plus the current reserve.
type PIVAGlobalStatsResponse struct {
	TotaleEntrate     float64 `json:"totale_entrate"`
	TotaleTasseDovute float64 `json:"totale_tasse_dovute"`
	TotaleTassePagate float64 `json:"totale_tasse_pagate"`
	SaldoTasse        float64 `json:"saldo_tasse"`
	NumeroFatture     int     `json:"numero_fatture"`
	NumeroPagamenti   int     `json:"numero_pagamenti"`
}

// GlobalStats aggregates over every year; SaldoTasse here is the same
// lifetime balance the tax reserve budget tracks.
// @Summary Global statistics
// @Tags partita-iva
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=PIVAGlobalStatsResponse} "ok"
// @Router /api/v1/partita-iva/stats/global [get]
func (h *PartitaIVAHandler) GlobalStats(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var incomes []models.PartitaIVAIncome
	if err := database.DB.Where("user_id = ?", userID).Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to compute statistics"))
		return
	}
	var payments []models.PartitaIVATaxPayment
	if err := database.DB.Where("user_id = ?", userID).Find(&payments).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to compute statistics"))
		return
	}

	stats := PIVAGlobalStatsResponse{NumeroFatture: len(incomes), NumeroPagamenti: len(payments)}
	for _, in := range incomes {
		stats.TotaleEntrate += in.Entrata
		stats.TotaleTasseDovute += in.TotaleTasse
	}
	for _, p := range payments {
		stats.TotaleTassePagate += p.Importo
	}
	if saldo := stats.TotaleTasseDovute - stats.TotaleTassePagate; saldo > 0 {
		stats.SaldoTasse = saldo
	}

	Success(c, stats)
}

// findOrCreateCategory returns the user's category with the given name and
// type, creating it when missing.
func findOrCreateCategory(db *gorm.DB, userID uint, name, categoryType, color string) (*models.Category, error) {
	var category models.Category
	err := db.Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = models.Category{UserID: userID, Name: name, Type: categoryType, Color: color}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
