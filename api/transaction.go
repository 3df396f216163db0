package api

import (
	"strconv"
	"time"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TransactionHandler categorized income/expense endpoints
type TransactionHandler struct{}

func NewTransactionHandler() *TransactionHandler {
	return &TransactionHandler{}
}

type CreateTransactionRequest struct {
	Description string  `json:"description" binding:"required,max=255" example:"Spesa settimanale"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"84.30"`
	Date        string  `json:"date" binding:"required" example:"2024-01-15"`
	Type        string  `json:"type" binding:"required,oneof=income expense" example:"expense"`
	AccountID   uint    `json:"account_id" binding:"required"`
	CategoryID  uint    `json:"category_id" binding:"required"`
}

type UpdateTransactionRequest struct {
	Description string  `json:"description" binding:"omitempty,max=255"`
	Amount      float64 `json:"amount" binding:"omitempty,gt=0"`
	Date        string  `json:"date"`
	CategoryID  uint    `json:"category_id"`
}

type TransactionListRequest struct {
	Page       int    `form:"page" example:"1"`
	PageSize   int    `form:"page_size" example:"20"`
	Type       string `form:"type" example:"expense"`
	AccountID  uint   `form:"account_id"`
	CategoryID uint   `form:"category_id"`
	StartDate  string `form:"start_date" example:"2024-01-01"`
	EndDate    string `form:"end_date" example:"2024-12-31"`
}

// Create records a transaction and adjusts the account balance atomically.
// @Summary Create transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "transaction data"
// @Success 201 {object} Response{data=models.Transaction} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "account or category not found"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		BadRequest(c, "invalid date, expected format: 2006-01-02")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", req.AccountID, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}
	var category models.Category
	if err := database.DB.
		Where("id = ? AND user_id = ? AND type = ?", req.CategoryID, userID, req.Type).
		First(&category).Error; err != nil {
		NotFound(c, "category not found for this transaction type")
		return
	}

	txn := models.Transaction{
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Type:        req.Type,
		AccountID:   account.ID,
		CategoryID:  category.ID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		return tx.Model(&account).
			Update("balance", gorm.Expr("balance + ?", txn.SignedAmount())).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create transaction"))
		return
	}

	database.DB.Preload("Account").Preload("Category").First(&txn, txn.ID)
	Created(c, txn)
}

// List returns transactions with pagination and filters.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Param type query string false "income/expense"
// @Param account_id query int false "account filter"
// @Param category_id query int false "category filter"
// @Param start_date query string false "start date (2024-01-01)"
// @Param end_date query string false "end date (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Transaction}} "ok"
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	query := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.AccountID != 0 {
		query = query.Where("account_id = ?", req.AccountID)
	}
	if req.CategoryID != 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.StartDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if req.EndDate != "" {
		if t, err := time.ParseInLocation("2006-01-02", req.EndDate, time.Local); err == nil {
			t = t.Add(24*time.Hour - time.Second)
			query = query.Where("date <= ?", t)
		}
	}

	var total int64
	query.Count(&total)

	var list []models.Transaction
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Account").Preload("Category").
		Order("date DESC, id DESC").Offset(offset).Limit(req.PageSize).
		Find(&list).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list transactions"))
		return
	}
	Success(c, PageResponse{Total: total, Page: req.Page, PageSize: req.PageSize, List: list})
}

// Get returns a single transaction.
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response{data=models.Transaction} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var txn models.Transaction
	if err := database.DB.Preload("Account").Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}
	Success(c, txn)
}

// Update edits a transaction, reversing the old balance effect and applying
// the new one in a single database transaction.
// @Summary Update transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Param request body UpdateTransactionRequest true "transaction data"
// @Success 200 {object} Response{data=models.Transaction} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var txn models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	oldSigned := txn.SignedAmount()
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Amount > 0 {
		updates["amount"] = req.Amount
	}
	if req.Date != "" {
		t, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			BadRequest(c, "invalid date, expected format: 2006-01-02")
			return
		}
		updates["date"] = t
	}
	if req.CategoryID != 0 {
		var category models.Category
		if err := database.DB.
			Where("id = ? AND user_id = ? AND type = ?", req.CategoryID, userID, txn.Type).
			First(&category).Error; err != nil {
			NotFound(c, "category not found for this transaction type")
			return
		}
		updates["category_id"] = category.ID
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&txn).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&txn, txn.ID).Error; err != nil {
			return err
		}
		delta := txn.SignedAmount() - oldSigned
		if delta == 0 {
			return nil
		}
		return tx.Model(&models.Account{}).
			Where("id = ?", txn.AccountID).
			Update("balance", gorm.Expr("balance + ?", delta)).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update transaction"))
		return
	}

	database.DB.Preload("Account").Preload("Category").First(&txn, txn.ID)
	Success(c, txn)
}

// Delete removes a transaction and reverses its balance effect.
// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path int true "transaction id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var txn models.Transaction
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&txn).Error; err != nil {
		NotFound(c, "transaction not found")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&txn).Error; err != nil {
			return err
		}
		return tx.Model(&models.Account{}).
			Where("id = ?", txn.AccountID).
			Update("balance", gorm.Expr("balance - ?", txn.SignedAmount())).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete transaction"))
		return
	}
	SuccessWithMessage(c, "transaction deleted", nil)
}

// SummaryResponse income/expense totals over a period
type SummaryResponse struct {
	TotalIncome  float64 `json:"total_income" example:"5000.00"`
	TotalExpense float64 `json:"total_expense" example:"1234.56"`
	Net          float64 `json:"net" example:"3765.44"`
}

// Summary totals income and expense over an optional date range.
// @Summary Income/expense summary
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "start date (2024-01-01)"
// @Param end_date query string false "end date (2024-12-31)"
// @Success 200 {object} Response{data=SummaryResponse} "ok"
// @Router /api/v1/transactions/summary [get]
func (h *TransactionHandler) Summary(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	base := database.DB.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if s := c.Query("start_date"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			base = base.Where("date >= ?", t)
		}
	}
	if e := c.Query("end_date"); e != "" {
		if t, err := time.ParseInLocation("2006-01-02", e, time.Local); err == nil {
			t = t.Add(24*time.Hour - time.Second)
			base = base.Where("date <= ?", t)
		}
	}

	var income, expense float64
	base.Session(&gorm.Session{}).Where("type = ?", models.TransactionTypeIncome).
		Select("COALESCE(SUM(amount), 0)").Scan(&income)
	base.Session(&gorm.Session{}).Where("type = ?", models.TransactionTypeExpense).
		Select("COALESCE(SUM(amount), 0)").Scan(&expense)

	Success(c, SummaryResponse{
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income - expense,
	})
}
