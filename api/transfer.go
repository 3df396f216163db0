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

// TransferHandler account-to-account transfer endpoints
type TransferHandler struct{}

func NewTransferHandler() *TransferHandler {
	return &TransferHandler{}
}

type CreateTransferRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0" example:"500.00"`
	Date          string  `json:"date" binding:"required" example:"2024-01-15"`
	Description   string  `json:"description" binding:"omitempty,max=255"`
	FromAccountID uint    `json:"from_account_id" binding:"required"`
	ToAccountID   uint    `json:"to_account_id" binding:"required"`
}

// List returns the transfers of the current user, newest first.
// @Summary List transfers
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Transfer} "ok"
// @Router /api/v1/transfers [get]
func (h *TransferHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var transfers []models.Transfer
	if err := database.DB.Preload("FromAccount").Preload("ToAccount").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").Find(&transfers).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list transfers"))
		return
	}
	Success(c, transfers)
}

// Create moves money between two accounts atomically.
// @Summary Create transfer
// @Tags transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransferRequest true "transfer data"
// @Success 201 {object} Response{data=models.Transfer} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "account not found"
// @Router /api/v1/transfers [post]
func (h *TransferHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.FromAccountID == req.ToAccountID {
		BadRequest(c, "source and destination account must differ")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		BadRequest(c, "invalid date, expected format: 2006-01-02")
		return
	}

	var from, to models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", req.FromAccountID, userID).First(&from).Error; err != nil {
		NotFound(c, "source account not found")
		return
	}
	if err := database.DB.Where("id = ? AND user_id = ?", req.ToAccountID, userID).First(&to).Error; err != nil {
		NotFound(c, "destination account not found")
		return
	}

	transfer := models.Transfer{
		UserID:        userID,
		Amount:        req.Amount,
		Date:          date,
		Description:   req.Description,
		FromAccountID: from.ID,
		ToAccountID:   to.ID,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transfer).Error; err != nil {
			return err
		}
		if err := tx.Model(&from).
			Update("balance", gorm.Expr("balance - ?", req.Amount)).Error; err != nil {
			return err
		}
		return tx.Model(&to).
			Update("balance", gorm.Expr("balance + ?", req.Amount)).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create transfer"))
		return
	}

	database.DB.Preload("FromAccount").Preload("ToAccount").First(&transfer, transfer.ID)
	Created(c, transfer)
}

// Delete removes a transfer and reverses the balance movements.
// @Summary Delete transfer
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Param id path int true "transfer id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/transfers/{id} [delete]
func (h *TransferHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var transfer models.Transfer
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&transfer).Error; err != nil {
		NotFound(c, "transfer not found")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&transfer).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Account{}).
			Where("id = ?", transfer.FromAccountID).
			Update("balance", gorm.Expr("balance + ?", transfer.Amount)).Error; err != nil {
			return err
		}
		return tx.Model(&models.Account{}).
			Where("id = ?", transfer.ToAccountID).
			Update("balance", gorm.Expr("balance - ?", transfer.Amount)).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete transfer"))
		return
	}
	SuccessWithMessage(c, "transfer deleted", nil)
}
