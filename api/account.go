package api

import (
	"strconv"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler bank/investment account endpoints
type AccountHandler struct{}

func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

type CreateAccountRequest struct {
	Name      string  `json:"name" binding:"required,max=100" example:"Conto Corrente"`
	Type      string  `json:"type" binding:"required,oneof=bank investment" example:"bank"`
	Balance   float64 `json:"balance" example:"1500.00"`
	IsDefault bool    `json:"is_default"`
}

type UpdateAccountRequest struct {
	Name      string   `json:"name" binding:"omitempty,max=100"`
	Balance   *float64 `json:"balance"`
	IsDefault *bool    `json:"is_default"`
}

// List returns all accounts of the current user.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param type query string false "filter by type (bank/investment)"
// @Success 200 {object} Response{data=[]models.Account} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var accounts []models.Account
	if err := query.Order("is_default DESC, name ASC").Find(&accounts).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list accounts"))
		return
	}
	Success(c, accounts)
}

// Create adds an account.
// @Summary Create account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccountRequest true "account data"
// @Success 201 {object} Response{data=models.Account} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	account := models.Account{
		UserID:    userID,
		Name:      req.Name,
		Type:      req.Type,
		Balance:   req.Balance,
		IsDefault: req.IsDefault,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.Account{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create account"))
		return
	}

	Created(c, account)
}

// Get returns a single account.
// @Summary Get account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 200 {object} Response{data=models.Account} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}
	Success(c, account)
}

// Update changes name, balance or default flag.
// @Summary Update account
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Param request body UpdateAccountRequest true "account data"
// @Success 200 {object} Response{data=models.Account} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [put]
func (h *AccountHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Balance != nil {
		updates["balance"] = *req.Balance
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault != nil && *req.IsDefault {
			if err := tx.Model(&models.Account{}).
				Where("user_id = ? AND id <> ?", userID, account.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&account).Updates(updates).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update account"))
		return
	}

	database.DB.First(&account, account.ID)
	Success(c, account)
}

// Delete removes an empty account. Accounts still referenced by
// transactions, transfers or P.IVA records are protected.
// @Summary Delete account
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param id path int true "account id"
// @Success 200 {object} Response "ok"
// @Failure 400 {object} Response "account still in use"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var account models.Account
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&account).Error; err != nil {
		NotFound(c, "account not found")
		return
	}

	var inUse int64
	database.DB.Model(&models.Transaction{}).Where("account_id = ?", account.ID).Count(&inUse)
	if inUse == 0 {
		database.DB.Model(&models.Transfer{}).
			Where("from_account_id = ? OR to_account_id = ?", account.ID, account.ID).
			Count(&inUse)
	}
	if inUse == 0 {
		database.DB.Model(&models.PartitaIVAIncome{}).Where("account_id = ?", account.ID).Count(&inUse)
	}
	if inUse > 0 {
		BadRequest(c, "account still has linked records")
		return
	}

	if err := database.DB.Delete(&account).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete account"))
		return
	}
	SuccessWithMessage(c, "account deleted", nil)
}
