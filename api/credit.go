package api

import (
	"strconv"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
)

// CreditHandler personal credit endpoints
type CreditHandler struct{}

func NewCreditHandler() *CreditHandler {
	return &CreditHandler{}
}

type CreateCreditRequest struct {
	Name        string  `json:"name" binding:"required,max=100" example:"Prestito a Marco"`
	Description string  `json:"description" binding:"omitempty,max=255" example:"da restituire entro giugno"`
	Amount      float64 `json:"amount" binding:"required,gt=0" example:"500.00"`
}

type UpdateCreditRequest struct {
	Name        string   `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty"`
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
}

// List returns the user's credits, largest first.
// @Summary List credits
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Credit} "ok"
// @Router /api/v1/credits [get]
func (h *CreditHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var credits []models.Credit
	if err := database.DB.Where("user_id = ?", userID).
		Order("amount DESC").Find(&credits).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list credits"))
		return
	}
	Success(c, credits)
}

// Create records money owed to the user.
// @Summary Create credit
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCreditRequest true "credit data"
// @Success 201 {object} Response{data=models.Credit} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/credits [post]
func (h *CreditHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	credit := models.Credit{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
	}
	if err := database.DB.Create(&credit).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create credit"))
		return
	}
	Created(c, credit)
}

// Update edits a credit's name, description or amount.
// @Summary Update credit
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "credit id"
// @Param request body UpdateCreditRequest true "credit data"
// @Success 200 {object} Response{data=models.Credit} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/credits/{id} [put]
func (h *CreditHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var credit models.Credit
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&credit).Error; err != nil {
		NotFound(c, "credit not found")
		return
	}

	var req UpdateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}

	if err := database.DB.Model(&credit).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update credit"))
		return
	}

	database.DB.First(&credit, credit.ID)
	Success(c, credit)
}

// Delete removes a credit.
// @Summary Delete credit
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Param id path int true "credit id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/credits/{id} [delete]
func (h *CreditHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var credit models.Credit
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&credit).Error; err != nil {
		NotFound(c, "credit not found")
		return
	}
	if err := database.DB.Delete(&credit).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete credit"))
		return
	}
	SuccessWithMessage(c, "credit deleted", nil)
}
