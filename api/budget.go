package api

import (
	"math"
	"strconv"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"
	"github.com/snptech2/snp-fin-sub002/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler savings budget endpoints
type BudgetHandler struct{}

func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

type CreateBudgetRequest struct {
	Name         string  `json:"name" binding:"required,max=100" example:"Vacanze"`
	TargetAmount float64 `json:"target_amount" binding:"omitempty,gt=0" example:"2000.00"`
	Type         string  `json:"type" binding:"required,oneof=fixed unlimited" example:"fixed"`
	Order        int     `json:"order" binding:"omitempty,gt=0" example:"2"`
	Color        string  `json:"color" binding:"omitempty,max=20" example:"#3B82F6"`
}

type UpdateBudgetRequest struct {
	Name         string   `json:"name" binding:"omitempty,max=100"`
	TargetAmount *float64 `json:"target_amount" binding:"omitempty"`
	Type         string   `json:"type" binding:"omitempty,oneof=fixed unlimited"`
	Color        string   `json:"color" binding:"omitempty,max=20"`
}

// BudgetAllocation a budget plus its share of the current liquidity.
type BudgetAllocation struct {
	models.Budget
	AllocatedAmount float64 `json:"allocated_amount"`
	Progress        float64 `json:"progress"`
	IsCompleted     bool    `json:"is_completed"`
	Deficit         float64 `json:"deficit"`
}

// BudgetListResponse ordered budgets with cascade allocation totals.
type BudgetListResponse struct {
	Budgets        []BudgetAllocation `json:"budgets"`
	TotalLiquidity float64            `json:"total_liquidity"`
	Unallocated    float64            `json:"unallocated"`
}

// List returns the user's budgets by priority, each with the liquidity
// allocated to it. Liquidity cascades down the list: fixed budgets take up
// to their target, an unlimited budget absorbs the rest.
// @Summary List budgets with allocation
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=BudgetListResponse} "ok"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var budgets []models.Budget
	if err := database.DB.Where("user_id = ?", userID).
		Order("sort_order ASC").Find(&budgets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list budgets"))
		return
	}

	var totalLiquidity float64
	database.DB.Model(&models.Account{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(balance), 0)").Scan(&totalLiquidity)

	remaining := totalLiquidity
	allocations := make([]BudgetAllocation, 0, len(budgets))
	for _, b := range budgets {
		var allocated float64
		switch b.Type {
		case models.BudgetTypeFixed:
			allocated = math.Min(b.TargetAmount, math.Max(0, remaining))
		case models.BudgetTypeUnlimited:
			allocated = math.Max(0, remaining)
		}

		alloc := BudgetAllocation{Budget: b, AllocatedAmount: allocated}
		if b.Type == models.BudgetTypeFixed && b.TargetAmount > 0 {
			alloc.Progress = math.Min(100, allocated/b.TargetAmount*100)
			alloc.IsCompleted = allocated >= b.TargetAmount
			alloc.Deficit = math.Max(0, b.TargetAmount-allocated)
		} else {
			alloc.Progress = 100
			alloc.IsCompleted = true
		}
		allocations = append(allocations, alloc)
		remaining -= allocated
	}

	Success(c, BudgetListResponse{
		Budgets:        allocations,
		TotalLiquidity: totalLiquidity,
		Unallocated:    math.Max(0, remaining),
	})
}

// Create adds a budget at the requested priority, or at the end of the list
// when no order is given. Positions past the end are clamped to an append so
// the order sequence stays contiguous.
// @Summary Create budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "budget data"
// @Success 201 {object} Response{data=models.Budget} "created"
// @Failure 400 {object} Response "invalid request or duplicate"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Type == models.BudgetTypeFixed && req.TargetAmount <= 0 {
		BadRequest(c, "fixed budgets need a positive target amount")
		return
	}

	var existing models.Budget
	if err := database.DB.Where("user_id = ? AND name = ?", userID, req.Name).
		First(&existing).Error; err == nil {
		BadRequest(c, "a budget with this name already exists")
		return
	}

	budget := models.Budget{
		UserID:       userID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Type:         req.Type,
		Color:        req.Color,
	}
	if req.Type == models.BudgetTypeUnlimited {
		budget.TargetAmount = 0
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		next, err := service.NextBudgetOrder(tx, userID)
		if err != nil {
			return err
		}
		// a position past the end of the list would leave a hole in the
		// sequence; clamp it to an append
		if req.Order > 0 && req.Order < next {
			if err := tx.Model(&models.Budget{}).
				Where("user_id = ? AND sort_order >= ?", userID, req.Order).
				UpdateColumn("sort_order", gorm.Expr("sort_order + 1")).Error; err != nil {
				return err
			}
			budget.Order = req.Order
		} else {
			budget.Order = next
		}
		return tx.Create(&budget).Error
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create budget"))
		return
	}

	Created(c, budget)
}

// Update edits name, target, type or color. Priority is not editable here;
// recreate the budget to move it.
// @Summary Update budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Param request body UpdateBudgetRequest true "budget data"
// @Success 200 {object} Response{data=models.Budget} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" && req.Name != budget.Name {
		var existing models.Budget
		if err := database.DB.
			Where("user_id = ? AND name = ? AND id <> ?", userID, req.Name, budget.ID).
			First(&existing).Error; err == nil {
			BadRequest(c, "a budget with this name already exists")
			return
		}
		updates["name"] = req.Name
	}
	if req.TargetAmount != nil {
		updates["target_amount"] = *req.TargetAmount
	}
	if req.Type != "" {
		updates["type"] = req.Type
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}

	if err := database.DB.Model(&budget).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update budget"))
		return
	}

	database.DB.First(&budget, budget.ID)
	Success(c, budget)
}

// Delete removes a budget and compacts the priority sequence.
// @Summary Delete budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var budget models.Budget
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		NotFound(c, "budget not found")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&budget).Error; err != nil {
			return err
		}
		return service.CloseBudgetOrderGap(tx, userID, budget.Order)
	})
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete budget"))
		return
	}
	SuccessWithMessage(c, "budget deleted", nil)
}
