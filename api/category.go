package api

import (
	"strconv"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
)

// CategoryHandler transaction category endpoints
type CategoryHandler struct{}

func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=100" example:"Spesa"`
	Type  string `json:"type" binding:"required,oneof=income expense" example:"expense"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#a855f7"`
}

type UpdateCategoryRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Color string `json:"color" binding:"omitempty,max=20"`
}

// List returns the categories of the current user, optionally by type.
// @Summary List categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param type query string false "filter by type (income/expense)"
// @Success 200 {object} Response{data=[]models.Category} "ok"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var categories []models.Category
	if err := query.Order("type ASC, name ASC").Find(&categories).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list categories"))
		return
	}
	Success(c, categories)
}

// Create adds a category.
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "category data"
// @Success 201 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid request or duplicate"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var existing models.Category
	if err := database.DB.
		Where("user_id = ? AND name = ? AND type = ?", userID, req.Name, req.Type).
		First(&existing).Error; err == nil {
		BadRequest(c, "category already exists")
		return
	}

	category := models.Category{
		UserID: userID,
		Name:   req.Name,
		Type:   req.Type,
		Color:  req.Color,
	}
	if err := database.DB.Create(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create category"))
		return
	}
	Created(c, category)
}

// Update renames or recolors a category.
// @Summary Update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body UpdateCategoryRequest true "category data"
// @Success 200 {object} Response{data=models.Category} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if err := database.DB.Model(&category).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update category"))
		return
	}

	database.DB.First(&category, category.ID)
	Success(c, category)
}

// Delete removes an unused category.
// @Summary Delete category
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "ok"
// @Failure 400 {object} Response "category still in use"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var category models.Category
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		NotFound(c, "category not found")
		return
	}

	var inUse int64
	database.DB.Model(&models.Transaction{}).Where("category_id = ?", category.ID).Count(&inUse)
	if inUse > 0 {
		BadRequest(c, "category still has linked transactions")
		return
	}

	if err := database.DB.Delete(&category).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete category"))
		return
	}
	SuccessWithMessage(c, "category deleted", nil)
}
