package api

import (
	"strconv"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
)

// AssetHandler non-current asset endpoints
type AssetHandler struct{}

func NewAssetHandler() *AssetHandler {
	return &AssetHandler{}
}

type CreateAssetRequest struct {
	Name        string  `json:"name" binding:"required,max=100" example:"Auto"`
	Description string  `json:"description" binding:"omitempty,max=255" example:"Fiat Panda 2019"`
	Value       float64 `json:"value" binding:"required,gt=0" example:"8000.00"`
}

type UpdateAssetRequest struct {
	Name        string   `json:"name" binding:"omitempty,max=100"`
	Description *string  `json:"description" binding:"omitempty"`
	Value       *float64 `json:"value" binding:"omitempty,gt=0"`
}

// List returns the user's non-current assets, most valuable first.
// @Summary List non-current assets
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.NonCurrentAsset} "ok"
// @Router /api/v1/non-current-assets [get]
func (h *AssetHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var assets []models.NonCurrentAsset
	if err := database.DB.Where("user_id = ?", userID).
		Order("value DESC").Find(&assets).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list assets"))
		return
	}
	Success(c, assets)
}

// Create records a non-current asset at its estimated value.
// @Summary Create non-current asset
// @Tags assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAssetRequest true "asset data"
// @Success 201 {object} Response{data=models.NonCurrentAsset} "created"
// @Failure 400 {object} Response "invalid request"
// @Router /api/v1/non-current-assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	asset := models.NonCurrentAsset{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Value:       req.Value,
	}
	if err := database.DB.Create(&asset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create asset"))
		return
	}
	Created(c, asset)
}

// Update edits an asset's name, description or estimated value.
// @Summary Update non-current asset
// @Tags assets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "asset id"
// @Param request body UpdateAssetRequest true "asset data"
// @Success 200 {object} Response{data=models.NonCurrentAsset} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/non-current-assets/{id} [put]
func (h *AssetHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var asset models.NonCurrentAsset
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&asset).Error; err != nil {
		NotFound(c, "asset not found")
		return
	}

	var req UpdateAssetRequest
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
	if req.Value != nil {
		updates["value"] = *req.Value
	}

	if err := database.DB.Model(&asset).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update asset"))
		return
	}

	database.DB.First(&asset, asset.ID)
	Success(c, asset)
}

// Delete removes a non-current asset.
// @Summary Delete non-current asset
// @Tags assets
// @Produce json
// @Security BearerAuth
// @Param id path int true "asset id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/non-current-assets/{id} [delete]
func (h *AssetHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var asset models.NonCurrentAsset
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&asset).Error; err != nil {
		NotFound(c, "asset not found")
		return
	}
	if err := database.DB.Delete(&asset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete asset"))
		return
	}
	SuccessWithMessage(c, "asset deleted", nil)
}
