package api

import (
	"strconv"
	"time"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"
	"github.com/snptech2/snp-fin-sub002/service"

	"github.com/gin-gonic/gin"
)

// NetWorthHandler net worth snapshot endpoints
type NetWorthHandler struct{}

func NewNetWorthHandler() *NetWorthHandler {
	return &NetWorthHandler{}
}

// List returns the user's snapshots, newest first.
// @Summary List net worth snapshots
// @Tags networth
// @Produce json
// @Security BearerAuth
// @Param limit query int false "max records" default(100)
// @Success 200 {object} Response{data=[]models.NetWorthSnapshot} "ok"
// @Router /api/v1/networth/snapshots [get]
func (h *NetWorthHandler) List(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	limit := 100
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 && l <= 1000 {
		limit = l
	}

	var snapshots []models.NetWorthSnapshot
	if err := database.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").Limit(limit).Find(&snapshots).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list snapshots"))
		return
	}
	Success(c, snapshots)
}

// Create records a snapshot of the current net worth. All figures are
// computed server-side: bank balances, investment balances, open crypto
// positions valued at current spot prices, outstanding credits and
// non-current assets. A price provider outage does not block the snapshot,
// unpriced positions just count as zero.
// @Summary Create net worth snapshot
// @Tags networth
// @Produce json
// @Security BearerAuth
// @Success 201 {object} Response{data=models.NetWorthSnapshot} "created"
// @Router /api/v1/networth/snapshots [post]
func (h *NetWorthHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var liquidity, investments float64
	database.DB.Model(&models.Account{}).
		Where("user_id = ? AND type = ?", userID, models.AccountTypeBank).
		Select("COALESCE(SUM(balance), 0)").Scan(&liquidity)
	database.DB.Model(&models.Account{}).
		Where("user_id = ? AND type = ?", userID, models.AccountTypeInvestment).
		Select("COALESCE(SUM(balance), 0)").Scan(&investments)

	var openTrades []models.CryptoTrade
	if err := database.DB.Where("user_id = ? AND close_date IS NULL", userID).
		Find(&openTrades).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to load positions"))
		return
	}

	var cryptoValue float64
	if len(openTrades) > 0 {
		symbolSet := make(map[string]bool)
		symbols := make([]string, 0)
		for _, t := range openTrades {
			if !symbolSet[t.Symbol] {
				symbolSet[t.Symbol] = true
				symbols = append(symbols, t.Symbol)
			}
		}
		if result, err := service.FetchCryptoPrices(database.DB, symbols, userID, false); err == nil {
			for _, t := range openTrades {
				cryptoValue += t.Quantity * result.Prices[t.Symbol]
			}
		}
	}

	var credits, nonCurrentAssets float64
	database.DB.Model(&models.Credit{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").Scan(&credits)
	database.DB.Model(&models.NonCurrentAsset{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(value), 0)").Scan(&nonCurrentAssets)

	snapshot := models.NetWorthSnapshot{
		UserID:           userID,
		Date:             time.Now(),
		Liquidity:        liquidity,
		Investments:      investments,
		CryptoValue:      cryptoValue,
		Credits:          credits,
		NonCurrentAssets: nonCurrentAssets,
		Total:            liquidity + investments + cryptoValue + credits + nonCurrentAssets,
	}
	if err := database.DB.Create(&snapshot).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create snapshot"))
		return
	}
	Created(c, snapshot)
}

// Delete removes a snapshot.
// @Summary Delete net worth snapshot
// @Tags networth
// @Produce json
// @Security BearerAuth
// @Param id path int true "snapshot id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/networth/snapshots/{id} [delete]
func (h *NetWorthHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var snapshot models.NetWorthSnapshot
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&snapshot).Error; err != nil {
		NotFound(c, "snapshot not found")
		return
	}
	if err := database.DB.Delete(&snapshot).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete snapshot"))
		return
	}
	SuccessWithMessage(c, "snapshot deleted", nil)
}
