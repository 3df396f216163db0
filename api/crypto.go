package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/snptech2/snp-fin-sub002/database"
	"github.com/snptech2/snp-fin-sub002/middleware"
	"github.com/snptech2/snp-fin-sub002/models"
	"github.com/snptech2/snp-fin-sub002/service"

	"github.com/gin-gonic/gin"
)

// CryptoHandler crypto portfolio, trade and price endpoints
type CryptoHandler struct{}

func NewCryptoHandler() *CryptoHandler {
	return &CryptoHandler{}
}

// ===== Portfolios =====

type CreatePortfolioRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"DCA Bitcoin"`
	Description string `json:"description" binding:"omitempty,max=255"`
	AccountID   *uint  `json:"account_id"`
}

type UpdatePortfolioRequest struct {
	Name        string `json:"name" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

// PortfolioSummary a portfolio plus aggregates over its trades.
type PortfolioSummary struct {
	models.CryptoPortfolio
	OpenTrades    int     `json:"open_trades"`
	ClosedTrades  int     `json:"closed_trades"`
	TotalInvested float64 `json:"total_invested"` // cost basis of open trades
	RealizedPnL   float64 `json:"realized_pnl"`
}

// ListPortfolios returns the user's portfolios with trade aggregates.
// @Summary List crypto portfolios
// @Tags crypto
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]PortfolioSummary} "ok"
// @Router /api/v1/crypto/portfolios [get]
func (h *CryptoHandler) ListPortfolios(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var portfolios []models.CryptoPortfolio
	if err := database.DB.Preload("Trades").Preload("Account").
		Where("user_id = ?", userID).
		Order("created_at ASC").Find(&portfolios).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list portfolios"))
		return
	}

	summaries := make([]PortfolioSummary, 0, len(portfolios))
	for _, p := range portfolios {
		s := PortfolioSummary{CryptoPortfolio: p}
		for i := range p.Trades {
			t := &p.Trades[i]
			if t.IsOpen() {
				s.OpenTrades++
				s.TotalInvested += t.CostBasis()
			} else {
				s.ClosedTrades++
				if t.RealizedPnL != nil {
					s.RealizedPnL += *t.RealizedPnL
				}
			}
		}
		summaries = append(summaries, s)
	}
	Success(c, summaries)
}

// CreatePortfolio adds a portfolio, optionally linked to an investment
// account.
// @Summary Create crypto portfolio
// @Tags crypto
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePortfolioRequest true "portfolio data"
// @Success 201 {object} Response{data=models.CryptoPortfolio} "created"
// @Failure 400 {object} Response "invalid request or duplicate"
// @Failure 404 {object} Response "investment account not found"
// @Router /api/v1/crypto/portfolios [post]
func (h *CryptoHandler) CreatePortfolio(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var existing models.CryptoPortfolio
	if err := database.DB.Where("user_id = ? AND name = ?", userID, req.Name).
		First(&existing).Error; err == nil {
		BadRequest(c, "a portfolio with this name already exists")
		return
	}

	if req.AccountID != nil {
		var account models.Account
		if err := database.DB.
			Where("id = ? AND user_id = ? AND type = ?", *req.AccountID, userID, models.AccountTypeInvestment).
			First(&account).Error; err != nil {
			NotFound(c, "investment account not found")
			return
		}
	}

	portfolio := models.CryptoPortfolio{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		AccountID:   req.AccountID,
	}
	if err := database.DB.Create(&portfolio).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create portfolio"))
		return
	}
	Created(c, portfolio)
}

// UpdatePortfolio renames a portfolio or edits its description.
// @Summary Update crypto portfolio
// @Tags crypto
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "portfolio id"
// @Param request body UpdatePortfolioRequest true "portfolio data"
// @Success 200 {object} Response{data=models.CryptoPortfolio} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/crypto/portfolios/{id} [put]
func (h *CryptoHandler) UpdatePortfolio(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var portfolio models.CryptoPortfolio
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&portfolio).Error; err != nil {
		NotFound(c, "portfolio not found")
		return
	}

	var req UpdatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if err := database.DB.Model(&portfolio).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update portfolio"))
		return
	}

	database.DB.First(&portfolio, portfolio.ID)
	Success(c, portfolio)
}

// DeletePortfolio removes an empty portfolio.
// @Summary Delete crypto portfolio
// @Tags crypto
// @Produce json
// @Security BearerAuth
// @Param id path int true "portfolio id"
// @Success 200 {object} Response "ok"
// @Failure 400 {object} Response "portfolio still has trades"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/crypto/portfolios/{id} [delete]
func (h *CryptoHandler) DeletePortfolio(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var portfolio models.CryptoPortfolio
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&portfolio).Error; err != nil {
		NotFound(c, "portfolio not found")
		return
	}

	var trades int64
	database.DB.Model(&models.CryptoTrade{}).Where("portfolio_id = ?", portfolio.ID).Count(&trades)
	if trades > 0 {
		BadRequest(c, "portfolio still has trades")
		return
	}

	if err := database.DB.Delete(&portfolio).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete portfolio"))
		return
	}
	SuccessWithMessage(c, "portfolio deleted", nil)
}

// ===== Trades =====

type CreateTradeRequest struct {
	PortfolioID uint    `json:"portfolio_id" binding:"required"`
	Symbol      string  `json:"symbol" binding:"required,max=20" example:"BTC"`
	Quantity    float64 `json:"quantity" binding:"required,gt=0" example:"0.05"`
	EntryPrice  float64 `json:"entry_price" binding:"required,gt=0" example:"42000"`
	OpenDate    string  `json:"open_date" binding:"required" example:"2024-01-15"`
}

type CloseTradeRequest struct {
	ExitPrice float64 `json:"exit_price" binding:"required,gt=0" example:"65000"`
	CloseDate string  `json:"close_date" binding:"required" example:"2024-06-01"`
}

// ListTrades returns the trades of one portfolio, newest first.
// @Summary List trades
// @Tags crypto
// @Produce json
// @Security BearerAuth
// @Param portfolio_id query int true "portfolio id"
// @Success 200 {object} Response{data=[]models.CryptoTrade} "ok"
// @Failure 404 {object} Response "portfolio not found"
// @Router /api/v1/crypto/trades [get]
func (h *CryptoHandler) ListTrades(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	portfolioID, err := strconv.ParseUint(c.Query("portfolio_id"), 10, 32)
	if err != nil {
		BadRequest(c, "portfolio_id required")
		return
	}
	var portfolio models.CryptoPortfolio
	if err := database.DB.Where("id = ? AND user_id = ?", portfolioID, userID).First(&portfolio).Error; err != nil {
		NotFound(c, "portfolio not found")
		return
	}

	var trades []models.CryptoTrade
	if err := database.DB.Where("portfolio_id = ?", portfolio.ID).
		Order("open_date DESC, id DESC").Find(&trades).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to list trades"))
		return
	}
	Success(c, trades)
}

// CreateTrade opens a position in a portfolio.
// @Summary Open trade
// @Tags crypto
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTradeRequest true "trade data"
// @Success 201 {object} Response{data=models.CryptoTrade} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "portfolio not found"
// @Router /api/v1/crypto/trades [post]
func (h *CryptoHandler) CreateTrade(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req CreateTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	openDate, err := time.ParseInLocation("2006-01-02", req.OpenDate, time.Local)
	if err != nil {
		BadRequest(c, "invalid open_date, expected format: 2006-01-02")
		return
	}

	var portfolio models.CryptoPortfolio
	if err := database.DB.Where("id = ? AND user_id = ?", req.PortfolioID, userID).First(&portfolio).Error; err != nil {
		NotFound(c, "portfolio not found")
		return
	}

	trade := models.CryptoTrade{
		UserID:      userID,
		PortfolioID: portfolio.ID,
		Symbol:      strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Quantity:    req.Quantity,
		EntryPrice:  req.EntryPrice,
		OpenDate:    openDate,
	}
	if err := database.DB.Create(&trade).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create trade"))
		return
	}
	Created(c, trade)
}

// CloseTrade closes a position and records the realized profit or loss.
// @Summary Close trade
// @Tags crypto
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "trade id"
// @Param request body CloseTradeRequest true "exit data"
// @Success 200 {object} Response{data=models.CryptoTrade} "ok"
// @Failure 400 {object} Response "already closed"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/crypto/trades/{id}/close [put]
func (h *CryptoHandler) CloseTrade(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var trade models.CryptoTrade
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&trade).Error; err != nil {
		NotFound(c, "trade not found")
		return
	}
	if !trade.IsOpen() {
		BadRequest(c, "trade is already closed")
		return
	}

	var req CloseTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	closeDate, err := time.ParseInLocation("2006-01-02", req.CloseDate, time.Local)
	if err != nil {
		BadRequest(c, "invalid close_date, expected format: 2006-01-02")
		return
	}
	if closeDate.Before(trade.OpenDate) {
		BadRequest(c, "close date cannot precede open date")
		return
	}

	pnl := (req.ExitPrice - trade.EntryPrice) * trade.Quantity
	trade.ExitPrice = &req.ExitPrice
	trade.CloseDate = &closeDate
	trade.RealizedPnL = &pnl

	if err := database.DB.Save(&trade).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to close trade"))
		return
	}
	Success(c, trade)
}

// DeleteTrade removes a trade.
// @Summary Delete trade
// @Tags crypto
// @Produce json
// @Security BearerAuth
// @Param id path int true "trade id"
// @Success 200 {object} Response "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/crypto/trades/{id} [delete]
func (h *CryptoHandler) DeleteTrade(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid id")
		return
	}

	var trade models.CryptoTrade
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&trade).Error; err != nil {
		NotFound(c, "trade not found")
		return
	}
	if err := database.DB.Delete(&trade).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete trade"))
		return
	}
	SuccessWithMessage(c, "trade deleted", nil)
}

// ===== Prices =====

// Prices returns spot prices for a comma-separated symbol list in the
// user's display currency.
// @Summary Crypto spot prices
// @Tags crypto
// @Produce json
// @Security BearerAuth
// @Param symbols query string true "comma-separated tickers, e.g. BTC,ETH"
// @Param force query bool false "bypass the cache"
// @Success 200 {object} Response{data=service.CryptoPricesResult} "ok"
// @Failure 400 {object} Response "no symbols"
// @Router /api/v1/crypto/prices [get]
func (h *CryptoHandler) Prices(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	symbols := strings.Split(c.Query("symbols"), ",")
	force := c.Query("force") == "true"

	result, err := service.FetchCryptoPrices(database.DB, symbols, userID, force)
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "failed to fetch prices"))
		return
	}
	Success(c, result)
}
