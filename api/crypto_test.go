package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCryptoRouter(userID uint) *gin.Engine {
	h := NewCryptoHandler()
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	router.GET("/crypto/portfolios", h.ListPortfolios)
	router.POST("/crypto/portfolios", h.CreatePortfolio)
	router.PUT("/crypto/portfolios/:id", h.UpdatePortfolio)
	router.DELETE("/crypto/portfolios/:id", h.DeletePortfolio)
	router.GET("/crypto/trades", h.ListTrades)
	router.POST("/crypto/trades", h.CreateTrade)
	router.PUT("/crypto/trades/:id/close", h.CloseTrade)
	router.DELETE("/crypto/trades/:id", h.DeleteTrade)
	return router
}

func TestCryptoHandler_TradeLifecycle(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newCryptoRouter(user.ID)

	w := doJSON(router, "POST", "/crypto/portfolios", gin.H{"name": "DCA Bitcoin"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var portfolio models.CryptoPortfolio
	decodeData(t, w, &portfolio)

	w = doJSON(router, "POST", "/crypto/trades", gin.H{
		"portfolio_id": portfolio.ID,
		"symbol":       "btc",
		"quantity":     0.5,
		"entry_price":  40000.0,
		"open_date":    "2024-01-15",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var trade models.CryptoTrade
	decodeData(t, w, &trade)
	assert.Equal(t, "BTC", trade.Symbol)
	assert.True(t, trade.IsOpen())

	w = doJSON(router, "PUT", fmt.Sprintf("/crypto/trades/%d/close", trade.ID), gin.H{
		"exit_price": 60000.0,
		"close_date": "2024-06-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &trade)
	assert.False(t, trade.IsOpen())
	require.NotNil(t, trade.RealizedPnL)
	assert.InDelta(t, 10000, *trade.RealizedPnL, 0.001)

	// closing twice is rejected
	w = doJSON(router, "PUT", fmt.Sprintf("/crypto/trades/%d/close", trade.ID), gin.H{
		"exit_price": 70000.0,
		"close_date": "2024-07-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCryptoHandler_CloseBeforeOpenRejected(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newCryptoRouter(user.ID)

	w := doJSON(router, "POST", "/crypto/portfolios", gin.H{"name": "Test"})
	require.Equal(t, http.StatusCreated, w.Code)
	var portfolio models.CryptoPortfolio
	decodeData(t, w, &portfolio)

	w = doJSON(router, "POST", "/crypto/trades", gin.H{
		"portfolio_id": portfolio.ID,
		"symbol":       "ETH",
		"quantity":     1.0,
		"entry_price":  3000.0,
		"open_date":    "2024-05-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var trade models.CryptoTrade
	decodeData(t, w, &trade)

	w = doJSON(router, "PUT", fmt.Sprintf("/crypto/trades/%d/close", trade.ID), gin.H{
		"exit_price": 3500.0,
		"close_date": "2024-04-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCryptoHandler_PortfolioSummaryAggregates(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newCryptoRouter(user.ID)

	w := doJSON(router, "POST", "/crypto/portfolios", gin.H{"name": "Misto"})
	require.Equal(t, http.StatusCreated, w.Code)
	var portfolio models.CryptoPortfolio
	decodeData(t, w, &portfolio)

	w = doJSON(router, "POST", "/crypto/trades", gin.H{
		"portfolio_id": portfolio.ID, "symbol": "BTC",
		"quantity": 0.1, "entry_price": 50000.0, "open_date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/crypto/trades", gin.H{
		"portfolio_id": portfolio.ID, "symbol": "ETH",
		"quantity": 2.0, "entry_price": 3000.0, "open_date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var ethTrade models.CryptoTrade
	decodeData(t, w, &ethTrade)

	w = doJSON(router, "PUT", fmt.Sprintf("/crypto/trades/%d/close", ethTrade.ID), gin.H{
		"exit_price": 3500.0, "close_date": "2024-02-01",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "GET", "/crypto/portfolios", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summaries []PortfolioSummary
	decodeData(t, w, &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].OpenTrades)
	assert.Equal(t, 1, summaries[0].ClosedTrades)
	assert.InDelta(t, 5000, summaries[0].TotalInvested, 0.001)
	assert.InDelta(t, 1000, summaries[0].RealizedPnL, 0.001)
}

func TestCryptoHandler_DeletePortfolioWithTradesRefused(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newCryptoRouter(user.ID)

	w := doJSON(router, "POST", "/crypto/portfolios", gin.H{"name": "Pieno"})
	require.Equal(t, http.StatusCreated, w.Code)
	var portfolio models.CryptoPortfolio
	decodeData(t, w, &portfolio)

	w = doJSON(router, "POST", "/crypto/trades", gin.H{
		"portfolio_id": portfolio.ID, "symbol": "BTC",
		"quantity": 0.1, "entry_price": 50000.0, "open_date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "DELETE", fmt.Sprintf("/crypto/portfolios/%d", portfolio.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
