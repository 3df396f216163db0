package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/snptech2/snp-fin-sub002/models"
	"github.com/snptech2/snp-fin-sub002/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPIVARouter(userID uint) *gin.Engine {
	h := NewPartitaIVAHandler()
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	router.GET("/partita-iva/config", h.GetConfig)
	router.PUT("/partita-iva/config", h.UpdateConfig)
	router.DELETE("/partita-iva/config", h.DeleteConfig)
	router.GET("/partita-iva/configs", h.ListConfigs)
	router.GET("/partita-iva/incomes", h.ListIncomes)
	router.POST("/partita-iva/incomes", h.CreateIncome)
	router.PUT("/partita-iva/incomes/:id", h.UpdateIncome)
	router.DELETE("/partita-iva/incomes/:id", h.DeleteIncome)
	router.GET("/partita-iva/tax-payments", h.ListPayments)
	router.POST("/partita-iva/tax-payments", h.CreatePayment)
	router.DELETE("/partita-iva/tax-payments/:id", h.DeletePayment)
	router.GET("/partita-iva/stats", h.Stats)
	router.GET("/partita-iva/stats/global", h.GlobalStats)
	return router
}

func taxReserve(t *testing.T, db *gorm.DB, userID uint) *models.Budget {
	t.Helper()
	var reserve models.Budget
	err := db.Where("user_id = ? AND name = ?", userID, service.TaxReserveName).First(&reserve).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	require.NoError(t, err)
	return &reserve
}

func TestPIVAHandler_ConfigDefaultsOnFirstAccess(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "GET", "/partita-iva/config?anno=2024", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cfg models.PartitaIVAConfig
	decodeData(t, w, &cfg)
	assert.Equal(t, 2024, cfg.Anno)
	assert.InDelta(t, 78, cfg.PercentualeImponibile, 0.001)
	assert.InDelta(t, 5, cfg.PercentualeImposta, 0.001)
	assert.InDelta(t, 26.23, cfg.PercentualeContributi, 0.001)
}

func TestPIVAHandler_CreateIncomeComputesTaxesAndReserve(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "POST", "/partita-iva/incomes", gin.H{
		"data_incasso":   "2024-03-10",
		"data_emissione": "2024-03-01",
		"riferimento":    "FATT-2024-001",
		"entrata":        1000.0,
		"anno":           2024,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var income models.PartitaIVAIncome
	decodeData(t, w, &income)
	assert.InDelta(t, 780, income.Imponibile, 0.001)
	assert.InDelta(t, 39, income.Imposta, 0.001)
	assert.InDelta(t, 204.594, income.Contributi, 0.001)
	assert.InDelta(t, 243.594, income.TotaleTasse, 0.001)

	reserve := taxReserve(t, db, user.ID)
	require.NotNil(t, reserve)
	assert.Equal(t, 1, reserve.Order)
	assert.Equal(t, models.BudgetTypeFixed, reserve.Type)
	assert.InDelta(t, 243.594, reserve.TargetAmount, 0.001)
}

func TestPIVAHandler_IncomeWithAccountMirrorsTransaction(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	account := createTestAccount(t, db, user.ID, models.AccountTypeBank, 500)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "POST", "/partita-iva/incomes", gin.H{
		"data_incasso":   "2024-03-10",
		"data_emissione": "2024-03-01",
		"riferimento":    "FATT-2024-002",
		"entrata":        2000.0,
		"anno":           2024,
		"account_id":     account.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var updated models.Account
	require.NoError(t, db.First(&updated, account.ID).Error)
	assert.InDelta(t, 2500, updated.Balance, 0.001)

	var mirrored models.Transaction
	require.NoError(t, db.Where("user_id = ? AND account_id = ?", user.ID, account.ID).First(&mirrored).Error)
	assert.Equal(t, models.TransactionTypeIncome, mirrored.Type)
	assert.InDelta(t, 2000, mirrored.Amount, 0.001)

	var category models.Category
	require.NoError(t, db.First(&category, mirrored.CategoryID).Error)
	assert.Equal(t, pivaIncomeCategoryName, category.Name)
}

func TestPIVAHandler_UpdateIncomeSyncsMirroredTransaction(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	account := createTestAccount(t, db, user.ID, models.AccountTypeBank, 500)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "POST", "/partita-iva/incomes", gin.H{
		"data_incasso":   "2024-03-10",
		"data_emissione": "2024-03-01",
		"riferimento":    "FATT-2024-010",
		"entrata":        1000.0,
		"anno":           2024,
		"account_id":     account.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var income models.PartitaIVAIncome
	decodeData(t, w, &income)
	require.NotNil(t, income.TransactionID)

	w = doJSON(router, "PUT", fmt.Sprintf("/partita-iva/incomes/%d", income.ID), gin.H{
		"entrata":     1500.0,
		"riferimento": "FATT-2024-010-BIS",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var mirrored models.Transaction
	require.NoError(t, db.First(&mirrored, *income.TransactionID).Error)
	assert.InDelta(t, 1500, mirrored.Amount, 0.001)
	assert.Equal(t, "P.IVA - FATT-2024-010-BIS", mirrored.Description)

	var updated models.Account
	require.NoError(t, db.First(&updated, account.ID).Error)
	assert.InDelta(t, 2000, updated.Balance, 0.001)
}

func TestPIVAHandler_DeleteIncomeRemovesMirroredTransaction(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	account := createTestAccount(t, db, user.ID, models.AccountTypeBank, 500)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "POST", "/partita-iva/incomes", gin.H{
		"data_incasso":   "2024-03-10",
		"data_emissione": "2024-03-01",
		"riferimento":    "FATT-2024-011",
		"entrata":        1000.0,
		"anno":           2024,
		"account_id":     account.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var income models.PartitaIVAIncome
	decodeData(t, w, &income)
	require.NotNil(t, income.TransactionID)

	w = doJSON(router, "DELETE", fmt.Sprintf("/partita-iva/incomes/%d", income.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the balance goes back exactly once and no orphan is left behind that
	// could be deleted again through the transactions endpoint
	var updated models.Account
	require.NoError(t, db.First(&updated, account.ID).Error)
	assert.InDelta(t, 500, updated.Balance, 0.001)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestPIVAHandler_DeletePaymentRemovesMirroredTransaction(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	account := createTestAccount(t, db, user.ID, models.AccountTypeBank, 500)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "POST", "/partita-iva/tax-payments", gin.H{
		"data":        "2024-06-30",
		"descrizione": "F24 saldo",
		"importo":     200.0,
		"account_id":  account.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var payment models.PartitaIVATaxPayment
	decodeData(t, w, &payment)
	require.NotNil(t, payment.TransactionID)

	w = doJSON(router, "DELETE", fmt.Sprintf("/partita-iva/tax-payments/%d", payment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Account
	require.NoError(t, db.First(&updated, account.ID).Error)
	assert.InDelta(t, 500, updated.Balance, 0.001)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestPIVAHandler_ReserveShiftsExistingBudgets(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	pivaRouter := newPIVARouter(user.ID)
	budgetRouter := newBudgetRouter(user.ID)

	w := doJSON(budgetRouter, "POST", "/budgets", gin.H{
		"name": "Vacanze", "type": "fixed", "target_amount": 2000.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(pivaRouter, "POST", "/partita-iva/incomes", gin.H{
		"data_incasso":   "2024-03-10",
		"data_emissione": "2024-03-01",
		"riferimento":    "FATT-2024-003",
		"entrata":        1000.0,
		"anno":           2024,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	orders := userBudgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{service.TaxReserveName: 1, "Vacanze": 2}, orders)
}

func TestPIVAHandler_PaymentShrinksReserve(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "POST", "/partita-iva/incomes", gin.H{
		"data_incasso":   "2024-03-10",
		"data_emissione": "2024-03-01",
		"riferimento":    "FATT-2024-004",
		"entrata":        1000.0,
		"anno":           2024,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/partita-iva/tax-payments", gin.H{
		"data":        "2024-06-30",
		"descrizione": "F24 acconto",
		"importo":     100.0,
		"tipo":        "acconto",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	reserve := taxReserve(t, db, user.ID)
	require.NotNil(t, reserve)
	assert.InDelta(t, 143.594, reserve.TargetAmount, 0.001)
}

func TestPIVAHandler_DeleteIncomeRemovesEmptyReserve(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "POST", "/partita-iva/incomes", gin.H{
		"data_incasso":   "2024-03-10",
		"data_emissione": "2024-03-01",
		"riferimento":    "FATT-2024-005",
		"entrata":        1000.0,
		"anno":           2024,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var income models.PartitaIVAIncome
	decodeData(t, w, &income)
	require.NotNil(t, taxReserve(t, db, user.ID))

	w = doJSON(router, "DELETE", fmt.Sprintf("/partita-iva/incomes/%d", income.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Nil(t, taxReserve(t, db, user.ID))
}

func TestPIVAHandler_StatsAreYearScoped(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newPIVARouter(user.ID)

	for _, in := range []struct {
		anno    int
		data    string
		entrata float64
	}{
		{2023, "2023-05-10", 1000},
		{2024, "2024-03-10", 2000},
	} {
		w := doJSON(router, "POST", "/partita-iva/incomes", gin.H{
			"data_incasso":   in.data,
			"data_emissione": in.data,
			"riferimento":    fmt.Sprintf("FATT-%d", in.anno),
			"entrata":        in.entrata,
			"anno":           in.anno,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := doJSON(router, "POST", "/partita-iva/tax-payments", gin.H{
		"data":        "2024-06-30",
		"descrizione": "F24",
		"importo":     100.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "GET", "/partita-iva/stats?anno=2024", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats PIVAStatsResponse
	decodeData(t, w, &stats)
	assert.Equal(t, 2024, stats.Anno)
	assert.InDelta(t, 2000, stats.TotaleEntrate, 0.001)
	assert.InDelta(t, 487.188, stats.TotaleTasseDovute, 0.001)
	assert.InDelta(t, 100, stats.TotaleTassePagate, 0.001)
	assert.InDelta(t, 387.188, stats.SaldoTasse, 0.001)
	assert.Equal(t, 1, stats.NumeroFatture)
	assert.Equal(t, 1, stats.NumeroPagamenti)

	// global stats cover both years
	w = doJSON(router, "GET", "/partita-iva/stats/global", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var global PIVAGlobalStatsResponse
	decodeData(t, w, &global)
	assert.InDelta(t, 3000, global.TotaleEntrate, 0.001)
	assert.Equal(t, 2, global.NumeroFatture)
}

func TestPIVAHandler_DeleteConfigRefusedWithIncomes(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newPIVARouter(user.ID)

	w := doJSON(router, "POST", "/partita-iva/incomes", gin.H{
		"data_incasso":   "2024-03-10",
		"data_emissione": "2024-03-01",
		"riferimento":    "FATT-2024-006",
		"entrata":        1000.0,
		"anno":           2024,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "DELETE", "/partita-iva/config?anno=2024", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
