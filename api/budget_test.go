package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBudgetRouter(userID uint) *gin.Engine {
	h := NewBudgetHandler()
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	router.GET("/budgets", h.List)
	router.POST("/budgets", h.Create)
	router.PUT("/budgets/:id", h.Update)
	router.DELETE("/budgets/:id", h.Delete)
	return router
}

func userBudgetOrders(t *testing.T, db *gorm.DB, userID uint) map[string]int {
	t.Helper()
	var budgets []models.Budget
	require.NoError(t, db.Where("user_id = ?", userID).Order("sort_order ASC").Find(&budgets).Error)
	orders := make(map[string]int, len(budgets))
	for _, b := range budgets {
		orders[b.Name] = b.Order
	}
	return orders
}

func TestBudgetHandler_CreateAppendsToSequence(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newBudgetRouter(user.ID)

	w := doJSON(router, "POST", "/budgets", gin.H{
		"name": "Emergenze", "type": "fixed", "target_amount": 5000.0,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = doJSON(router, "POST", "/budgets", gin.H{
		"name": "Vacanze", "type": "fixed", "target_amount": 2000.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, "POST", "/budgets", gin.H{
		"name": "Resto", "type": "unlimited",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	orders := userBudgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{"Emergenze": 1, "Vacanze": 2, "Resto": 3}, orders)
}

func TestBudgetHandler_CreateAtPositionShifts(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newBudgetRouter(user.ID)

	for _, name := range []string{"Primo", "Secondo"} {
		w := doJSON(router, "POST", "/budgets", gin.H{
			"name": name, "type": "fixed", "target_amount": 100.0,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(router, "POST", "/budgets", gin.H{
		"name": "Urgente", "type": "fixed", "target_amount": 100.0, "order": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	orders := userBudgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{"Urgente": 1, "Primo": 2, "Secondo": 3}, orders)
}

func TestBudgetHandler_CreateClampsOrderPastEnd(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newBudgetRouter(user.ID)

	w := doJSON(router, "POST", "/budgets", gin.H{
		"name": "Primo", "type": "fixed", "target_amount": 100.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// a position far past the end must not leave a hole in the sequence
	w = doJSON(router, "POST", "/budgets", gin.H{
		"name": "Lontano", "type": "fixed", "target_amount": 100.0, "order": 99,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	orders := userBudgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{"Primo": 1, "Lontano": 2}, orders)
}

func TestBudgetHandler_FixedBudgetNeedsTarget(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newBudgetRouter(user.ID)

	w := doJSON(router, "POST", "/budgets", gin.H{"name": "Vuoto", "type": "fixed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgetHandler_DeleteCompactsSequence(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newBudgetRouter(user.ID)

	for _, name := range []string{"A", "B", "C"} {
		w := doJSON(router, "POST", "/budgets", gin.H{
			"name": name, "type": "fixed", "target_amount": 100.0,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var middle models.Budget
	require.NoError(t, db.Where("user_id = ? AND name = ?", user.ID, "B").First(&middle).Error)

	w := doJSON(router, "DELETE", fmt.Sprintf("/budgets/%d", middle.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	orders := userBudgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{"A": 1, "C": 2}, orders)
}

func TestBudgetHandler_ListCascadeAllocation(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	createTestAccount(t, db, user.ID, models.AccountTypeBank, 3000)
	router := newBudgetRouter(user.ID)

	w := doJSON(router, "POST", "/budgets", gin.H{
		"name": "Emergenze", "type": "fixed", "target_amount": 2500.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, "POST", "/budgets", gin.H{
		"name": "Vacanze", "type": "fixed", "target_amount": 2000.0,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, "POST", "/budgets", gin.H{
		"name": "Resto", "type": "unlimited",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "GET", "/budgets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp BudgetListResponse
	decodeData(t, w, &resp)
	require.Len(t, resp.Budgets, 3)

	assert.InDelta(t, 3000, resp.TotalLiquidity, 0.001)
	// first fixed budget is filled completely
	assert.InDelta(t, 2500, resp.Budgets[0].AllocatedAmount, 0.001)
	assert.True(t, resp.Budgets[0].IsCompleted)
	// second one only gets what is left
	assert.InDelta(t, 500, resp.Budgets[1].AllocatedAmount, 0.001)
	assert.False(t, resp.Budgets[1].IsCompleted)
	assert.InDelta(t, 1500, resp.Budgets[1].Deficit, 0.001)
	// the unlimited budget absorbs nothing here
	assert.InDelta(t, 0, resp.Budgets[2].AllocatedAmount, 0.001)
	assert.InDelta(t, 0, resp.Unallocated, 0.001)
}

func TestBudgetHandler_DuplicateNameRejected(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newBudgetRouter(user.ID)

	payload := gin.H{"name": "Vacanze", "type": "fixed", "target_amount": 100.0}
	w := doJSON(router, "POST", "/budgets", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, "POST", "/budgets", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
