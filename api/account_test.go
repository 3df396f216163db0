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

func newAccountRouter(userID uint) *gin.Engine {
	h := NewAccountHandler()
	router := gin.New()
	router.Use(setUserIDMiddleware(userID))
	router.GET("/accounts", h.List)
	router.POST("/accounts", h.Create)
	router.GET("/accounts/:id", h.Get)
	router.PUT("/accounts/:id", h.Update)
	router.DELETE("/accounts/:id", h.Delete)
	return router
}

func TestAccountHandler_DefaultFlagIsExclusive(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newAccountRouter(user.ID)

	w := doJSON(router, "POST", "/accounts", gin.H{
		"name": "Conto principale", "type": "bank", "balance": 1000.0, "is_default": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(router, "POST", "/accounts", gin.H{
		"name": "Conto secondario", "type": "bank", "is_default": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var defaults int64
	db.Model(&models.Account{}).Where("user_id = ? AND is_default = ?", user.ID, true).Count(&defaults)
	assert.Equal(t, int64(1), defaults)

	var account models.Account
	require.NoError(t, db.Where("user_id = ? AND is_default = ?", user.ID, true).First(&account).Error)
	assert.Equal(t, "Conto secondario", account.Name)
}

func TestAccountHandler_InvalidTypeRejected(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	router := newAccountRouter(user.ID)

	w := doJSON(router, "POST", "/accounts", gin.H{"name": "Strano", "type": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_DeleteRefusedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	account := createTestAccount(t, db, user.ID, models.AccountTypeBank, 100)
	category := createTestCategory(t, db, user.ID, "Spesa", models.CategoryTypeExpense)

	txn := models.Transaction{
		UserID: user.ID, Description: "x", Amount: 10,
		Type: models.TransactionTypeExpense, AccountID: account.ID, CategoryID: category.ID,
	}
	require.NoError(t, db.Create(&txn).Error)

	router := newAccountRouter(user.ID)
	w := doJSON(router, "DELETE", fmt.Sprintf("/accounts/%d", account.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_GetOtherUsersAccount(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)
	account := createTestAccount(t, db, user.ID, models.AccountTypeBank, 100)

	other := models.User{Email: "other@example.com", Name: "Other", Password: "x", Currency: models.CurrencyEUR}
	require.NoError(t, db.Create(&other).Error)

	router := newAccountRouter(other.ID)
	w := doJSON(router, "GET", fmt.Sprintf("/accounts/%d", account.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
