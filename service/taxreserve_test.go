package service

import (
	"testing"
	"time"

	"github.com/snptech2/snp-fin-sub002/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func addIncome(t *testing.T, db *gorm.DB, userID uint, totaleTasse float64) models.PartitaIVAIncome {
	t.Helper()
	cfg := models.PartitaIVAConfig{
		UserID:                userID,
		Anno:                  2024,
		PercentualeImponibile: models.DefaultPercentualeImponibile,
		PercentualeImposta:    models.DefaultPercentualeImposta,
		PercentualeContributi: models.DefaultPercentualeContributi,
	}
	require.NoError(t, db.Where("user_id = ? AND anno = ?", userID, 2024).FirstOrCreate(&cfg).Error)

	in := models.PartitaIVAIncome{
		UserID:        userID,
		DataIncasso:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		DataEmissione: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Riferimento:   "FATT-001",
		Entrata:       totaleTasse * 4, // arbitrary, the reconciler only reads TotaleTasse
		TotaleTasse:   totaleTasse,
		ConfigID:      cfg.ID,
	}
	require.NoError(t, db.Create(&in).Error)
	return in
}

func addPayment(t *testing.T, db *gorm.DB, userID uint, importo float64) {
	t.Helper()
	p := models.PartitaIVATaxPayment{
		UserID:      userID,
		Data:        time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Descrizione: "F24",
		Importo:     importo,
		Tipo:        "generico",
	}
	require.NoError(t, db.Create(&p).Error)
}

func addBudget(t *testing.T, db *gorm.DB, userID uint, name string, order int) models.Budget {
	t.Helper()
	b := models.Budget{
		UserID:       userID,
		Name:         name,
		TargetAmount: 1000,
		Type:         models.BudgetTypeFixed,
		Order:        order,
	}
	require.NoError(t, db.Create(&b).Error)
	return b
}

func budgetOrders(t *testing.T, db *gorm.DB, userID uint) map[string]int {
	t.Helper()
	var budgets []models.Budget
	require.NoError(t, db.Where("user_id = ?", userID).Find(&budgets).Error)
	orders := make(map[string]int, len(budgets))
	for _, b := range budgets {
		orders[b.Name] = b.Order
	}
	return orders
}

func TestReconcileCreatesReserve(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	addIncome(t, db, user.ID, 100)

	reserve, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reserve)

	assert.Equal(t, "Riserva Tasse", reserve.Name)
	assert.Equal(t, 1, reserve.Order)
	assert.Equal(t, 100.0, reserve.TargetAmount)
	assert.Equal(t, models.BudgetTypeFixed, reserve.Type)
	assert.Equal(t, "#EF4444", reserve.Color)

	var count int64
	db.Model(&models.Budget{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcileShiftsExistingBudgets(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	addBudget(t, db, user.ID, "Emergenze", 1)
	addBudget(t, db, user.ID, "Vacanze", 2)
	addBudget(t, db, user.ID, "Auto", 3)
	addIncome(t, db, user.ID, 250)

	reserve, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reserve)
	assert.Equal(t, 1, reserve.Order)

	orders := budgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{
		"Riserva Tasse": 1,
		"Emergenze":     2,
		"Vacanze":       3,
		"Auto":          4,
	}, orders)
}

func TestReconcileIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	addIncome(t, db, user.ID, 300)

	first, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	second, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.TargetAmount, second.TargetAmount)
	assert.Equal(t, first.Order, second.Order)

	var count int64
	db.Model(&models.Budget{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReconcileFloorsBalanceAtZero(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	addIncome(t, db, user.ID, 100)
	addPayment(t, db, user.ID, 250)

	reserve, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reserve)
	assert.Equal(t, 0.0, reserve.TargetAmount)
}

func TestReconcileBalanceFormula(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	addIncome(t, db, user.ID, 300)
	addIncome(t, db, user.ID, 200)
	addPayment(t, db, user.ID, 100)

	reserve, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reserve)
	assert.Equal(t, 400.0, reserve.TargetAmount)
}

func TestReconcileDeletesReserveAndClosesGap(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	// reserve sits in the middle of the list, no incomes back it anymore
	addBudget(t, db, user.ID, "Emergenze", 1)
	addBudget(t, db, user.ID, "RISERVA TASSE", 2)
	addBudget(t, db, user.ID, "Vacanze", 3)

	reserve, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	assert.Nil(t, reserve)

	orders := budgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{
		"Emergenze": 1,
		"Vacanze":   2,
	}, orders)
}

func TestReconcileNoIncomesNoReserveIsNoop(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	addBudget(t, db, user.ID, "Emergenze", 1)

	reserve, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	assert.Nil(t, reserve)

	orders := budgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{"Emergenze": 1}, orders)
}

func TestReconcileRecognizesLegacyName(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	legacy := addBudget(t, db, user.ID, "RISERVA TASSE", 1)
	addIncome(t, db, user.ID, 150)

	reserve, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reserve)

	// updates the existing record instead of creating a duplicate,
	// leaving name and order untouched
	assert.Equal(t, legacy.ID, reserve.ID)
	assert.Equal(t, 150.0, reserve.TargetAmount)

	var stored models.Budget
	require.NoError(t, db.First(&stored, legacy.ID).Error)
	assert.Equal(t, "RISERVA TASSE", stored.Name)
	assert.Equal(t, 1, stored.Order)
	assert.Equal(t, 150.0, stored.TargetAmount)
}

func TestReconcileUpdateLeavesOtherFieldsAlone(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	addBudget(t, db, user.ID, "Emergenze", 1)
	addIncome(t, db, user.ID, 100)

	_, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)

	// more tax due, reconcile again
	addIncome(t, db, user.ID, 50)
	reserve, err := ReconcileTaxReserve(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reserve)

	assert.Equal(t, 150.0, reserve.TargetAmount)
	assert.Equal(t, 1, reserve.Order)

	orders := budgetOrders(t, db, user.ID)
	assert.Equal(t, map[string]int{
		"Riserva Tasse": 1,
		"Emergenze":     2,
	}, orders)
}

func TestReconcileInsideTransactionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	addIncome(t, db, user.ID, 100)

	// the caller's transaction fails after reconciling; nothing persists
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := ReconcileTaxReserve(tx, user.ID); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.Error(t, err)

	var count int64
	db.Model(&models.Budget{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
