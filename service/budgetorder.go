package service

import (
	"github.com/snptech2/snp-fin-sub002/models"

	"gorm.io/gorm"
)

// Budget order management. The sort_order values of a user's budgets must
// stay a contiguous ascending sequence starting at 1. Every writer of the
// budgets table (budget CRUD and the tax reserve reconciler) goes through
// these helpers instead of re-implementing the shifts.

// ShiftBudgetOrdersUp makes room at position 1 by incrementing the order of
// every budget of the user.
func ShiftBudgetOrdersUp(db *gorm.DB, userID uint) error {
	return db.Model(&models.Budget{}).
		Where("user_id = ?", userID).
		UpdateColumn("sort_order", gorm.Expr("sort_order + 1")).Error
}

// CloseBudgetOrderGap compacts the sequence after the budget at removedOrder
// has been (or is about to be) deleted: every budget ordered after it moves
// down by one.
func CloseBudgetOrderGap(db *gorm.DB, userID uint, removedOrder int) error {
	return db.Model(&models.Budget{}).
		Where("user_id = ? AND sort_order > ?", userID, removedOrder).
		UpdateColumn("sort_order", gorm.Expr("sort_order - 1")).Error
}

// NextBudgetOrder returns the first free position at the end of the user's
// budget list.
func NextBudgetOrder(db *gorm.DB, userID uint) (int, error) {
	var max int
	err := db.Model(&models.Budget{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
