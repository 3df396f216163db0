package service

import (
	"errors"
	"log"
	"math"

	"github.com/snptech2/snp-fin-sub002/models"

	"gorm.io/gorm"
)

const (
	// TaxReserveName is the display name of the reserve budget the
	// reconciler creates.
	TaxReserveName = "Riserva Tasse"
	// taxReserveColor marks the reserve red in the budget list.
	taxReserveColor = "#EF4444"
)

// taxReserveNames are the exact display names recognized as the reserve
// record. Older installations used the all-caps variant; both literals are
// matched exactly, the lookup is not case-insensitive.
var taxReserveNames = []string{"RISERVA TASSE", TaxReserveName}

// ReconcileTaxReserve keeps at most one "Riserva Tasse" budget per user in
// sync with the outstanding tax balance: total taxes due over every P.IVA
// income, minus total tax payments, floored at zero. Both sums span all
// years, so the reserve represents lifetime outstanding liability.
//
// Callers that mutate incomes or payments invoke this right after their own
// write, passing their *gorm.DB transaction so the whole reconciliation is
// atomic with the triggering change. With the plain database handle each
// statement stands alone and concurrent calls for the same user can race.
//
// Returns the reserve budget after reconciliation, or nil when the user has
// no P.IVA incomes and therefore no reserve.
func ReconcileTaxReserve(db *gorm.DB, userID uint) (*models.Budget, error) {
	var incomes []models.PartitaIVAIncome
	if err := db.Where("user_id = ?", userID).Find(&incomes).Error; err != nil {
		return nil, reconcileFailed(err)
	}
	var payments []models.PartitaIVATaxPayment
	if err := db.Where("user_id = ?", userID).Find(&payments).Error; err != nil {
		return nil, reconcileFailed(err)
	}

	var due, paid float64
	for _, in := range incomes {
		due += in.TotaleTasse
	}
	for _, p := range payments {
		paid += p.Importo
	}
	balance := math.Max(0, due-paid)

	var reserve models.Budget
	err := db.Where("user_id = ? AND name IN ?", userID, taxReserveNames).
		First(&reserve).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reconcileFailed(err)
	}

	// No P.IVA incomes: the reserve has no reason to exist.
	if len(incomes) == 0 {
		if !found {
			return nil, nil
		}
		if err := CloseBudgetOrderGap(db, userID, reserve.Order); err != nil {
			return nil, reconcileFailed(err)
		}
		if err := db.Delete(&reserve).Error; err != nil {
			return nil, reconcileFailed(err)
		}
		return nil, nil
	}

	// Incomes but no reserve yet: insert it at the top of the list.
	if !found {
		if err := ShiftBudgetOrdersUp(db, userID); err != nil {
			return nil, reconcileFailed(err)
		}
		reserve = models.Budget{
			UserID:       userID,
			Name:         TaxReserveName,
			TargetAmount: balance,
			Type:         models.BudgetTypeFixed,
			Order:        1,
			Color:        taxReserveColor,
		}
		if err := db.Create(&reserve).Error; err != nil {
			return nil, reconcileFailed(err)
		}
		return &reserve, nil
	}

	// Reserve exists: refresh the target amount, touch nothing else.
	if err := db.Model(&reserve).Update("target_amount", balance).Error; err != nil {
		return nil, reconcileFailed(err)
	}
	reserve.TargetAmount = balance
	return &reserve, nil
}

func reconcileFailed(err error) error {
	log.Printf("tax reserve reconciliation failed: %v", err)
	return err
}
