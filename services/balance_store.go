package services

import (
	"errors"
	"fmt"
	"sort"

	"loyalty-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateBalance returns the balance row for (userID, providerID),
// creating it at zero on first touch. It never overwrites an existing
// balance.
func GetOrCreateBalance(db *gorm.DB, userID, providerID uuid.UUID) (*models.ProviderBalance, error) {
	var balance models.ProviderBalance
	err := db.Where("user_id = ? AND provider_id = ?", userID, providerID).
		Attrs(models.ProviderBalance{UserID: userID, ProviderID: providerID, Balance: 0}).
		FirstOrCreate(&balance).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create balance: %w", err)
	}
	return &balance, nil
}

// readBalanceValue reads the current balance without creating the row.
// A pair that has never been touched reads as zero.
func readBalanceValue(db *gorm.DB, userID, providerID uuid.UUID) (int, error) {
	var balance models.ProviderBalance
	err := db.Where("user_id = ? AND provider_id = ?", userID, providerID).First(&balance).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read balance: %w", err)
	}
	return balance.Balance, nil
}

// lockBalance acquires a row-level lock on the balance for
// (userID, providerID) within tx, creating the row first if it does not
// exist. All reads and writes of that balance inside the transaction
// must happen through the returned record.
func lockBalance(tx *gorm.DB, userID, providerID uuid.UUID) (*models.ProviderBalance, error) {
	if _, err := GetOrCreateBalance(tx, userID, providerID); err != nil {
		return nil, err
	}

	var balance models.ProviderBalance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND provider_id = ?", userID, providerID).
		First(&balance).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance row: %w", err)
	}
	return &balance, nil
}

// setBalance persists a new balance value. Callers must hold the row
// lock acquired by lockBalance in the same transaction.
func setBalance(tx *gorm.DB, balance *models.ProviderBalance, newValue int) error {
	if err := tx.Model(balance).Update("balance", newValue).Error; err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	balance.Balance = newValue
	return nil
}

// balanceKey identifies one balance row for lock ordering purposes.
type balanceKey struct {
	UserID     uuid.UUID
	ProviderID uuid.UUID
}

// lockBalancesInOrder locks the given balance rows in a deterministic
// global order (provider id first, user id as tie-break) so that two
// concurrent exchanges touching the same pair in opposite directions
// cannot deadlock. The returned map is keyed by the original keys.
func lockBalancesInOrder(tx *gorm.DB, keys []balanceKey) (map[balanceKey]*models.ProviderBalance, error) {
	ordered := make([]balanceKey, len(keys))
	copy(ordered, keys)
	sort.Slice(ordered, func(i, j int) bool {
		pi, pj := ordered[i].ProviderID.String(), ordered[j].ProviderID.String()
		if pi != pj {
			return pi < pj
		}
		return ordered[i].UserID.String() < ordered[j].UserID.String()
	})

	locked := make(map[balanceKey]*models.ProviderBalance, len(ordered))
	for _, key := range ordered {
		if _, ok := locked[key]; ok {
			continue
		}
		balance, err := lockBalance(tx, key.UserID, key.ProviderID)
		if err != nil {
			return nil, err
		}
		locked[key] = balance
	}
	return locked, nil
}
