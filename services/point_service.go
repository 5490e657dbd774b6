package services

import (
	"fmt"
	"time"

	"loyalty-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PointService is the ledger engine for single-balance operations.
// Every operation runs as one atomic unit: the balance row is locked,
// validated, mutated, and a transaction record appended; any failure
// rolls the whole unit back.
type PointService struct {
	DB *gorm.DB
}

// Award credits points to a user's balance for a provider and appends
// the matching ledger entry.
func (s *PointService) Award(userID, providerID uuid.UUID, points int, description string, txType models.TransactionType, metadata models.JSONMap, expiresAt *time.Time) (*models.PointTransaction, error) {
	if points <= 0 {
		return nil, ErrInvalidAmount
	}
	if txType == "" {
		txType = models.TransactionEarn
	}

	var record *models.PointTransaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		balance, err := lockBalance(tx, userID, providerID)
		if err != nil {
			return err
		}

		newBalance := balance.Balance + points
		if err := setBalance(tx, balance, newBalance); err != nil {
			return err
		}

		record = &models.PointTransaction{
			UserID:       userID,
			ProviderID:   providerID,
			Type:         txType,
			Points:       points,
			BalanceAfter: newBalance,
			Description:  description,
			Metadata:     metadata,
			ExpiresAt:    expiresAt,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"provider_id": providerID,
		"type":        txType,
		"points":      points,
	}).Info("points awarded")

	return record, nil
}

// Deduct debits points from a user's balance for a provider. The
// balance is checked under lock; an insufficient balance leaves both
// the balance and the ledger untouched.
func (s *PointService) Deduct(userID, providerID uuid.UUID, points int, description string, txType models.TransactionType, metadata models.JSONMap) (*models.PointTransaction, error) {
	if points <= 0 {
		return nil, ErrInvalidAmount
	}
	if txType == "" {
		txType = models.TransactionRedeem
	}

	var record *models.PointTransaction
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		balance, err := lockBalance(tx, userID, providerID)
		if err != nil {
			return err
		}

		if points > balance.Balance {
			return ErrInsufficientBalance
		}

		newBalance := balance.Balance - points
		if err := setBalance(tx, balance, newBalance); err != nil {
			return err
		}

		record = &models.PointTransaction{
			UserID:       userID,
			ProviderID:   providerID,
			Type:         txType,
			Points:       -points,
			BalanceAfter: newBalance,
			Description:  description,
			Metadata:     metadata,
		}
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"provider_id": providerID,
		"type":        txType,
		"points":      -points,
	}).Info("points deducted")

	return record, nil
}

// AwardBonus credits bonus points.
func (s *PointService) AwardBonus(userID, providerID uuid.UUID, points int, description string, metadata models.JSONMap) (*models.PointTransaction, error) {
	return s.Award(userID, providerID, points, description, models.TransactionBonus, metadata, nil)
}

// Adjust applies a signed correction. Positive adjustments delegate to
// Award, negative ones to Deduct with the absolute value; the type is
// forced to adjustment either way.
func (s *PointService) Adjust(userID, providerID uuid.UUID, points int, description string, metadata models.JSONMap) (*models.PointTransaction, error) {
	if points == 0 {
		return nil, ErrInvalidAdjustment
	}
	if points > 0 {
		return s.Award(userID, providerID, points, description, models.TransactionAdjustment, metadata, nil)
	}
	return s.Deduct(userID, providerID, -points, description, models.TransactionAdjustment, metadata)
}

// GetBalance returns the current cached balance, creating the row
// lazily at zero on first touch.
func (s *PointService) GetBalance(userID, providerID uuid.UUID) (int, error) {
	balance, err := GetOrCreateBalance(s.DB, userID, providerID)
	if err != nil {
		return 0, err
	}
	return balance.Balance, nil
}
