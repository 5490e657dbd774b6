package services

import (
	"fmt"

	"loyalty-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExchangeService converts points between two providers for a single
// user using the flat-rate model.
type ExchangeService struct {
	DB *gorm.DB
}

// ExchangeResult is the outcome of a committed flat-rate exchange.
type ExchangeResult struct {
	PointsSent     int                      `json:"points_sent"`
	FeeDeducted    int                      `json:"fee_deducted"`
	PointsReceived int                      `json:"points_received"`
	TransferOut    *models.PointTransaction `json:"transfer_out"`
	TransferIn     *models.PointTransaction `json:"transfer_in"`
}

// ExchangePreview is a read-only flat-rate quote.
type ExchangePreview struct {
	RateBasedCalculation
	CurrentBalance    int  `json:"current_balance"`
	SufficientBalance bool `json:"sufficient_balance"`
}

func validateExchange(from, to *models.Provider, points int) error {
	if points <= 0 {
		return ErrInvalidAmount
	}
	if from.ID == to.ID {
		return ErrSameProvider
	}
	if !from.IsActive {
		return fmt.Errorf("source %w", ErrProviderInactive)
	}
	if !to.IsActive {
		return fmt.Errorf("destination %w", ErrProviderInactive)
	}
	return nil
}

// Exchange moves points from one of the user's provider balances to
// another. Both balance rows are locked in the global key order, the
// mutation and the two linked ledger entries commit atomically, and a
// failed validation leaves nothing behind.
func (s *ExchangeService) Exchange(userID uuid.UUID, from, to *models.Provider, points int) (*ExchangeResult, error) {
	if err := validateExchange(from, to, points); err != nil {
		return nil, err
	}

	var result *ExchangeResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		fromKey := balanceKey{UserID: userID, ProviderID: from.ID}
		toKey := balanceKey{UserID: userID, ProviderID: to.ID}

		locked, err := lockBalancesInOrder(tx, []balanceKey{fromKey, toKey})
		if err != nil {
			return err
		}
		fromBalance := locked[fromKey]
		toBalance := locked[toKey]

		if points > fromBalance.Balance {
			return ErrInsufficientBalance
		}

		calc := CalculateRateBased(from, to, points)
		if calc.PointsReceived <= 0 {
			return ErrZeroResultExchange
		}

		newFromBalance := fromBalance.Balance - points
		if err := setBalance(tx, fromBalance, newFromBalance); err != nil {
			return err
		}
		newToBalance := toBalance.Balance + calc.PointsReceived
		if err := setBalance(tx, toBalance, newToBalance); err != nil {
			return err
		}

		exchangeID := uuid.NewString()

		transferOut := &models.PointTransaction{
			UserID:       userID,
			ProviderID:   from.ID,
			Type:         models.TransactionTransferOut,
			Points:       -points,
			BalanceAfter: newFromBalance,
			Description:  "Transfer to " + to.Name,
			Metadata: models.JSONMap{
				"exchange_id":        exchangeID,
				"to_provider_id":     to.ID.String(),
				"to_provider_slug":   to.Slug,
				"points_sent":        points,
				"fee_deducted":       calc.FeeAmount,
				"fee_percent":        calc.FeePercent,
				"points_after_fee":   calc.PointsAfterFee,
				"exchange_rate_from": calc.FromRate,
				"exchange_rate_to":   calc.ToRate,
				"points_received":    calc.PointsReceived,
			},
		}
		if err := tx.Create(transferOut).Error; err != nil {
			return fmt.Errorf("failed to record transfer out: %w", err)
		}

		transferIn := &models.PointTransaction{
			UserID:       userID,
			ProviderID:   to.ID,
			Type:         models.TransactionTransferIn,
			Points:       calc.PointsReceived,
			BalanceAfter: newToBalance,
			Description:  "Transfer from " + from.Name,
			Metadata: models.JSONMap{
				"exchange_id":        exchangeID,
				"from_provider_id":   from.ID.String(),
				"from_provider_slug": from.Slug,
				"original_points":    points,
				"fee_deducted":       calc.FeeAmount,
				"exchange_rate_from": calc.FromRate,
				"exchange_rate_to":   calc.ToRate,
			},
		}
		if err := tx.Create(transferIn).Error; err != nil {
			return fmt.Errorf("failed to record transfer in: %w", err)
		}

		result = &ExchangeResult{
			PointsSent:     points,
			FeeDeducted:    calc.FeeAmount,
			PointsReceived: calc.PointsReceived,
			TransferOut:    transferOut,
			TransferIn:     transferIn,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":         userID,
		"from_provider":   from.Slug,
		"to_provider":     to.Slug,
		"points_sent":     result.PointsSent,
		"points_received": result.PointsReceived,
	}).Info("points exchanged")

	return result, nil
}

// Preview quotes a flat-rate exchange without locking or mutating
// anything.
func (s *ExchangeService) Preview(userID uuid.UUID, from, to *models.Provider, points int) (*ExchangePreview, error) {
	if err := validateExchange(from, to, points); err != nil {
		return nil, err
	}

	balance, err := readBalanceValue(s.DB, userID, from.ID)
	if err != nil {
		return nil, err
	}

	return &ExchangePreview{
		RateBasedCalculation: CalculateRateBased(from, to, points),
		CurrentBalance:       balance,
		SufficientBalance:    balance >= points,
	}, nil
}
