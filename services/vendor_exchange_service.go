package services

import (
	"fmt"

	"loyalty-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VendorExchangeService exchanges points between accounts linked to the
// same vendor email using the value-based fee model. The two sides may
// belong to different platform users or to the same one; the engine
// never assumes the user ids match.
type VendorExchangeService struct {
	DB            *gorm.DB
	Links         *VendorLinkService
	AppFeePercent float64
}

// VendorExchangeResult is the outcome of a committed cross-account
// exchange.
type VendorExchangeResult struct {
	PointsSent      int                      `json:"points_sent"`
	GrossValue      float64                  `json:"gross_value"`
	TotalFeePercent float64                  `json:"total_fee_percent"`
	TotalFeeValue   float64                  `json:"total_fee_value"`
	NetValue        float64                  `json:"net_value"`
	PointsReceived  int                      `json:"points_received"`
	TransferOut     *models.PointTransaction `json:"transfer_out"`
	TransferIn      *models.PointTransaction `json:"transfer_in"`
}

// VendorExchangePreview is the read-only quote for a cross-account
// exchange, including the resolved accounts and the fee breakdown.
type VendorExchangePreview struct {
	ValueBasedCalculation
	FromUserID        uuid.UUID `json:"from_user_id"`
	ToUserID          uuid.UUID `json:"to_user_id"`
	CurrentBalance    int       `json:"current_balance"`
	SufficientBalance bool      `json:"sufficient_balance"`
}

// resolveLinks finds both sides of a vendor exchange, naming the
// missing side on failure.
func (s *VendorExchangeService) resolveLinks(vendorEmail string, from, to *models.Provider) (*models.VendorUserLink, *models.VendorUserLink, error) {
	fromLink, err := s.Links.FindLink(vendorEmail, from.ID)
	if err != nil {
		return nil, nil, err
	}
	if fromLink == nil {
		return nil, nil, fmt.Errorf("source provider: %w", ErrNoLinkedAccount)
	}

	toLink, err := s.Links.FindLink(vendorEmail, to.ID)
	if err != nil {
		return nil, nil, err
	}
	if toLink == nil {
		return nil, nil, fmt.Errorf("destination provider: %w", ErrNoLinkedAccount)
	}

	return fromLink, toLink, nil
}

// Exchange resolves both linked accounts, locks their balance rows in
// the global key order, and applies the value-based conversion
// atomically with two correlated ledger entries.
func (s *VendorExchangeService) Exchange(vendorEmail string, from, to *models.Provider, points int) (*VendorExchangeResult, error) {
	fromLink, toLink, err := s.resolveLinks(vendorEmail, from, to)
	if err != nil {
		return nil, err
	}
	if err := validateExchange(from, to, points); err != nil {
		return nil, err
	}

	var result *VendorExchangeResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		fromKey := balanceKey{UserID: fromLink.UserID, ProviderID: from.ID}
		toKey := balanceKey{UserID: toLink.UserID, ProviderID: to.ID}

		locked, err := lockBalancesInOrder(tx, []balanceKey{fromKey, toKey})
		if err != nil {
			return err
		}
		fromBalance := locked[fromKey]
		toBalance := locked[toKey]

		if points > fromBalance.Balance {
			return ErrInsufficientBalance
		}

		calc := CalculateValueBased(from, to, points, s.AppFeePercent)
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
			UserID:       fromLink.UserID,
			ProviderID:   from.ID,
			Type:         models.TransactionTransferOut,
			Points:       -points,
			BalanceAfter: newFromBalance,
			Description:  "Transfer to " + to.Name,
			Metadata: models.JSONMap{
				"exchange_id":       exchangeID,
				"vendor_exchange":   true,
				"to_provider_id":    to.ID.String(),
				"to_provider_slug":  to.Slug,
				"to_user_id":        toLink.UserID.String(),
				"points_sent":       points,
				"gross_value":       calc.GrossValue,
				"total_fee_percent": calc.TotalFeePercent,
				"total_fee_value":   calc.TotalFeeValue,
				"net_value":         calc.NetValue,
				"points_received":   calc.PointsReceived,
			},
		}
		if err := tx.Create(transferOut).Error; err != nil {
			return fmt.Errorf("failed to record transfer out: %w", err)
		}

		transferIn := &models.PointTransaction{
			UserID:       toLink.UserID,
			ProviderID:   to.ID,
			Type:         models.TransactionTransferIn,
			Points:       calc.PointsReceived,
			BalanceAfter: newToBalance,
			Description:  "Transfer from " + from.Name,
			Metadata: models.JSONMap{
				"exchange_id":        exchangeID,
				"vendor_exchange":    true,
				"from_provider_id":   from.ID.String(),
				"from_provider_slug": from.Slug,
				"from_user_id":       fromLink.UserID.String(),
				"original_points":    points,
				"gross_value":        calc.GrossValue,
				"total_fee_percent":  calc.TotalFeePercent,
				"total_fee_value":    calc.TotalFeeValue,
				"net_value":          calc.NetValue,
			},
		}
		if err := tx.Create(transferIn).Error; err != nil {
			return fmt.Errorf("failed to record transfer in: %w", err)
		}

		result = &VendorExchangeResult{
			PointsSent:      points,
			GrossValue:      calc.GrossValue,
			TotalFeePercent: calc.TotalFeePercent,
			TotalFeeValue:   calc.TotalFeeValue,
			NetValue:        calc.NetValue,
			PointsReceived:  calc.PointsReceived,
			TransferOut:     transferOut,
			TransferIn:      transferIn,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"vendor_email":    vendorEmail,
		"from_provider":   from.Slug,
		"to_provider":     to.Slug,
		"points_sent":     result.PointsSent,
		"points_received": result.PointsReceived,
	}).Info("vendor exchange completed")

	return result, nil
}

// Preview quotes a cross-account exchange without executing it.
func (s *VendorExchangeService) Preview(vendorEmail string, from, to *models.Provider, points int) (*VendorExchangePreview, error) {
	fromLink, toLink, err := s.resolveLinks(vendorEmail, from, to)
	if err != nil {
		return nil, err
	}
	if err := validateExchange(from, to, points); err != nil {
		return nil, err
	}

	balance, err := readBalanceValue(s.DB, fromLink.UserID, from.ID)
	if err != nil {
		return nil, err
	}

	return &VendorExchangePreview{
		ValueBasedCalculation: CalculateValueBased(from, to, points, s.AppFeePercent),
		FromUserID:            fromLink.UserID,
		ToUserID:              toLink.UserID,
		CurrentBalance:        balance,
		SufficientBalance:     balance >= points,
	}, nil
}
