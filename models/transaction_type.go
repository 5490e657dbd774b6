package models

// TransactionType is the closed set of ledger entry kinds.
type TransactionType string

const (
	TransactionEarn        TransactionType = "earn"
	TransactionRedeem      TransactionType = "redeem"
	TransactionBonus       TransactionType = "bonus"
	TransactionAdjustment  TransactionType = "adjustment"
	TransactionTransferOut TransactionType = "transfer_out"
	TransactionTransferIn  TransactionType = "transfer_in"
)

// IsCredit reports whether an entry of this type with the given points
// delta credits the balance. Adjustments can go either way, so the sign
// of the points decides for them.
func (t TransactionType) IsCredit(points int) bool {
	switch t {
	case TransactionEarn, TransactionBonus, TransactionTransferIn:
		return true
	case TransactionRedeem, TransactionTransferOut:
		return false
	case TransactionAdjustment:
		return points > 0
	}
	return false
}

func (t TransactionType) Label() string {
	switch t {
	case TransactionEarn:
		return "Points Earned"
	case TransactionRedeem:
		return "Points Redeemed"
	case TransactionBonus:
		return "Bonus Points"
	case TransactionAdjustment:
		return "Point Adjustment"
	case TransactionTransferOut:
		return "Transfer Out"
	case TransactionTransferIn:
		return "Transfer In"
	}
	return string(t)
}

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionEarn, TransactionRedeem, TransactionBonus,
		TransactionAdjustment, TransactionTransferOut, TransactionTransferIn:
		return true
	}
	return false
}
