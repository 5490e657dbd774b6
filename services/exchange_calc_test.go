package services

import (
	"testing"

	"loyalty-backend/models"
)

func calcProvider(ratio, fee, rateBase, rateFee float64) *models.Provider {
	return &models.Provider{
		PointsToValueRatio: ratio,
		TransferFeePercent: fee,
		ExchangeRateBase:   rateBase,
		ExchangeFeePercent: rateFee,
	}
}

func TestCalculateValueBasedNoFees(t *testing.T) {
	from := calcProvider(0.1, 0, 1, 0)
	to := calcProvider(1.0, 0, 1, 0)

	calc := CalculateValueBased(from, to, 1000, 0)

	if calc.GrossValue != 100.0 {
		t.Errorf("expected gross_value 100.0, got %v", calc.GrossValue)
	}
	if calc.NetValue != 100.0 {
		t.Errorf("expected net_value 100.0, got %v", calc.NetValue)
	}
	if calc.PointsReceived != 100 {
		t.Errorf("expected points_received 100, got %d", calc.PointsReceived)
	}
}

func TestCalculateValueBasedFeeSplit(t *testing.T) {
	from := calcProvider(0.1, 1.5, 1, 0)
	to := calcProvider(1.0, 3.5, 1, 0)

	calc := CalculateValueBased(from, to, 1000, 5.0)

	if calc.TotalFeePercent != 10.0 {
		t.Errorf("expected total_fee_percent 10.0, got %v", calc.TotalFeePercent)
	}
	if calc.TotalFeeValue != 10.0 {
		t.Errorf("expected total_fee_value 10.0, got %v", calc.TotalFeeValue)
	}
	if calc.NetValue != 90.0 {
		t.Errorf("expected net_value 90.0, got %v", calc.NetValue)
	}
	if calc.PointsReceived != 90 {
		t.Errorf("expected points_received 90, got %d", calc.PointsReceived)
	}

	if calc.SourceFeeValue != 1.5 {
		t.Errorf("expected source_fee_value 1.5, got %v", calc.SourceFeeValue)
	}
	if calc.DestinationFeeValue != 3.5 {
		t.Errorf("expected destination_fee_value 3.5, got %v", calc.DestinationFeeValue)
	}
	if calc.AppFeeValue != 5.0 {
		t.Errorf("expected app_fee_value 5.0, got %v", calc.AppFeeValue)
	}
}

// The total fee value is derived from the summed percentage directly,
// not from adding the three independently rounded component values.
func TestCalculateValueBasedTotalFeeNotSumOfComponents(t *testing.T) {
	from := calcProvider(0.1, 1.114, 1, 0)
	to := calcProvider(1.0, 1.114, 1, 0)

	calc := CalculateValueBased(from, to, 1000, 1.114)

	// gross = 100; each component rounds to 1.11, but the direct total
	// is round2(100 * 3.342 / 100) = 3.34, not 3.33.
	if calc.TotalFeeValue != 3.34 {
		t.Errorf("expected total_fee_value 3.34, got %v", calc.TotalFeeValue)
	}
	sum := round2(calc.SourceFeeValue + calc.DestinationFeeValue + calc.AppFeeValue)
	if sum != 3.33 {
		t.Errorf("expected component sum 3.33, got %v", sum)
	}
}

func TestCalculateValueBasedFloorsToZero(t *testing.T) {
	from := calcProvider(0.0001, 0, 1, 0)
	to := calcProvider(100.0, 0, 1, 0)

	calc := CalculateValueBased(from, to, 10, 0)

	if calc.PointsReceived != 0 {
		t.Errorf("expected points_received 0, got %d", calc.PointsReceived)
	}
}

func TestCalculateValueBasedZeroDestinationRatio(t *testing.T) {
	from := calcProvider(0.1, 0, 1, 0)
	to := calcProvider(0, 0, 1, 0)

	calc := CalculateValueBased(from, to, 1000, 0)

	if calc.PointsReceived != 0 {
		t.Errorf("expected points_received 0 for non-positive ratio, got %d", calc.PointsReceived)
	}
}

// Raising the total fee must never increase the net value or the points
// received, and the net value strictly decreases.
func TestCalculateValueBasedFeeMonotonicity(t *testing.T) {
	to := calcProvider(1.0, 0, 1, 0)

	prevNet := -1.0
	prevReceived := -1
	first := true
	for _, fee := range []float64{0, 1, 2.5, 5, 7.5, 10, 20, 50} {
		from := calcProvider(0.1, fee, 1, 0)
		calc := CalculateValueBased(from, to, 1000, 0)

		if !first {
			if calc.NetValue >= prevNet {
				t.Errorf("fee %v: net_value %v did not decrease from %v", fee, calc.NetValue, prevNet)
			}
			if calc.PointsReceived > prevReceived {
				t.Errorf("fee %v: points_received %d increased from %d", fee, calc.PointsReceived, prevReceived)
			}
		}
		prevNet = calc.NetValue
		prevReceived = calc.PointsReceived
		first = false
	}
}

func TestCalculateRateBased(t *testing.T) {
	tests := []struct {
		name         string
		fromRate     float64
		toRate       float64
		feePercent   float64
		points       int
		wantFee      int
		wantNet      int
		wantReceived int
	}{
		{"equal rates no fee", 1.0, 1.0, 0, 100, 0, 100, 100},
		{"fee floors", 1.0, 1.0, 2.5, 100, 2, 98, 98},
		{"rate conversion floors", 1.0, 1.5, 0, 100, 0, 100, 66},
		{"upconversion", 1.5, 1.0, 0, 100, 0, 100, 150},
		{"fee then conversion", 1.25, 0.8, 2.5, 1000, 25, 975, 1523},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := calcProvider(1, 0, tt.fromRate, tt.feePercent)
			to := calcProvider(1, 0, tt.toRate, 0)

			calc := CalculateRateBased(from, to, tt.points)
			if calc.FeeAmount != tt.wantFee {
				t.Errorf("expected fee %d, got %d", tt.wantFee, calc.FeeAmount)
			}
			if calc.PointsAfterFee != tt.wantNet {
				t.Errorf("expected net %d, got %d", tt.wantNet, calc.PointsAfterFee)
			}
			if calc.PointsReceived != tt.wantReceived {
				t.Errorf("expected received %d, got %d", tt.wantReceived, calc.PointsReceived)
			}
		})
	}
}
