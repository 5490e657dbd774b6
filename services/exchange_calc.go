package services

import (
	"math"

	"loyalty-backend/models"
)

// Two calculation strategies coexist because two exchange paths use
// genuinely different fee models: the direct provider-pair path uses a
// flat per-provider rate and a single source fee, while the vendor
// cross-account path converts through currency value with a three-way
// fee split.

// RateBasedCalculation is the flat-rate exchange quote.
type RateBasedCalculation struct {
	PointsSent     int     `json:"points_sent"`
	FeePercent     float64 `json:"fee_percent"`
	FeeAmount      int     `json:"fee_amount"`
	PointsAfterFee int     `json:"points_after_fee"`
	FromRate       float64 `json:"exchange_rate_from"`
	ToRate         float64 `json:"exchange_rate_to"`
	PointsReceived int     `json:"points_received"`
}

// CalculateRateBased computes a flat-rate exchange: the source fee is
// taken in points, then the remainder converts through the two base
// rates. All divisions floor; conversion never rounds up.
func CalculateRateBased(from, to *models.Provider, points int) RateBasedCalculation {
	feePercent := from.ExchangeFeePercent
	feeAmount := int(math.Floor(float64(points) * feePercent / 100))
	netPoints := points - feeAmount

	converted := int(math.Floor(float64(netPoints) * from.ExchangeRateBase / to.ExchangeRateBase))

	return RateBasedCalculation{
		PointsSent:     points,
		FeePercent:     feePercent,
		FeeAmount:      feeAmount,
		PointsAfterFee: netPoints,
		FromRate:       from.ExchangeRateBase,
		ToRate:         to.ExchangeRateBase,
		PointsReceived: converted,
	}
}

// ValueBasedCalculation is the value-converting exchange quote with a
// source/destination/app fee breakdown.
type ValueBasedCalculation struct {
	PointsSent int `json:"points_sent"`

	SourceRatio      float64 `json:"source_points_to_value_ratio"`
	DestinationRatio float64 `json:"destination_points_to_value_ratio"`

	SourceFeePercent      float64 `json:"source_fee_percent"`
	DestinationFeePercent float64 `json:"destination_fee_percent"`
	AppFeePercent         float64 `json:"app_fee_percent"`

	GrossValue float64 `json:"gross_value"`

	SourceFeeValue      float64 `json:"source_fee_value"`
	DestinationFeeValue float64 `json:"destination_fee_value"`
	AppFeeValue         float64 `json:"app_fee_value"`

	TotalFeePercent float64 `json:"total_fee_percent"`
	TotalFeeValue   float64 `json:"total_fee_value"`

	NetValue       float64 `json:"net_value"`
	PointsReceived int     `json:"points_received"`
}

// CalculateValueBased converts points to currency value, applies the
// combined fee, and converts the net value into destination points.
//
// TotalFeeValue is computed directly from the summed percentage rather
// than by adding the three rounded component values; the per-component
// values exist for breakdown display only. PointsReceived floors, so
// rounding can never manufacture value.
func CalculateValueBased(from, to *models.Provider, points int, appFeePercent float64) ValueBasedCalculation {
	sourceRatio := from.PointsToValueRatio
	destRatio := to.PointsToValueRatio
	sourceFee := from.TransferFeePercent
	destFee := to.TransferFeePercent

	grossValue := round2(float64(points) * sourceRatio)

	totalFeePercent := sourceFee + destFee + appFeePercent
	totalFeeValue := round2(grossValue * totalFeePercent / 100)
	netValue := round2(grossValue - totalFeeValue)

	var received int
	if destRatio > 0 {
		received = int(math.Floor(netValue / destRatio))
	}

	return ValueBasedCalculation{
		PointsSent:            points,
		SourceRatio:           sourceRatio,
		DestinationRatio:      destRatio,
		SourceFeePercent:      sourceFee,
		DestinationFeePercent: destFee,
		AppFeePercent:         appFeePercent,
		GrossValue:            grossValue,
		SourceFeeValue:        round2(grossValue * sourceFee / 100),
		DestinationFeeValue:   round2(grossValue * destFee / 100),
		AppFeeValue:           round2(grossValue * appFeePercent / 100),
		TotalFeePercent:       totalFeePercent,
		TotalFeeValue:         totalFeeValue,
		NetValue:              netValue,
		PointsReceived:        received,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
