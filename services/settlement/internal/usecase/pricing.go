package usecase

import (
	"github.com/shopspring/decimal"
)

var secondsPerMinute = decimal.NewFromInt(60)

// Breakdown is the money split for one settled session. All values are
// rounded half-up to 2 decimal places and never negative.
type Breakdown struct {
	Gross      decimal.Decimal `json:"gross"`
	Commission decimal.Decimal `json:"commission"`
	CreatorNet decimal.Decimal `json:"creator_net"`
}

// ComputeSettlement prices a session: gross = duration/60 * rate, commission
// is the platform's cut, and the creator receives the remainder. The same
// commission rate applies to every modality and call type.
func ComputeSettlement(durationSeconds int, ratePerMinute, commissionRate decimal.Decimal) Breakdown {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	if ratePerMinute.IsNegative() {
		ratePerMinute = decimal.Zero
	}

	minutes := decimal.NewFromInt(int64(durationSeconds)).Div(secondsPerMinute)
	gross := minutes.Mul(ratePerMinute).Round(2)
	if gross.IsNegative() {
		gross = decimal.Zero
	}

	commission := gross.Mul(commissionRate).Round(2)
	if commission.IsNegative() {
		commission = decimal.Zero
	}
	if commission.GreaterThan(gross) {
		commission = gross
	}

	return Breakdown{
		Gross:      gross,
		Commission: commission,
		CreatorNet: gross.Sub(commission),
	}
}
