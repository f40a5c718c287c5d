package comparison

import (
	"github.com/shopspring/decimal"

	"github.com/agencyops/renewal-engine/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// PremiumDelta derives the financial fields of a comparison.
// The percentage is null when the baseline is absent or its premium is zero.
func PremiumDelta(baseline *domain.PolicySnapshot, renewal domain.PolicySnapshot) domain.PremiumDelta {
	delta := domain.PremiumDelta{RenewalPremium: renewal.Premium}
	if baseline == nil {
		return delta
	}
	delta.CurrentPremium = baseline.Premium

	if !delta.CurrentPremium.Valid || !delta.RenewalPremium.Valid {
		return delta
	}

	current, next := delta.CurrentPremium.Decimal, delta.RenewalPremium.Decimal
	amount := next.Sub(current)
	delta.PremiumChangeAmount = decimal.NewNullDecimal(amount.Round(2))
	if !current.IsZero() {
		delta.PremiumChangePercent = decimal.NewNullDecimal(amount.Div(current).Mul(hundred).Round(2))
	}
	return delta
}
