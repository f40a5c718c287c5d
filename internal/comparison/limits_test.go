package comparison

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyops/renewal-engine/internal/domain"
)

func TestParseAmounts(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
		ok   bool
	}{
		{"25/50", []string{"25", "50"}, true},
		{"$300,000", []string{"300000"}, true},
		{"100/300/50", []string{"100", "300", "50"}, true},
		{"500K", []string{"500000"}, true},
		{"1M", []string{"1000000"}, true},
		{"2%", []string{"2"}, true},
		{"Included", nil, false},
		{"", nil, false},
		{"25/", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseAmounts(tt.raw)
			require.Equal(t, tt.ok, ok)
			require.Len(t, got, len(tt.want))
			for i, w := range tt.want {
				assert.True(t, got[i].Equal(decimal.RequireFromString(w)), "component %d: %s", i, got[i])
			}
		})
	}
}

func TestCompareAmounts(t *testing.T) {
	tests := []struct {
		from, to string
		want     Direction
	}{
		{"25/50", "50/100", DirectionIncreased},
		{"50/100", "25/50", DirectionDecreased},
		{"50/100", "100/50", DirectionChanged},
		{"50/100", "50/100", DirectionUnchanged},
		{"$300,000", "300000", DirectionUnchanged},
		{"300K", "$300,000", DirectionUnchanged},
		{"100/300", "100/300/50", DirectionChanged},
		{"500", "1000", DirectionIncreased},
		{"", "500", DirectionChanged},
		{"Included", "Excluded", DirectionChanged},
		{"actual cash value", "ACTUAL CASH VALUE", DirectionUnchanged},
		{"100/300", "100/500", DirectionIncreased},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareAmounts(tt.from, tt.to))
		})
	}
}

func TestDiffCoverages_Order(t *testing.T) {
	baseline := []domain.Coverage{
		{Type: "BI", LimitAmount: "25/50"},
		{Type: "COLL", Deductible: "500"},
		{Type: "UM", LimitAmount: "25/50"},
	}
	renewal := []domain.Coverage{
		{Type: "TOWING", LimitAmount: "100"},
		{Type: " coll ", Deductible: "1000"},
		{Type: "BI", LimitAmount: "25/50"},
		{Type: "RENTAL"},
	}

	changes := DiffCoverages(baseline, renewal)
	assert.Equal(t, []string{
		"COLL deductible increased 500 → 1000",
		"UM coverage removed (was limit 25/50)",
		"TOWING coverage added (limit 100)",
		"RENTAL coverage added",
	}, MaterialChanges(changes))
}

func TestDiffCoverages_LimitAndDeductibleOnSameLine(t *testing.T) {
	changes := DiffCoverages(
		[]domain.Coverage{{Type: "COMP", LimitAmount: "ACV", Deductible: "250"}},
		[]domain.Coverage{{Type: "COMP", LimitAmount: "Stated 20000", Deductible: "100"}},
	)
	assert.Equal(t, []string{
		"COMP limit changed ACV → Stated 20000",
		"COMP deductible decreased 250 → 100",
	}, MaterialChanges(changes))
}

func TestDiffCoverages_RemovedWithoutLimit(t *testing.T) {
	changes := DiffCoverages([]domain.Coverage{{Type: "WBU"}}, nil)
	assert.Equal(t, []string{"WBU coverage removed"}, MaterialChanges(changes))
}

func TestSummarize(t *testing.T) {
	summary := Summarize([]domain.CheckResult{
		{RuleID: "A", Severity: domain.SeverityCritical, Blocking: true},
		{RuleID: "B", Severity: domain.SeverityCritical},
		{RuleID: "C", Severity: domain.SeverityWarning, Reviewed: true},
		{RuleID: "D", Severity: domain.SeverityInfo, Blocking: true},
		{RuleID: "E", Severity: domain.SeverityUnchanged, Reviewed: true},
		{RuleID: "F", Severity: domain.SeverityUnchanged},
	})

	assert.Equal(t, 6, summary.TotalChecks)
	assert.Equal(t, 2, summary.CriticalCount)
	assert.Equal(t, 1, summary.WarningCount)
	assert.Equal(t, 1, summary.InfoCount)
	assert.Equal(t, 2, summary.UnchangedCount)
	assert.True(t, summary.PipelineHalted)
	assert.Equal(t, []string{"A"}, summary.BlockerRuleIDs)
	// 1 of 4 reviewable results reviewed
	assert.Equal(t, 25, summary.ReviewProgress)
	assert.Equal(t, domain.RecommendationEscalate, Recommend(summary))
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalChecks)
	assert.Equal(t, 100, summary.ReviewProgress)
	assert.NotNil(t, summary.BlockerRuleIDs)
	assert.Equal(t, domain.RecommendationAccept, Recommend(summary))
}

func TestSummarize_RoundsProgress(t *testing.T) {
	summary := Summarize([]domain.CheckResult{
		{RuleID: "A", Severity: domain.SeverityInfo, Reviewed: true},
		{RuleID: "B", Severity: domain.SeverityInfo, Reviewed: true},
		{RuleID: "C", Severity: domain.SeverityWarning},
	})
	assert.Equal(t, 67, summary.ReviewProgress)
	assert.Equal(t, domain.RecommendationReview, Recommend(summary))
}

func TestPremiumDelta(t *testing.T) {
	baseline := domain.PolicySnapshot{Premium: decimal.NewNullDecimal(decimal.RequireFromString("999.99"))}
	renewal := domain.PolicySnapshot{Premium: decimal.NewNullDecimal(decimal.RequireFromString("1049.50"))}

	d := PremiumDelta(&baseline, renewal)
	assert.Equal(t, "49.51", d.PremiumChangeAmount.Decimal.StringFixed(2))
	assert.Equal(t, "4.95", d.PremiumChangePercent.Decimal.StringFixed(2))

	baseline.Premium = decimal.NullDecimal{}
	d = PremiumDelta(&baseline, renewal)
	assert.False(t, d.CurrentPremium.Valid)
	assert.False(t, d.PremiumChangeAmount.Valid)
	assert.False(t, d.PremiumChangePercent.Valid)
}
