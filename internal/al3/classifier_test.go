package al3_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyops/renewal-engine/internal/al3"
	"github.com/agencyops/renewal-engine/internal/domain"
)

func renewalSnapshot() *domain.PolicySnapshot {
	effective := domain.MustParseDate("2025-03-01")
	return &domain.PolicySnapshot{
		PolicyNumber:  "PA-100",
		CarrierName:   "Acme Mutual",
		EffectiveDate: &effective,
		Premium:       decimal.NewNullDecimal(decimal.RequireFromString("1380")),
		Coverages: []domain.Coverage{
			{Type: "bipd", LimitAmount: "50/100"},
			{Type: "COLL", Deductible: "500"},
		},
	}
}

func TestClassify(t *testing.T) {
	noDate := renewalSnapshot()
	noDate.EffectiveDate = nil

	badState := renewalSnapshot()
	badState.InsuredAddress = &domain.Address{Street: "1 Main St", State: "Texas"}

	transactions := []al3.Transaction{
		{Sequence: 1, Type: "NBS", PolicyNumber: "NB1"},
		{Sequence: 2, Type: "rwl", LineOfBusinessCode: "AUTOP", Snapshot: renewalSnapshot()},
		{Sequence: 3, Type: "END", PolicyNumber: "PA-100"},
		{Sequence: 4, Type: "RWQ"},
		{Sequence: 5, Type: "RWL", Snapshot: noDate},
		{Sequence: 6, Type: "RWL", Snapshot: badState},
		{Sequence: 7, Type: "RWQ", Snapshot: noDate, EffectiveDate: ptrDate("2025-04-01")},
	}

	c := al3.Classify(transactions)

	require.Len(t, c.Archive, 2)
	assert.Equal(t, 1, c.Archive[0].Sequence)
	assert.Equal(t, 3, c.Archive[1].Sequence)

	require.Len(t, c.Renewals, 2)
	first := c.Renewals[0]
	assert.Equal(t, 2, first.Transaction.Sequence)
	assert.Equal(t, domain.LineOfBusinessPersonalAuto, first.Snapshot.LineOfBusiness)
	assert.Equal(t, "BI", first.Snapshot.Coverages[0].Type)
	assert.Equal(t, "2025-03-01", first.EffectiveDate.String())

	// Header effective date fills a snapshot without one
	assert.Equal(t, 7, c.Renewals[1].Transaction.Sequence)
	assert.Equal(t, "2025-04-01", c.Renewals[1].EffectiveDate.String())

	require.Len(t, c.Quarantined, 3)
	assert.Equal(t, 4, c.Quarantined[0].Transaction.Sequence)
	assert.Contains(t, c.Quarantined[0].Reason, "no snapshot")
	assert.Equal(t, 5, c.Quarantined[1].Transaction.Sequence)
	assert.Contains(t, c.Quarantined[1].Reason, "effective date")
	assert.Equal(t, 6, c.Quarantined[2].Transaction.Sequence)
	assert.Contains(t, c.Quarantined[2].Reason, "validation failed")
}

func TestClassify_DoesNotMutateInput(t *testing.T) {
	snapshot := renewalSnapshot()
	al3.Classify([]al3.Transaction{{Sequence: 1, Type: "RWL", Snapshot: snapshot}})
	assert.Equal(t, "bipd", snapshot.Coverages[0].Type)
}

func TestClassify_Empty(t *testing.T) {
	c := al3.Classify(nil)
	assert.Empty(t, c.Renewals)
	assert.Empty(t, c.Archive)
	assert.Empty(t, c.Quarantined)
}

func TestLineOfBusinessFromCode(t *testing.T) {
	tests := []struct {
		code string
		want domain.LineOfBusiness
	}{
		{"AUTOP", domain.LineOfBusinessPersonalAuto},
		{" home ", domain.LineOfBusinessHomeowners},
		{"DFIRE", domain.LineOfBusinessDwellingFire},
		{"HO6", domain.LineOfBusinessCondo},
		{"homeowners", domain.LineOfBusinessHomeowners},
		{"XYZ", domain.LineOfBusinessOther},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, al3.LineOfBusinessFromCode(tt.code))
		})
	}
}

func TestCoverageTypeFromCode(t *testing.T) {
	assert.Equal(t, "BI", al3.CoverageTypeFromCode("BIPD"))
	assert.Equal(t, "DWELL", al3.CoverageTypeFromCode("covA"))
	assert.Equal(t, "CUSTOM", al3.CoverageTypeFromCode(" custom "))
}

func TestTransactionType_IsRenewal(t *testing.T) {
	assert.True(t, al3.NormalizeTransactionType("rwl").IsRenewal())
	assert.True(t, al3.TransactionTypeRenewalQuote.IsRenewal())
	assert.False(t, al3.TransactionTypeNonRenewal.IsRenewal())
	assert.False(t, al3.NormalizeTransactionType("").IsRenewal())
}

func ptrDate(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}
