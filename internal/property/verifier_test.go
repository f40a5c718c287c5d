package property_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/mocks"
	"github.com/agencyops/renewal-engine/internal/property"
	"github.com/agencyops/renewal-engine/internal/providers/nearmap"
	"github.com/agencyops/renewal-engine/internal/providers/propertyapi"
	"github.com/agencyops/renewal-engine/internal/providers/rpr"
	"github.com/agencyops/renewal-engine/internal/store"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

type testVerifierMocks struct {
	ctrl        *gomock.Controller
	store       *mocks.MockStore
	rpr         *mocks.MockRPRClient
	propertyAPI *mocks.MockPropertyAPIClient
	geocoder    *mocks.MockGeocoderClient
	nearmap     *mocks.MockNearmapClient
	clock       *mocks.MockClock
	now         time.Time
}

func setupTestVerifier(t *testing.T) (*testVerifierMocks, property.Verifier) {
	err := logger.Initialize(logger.Config{Debug: true})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctrl := gomock.NewController(t)
	m := &testVerifierMocks{
		ctrl:        ctrl,
		store:       mocks.NewMockStore(ctrl),
		rpr:         mocks.NewMockRPRClient(ctrl),
		propertyAPI: mocks.NewMockPropertyAPIClient(ctrl),
		geocoder:    mocks.NewMockGeocoderClient(ctrl),
		nearmap:     mocks.NewMockNearmapClient(ctrl),
		clock:       mocks.NewMockClock(ctrl),
		now:         time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	m.clock.EXPECT().Now().Return(m.now).AnyTimes()

	v := property.NewVerifier(
		property.Config{ProviderTimeout: time.Second, CacheTTL: domain.DEFAULT_PROPERTY_CACHE_TTL},
		m.store,
		property.Providers{RPR: m.rpr, PropertyAPI: m.propertyAPI, Geocoder: m.geocoder, Nearmap: m.nearmap},
		m.clock,
	)
	return m, v
}

func ptr[T any](v T) *T {
	return &v
}

func homeComparison() *domain.RenewalComparison {
	return &domain.RenewalComparison{
		ID:       "cmp-1",
		TenantID: "tenant-1",
		RenewalSnapshot: &domain.PolicySnapshot{
			PolicyNumber:   "HO123",
			CarrierName:    "Acme Mutual",
			LineOfBusiness: domain.LineOfBusinessHomeowners,
			InsuredAddress: &domain.Address{Street: "12 Oak St.", City: "Austin", State: "TX", Zip: "78701"},
			PropertyContext: &domain.PropertyContext{
				YearBuilt:  1995,
				SquareFeet: 2000,
				Stories:    2,
				HasPool:    ptr(false),
			},
		},
		CheckResults: []domain.CheckResult{
			{RuleID: "PREMIUM-CHANGE", Severity: domain.SeverityWarning},
			{RuleID: "PV-ROOF-CONDITION", Severity: domain.SeverityCritical},
		},
	}
}

// expectMutate applies the verifier's mutation to row and captures the appended events
func expectMutate(t *testing.T, m *testVerifierMocks, row *domain.RenewalComparison, events *[]store.AuditEventInput) {
	m.store.EXPECT().
		MutateComparison(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.MutateComparisonInput) (*domain.RenewalComparison, error) {
			assert.Equal(t, row.TenantID, input.TenantID)
			assert.Equal(t, row.ID, input.ComparisonID)
			evs, err := input.Mutate(row)
			if err != nil {
				return nil, err
			}
			*events = evs
			return row, nil
		})
}

func TestVerify_CompleteEnvelopeShortCircuits(t *testing.T) {
	m, v := setupTestVerifier(t)
	defer m.ctrl.Finish()

	c := homeComparison()
	c.PropertyVerification = &domain.PropertyVerification{Status: domain.VerificationStatusComplete, PropertyLookupID: "lk-1"}
	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "cmp-1").Return(c, nil)

	got, err := v.Verify(context.Background(), "tenant-1", "cmp-1")
	require.NoError(t, err)
	assert.Same(t, c.PropertyVerification, got)
}

func TestVerify_NotFound(t *testing.T) {
	m, v := setupTestVerifier(t)
	defer m.ctrl.Finish()

	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "missing").Return(nil, nil)

	_, err := v.Verify(context.Background(), "tenant-1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerify_NoAddress(t *testing.T) {
	m, v := setupTestVerifier(t)
	defer m.ctrl.Finish()

	c := homeComparison()
	c.RenewalSnapshot.InsuredAddress = nil
	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "cmp-1").Return(c, nil)

	_, err := v.Verify(context.Background(), "tenant-1", "cmp-1")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestVerify_FetchesMergesAndPersists(t *testing.T) {
	m, v := setupTestVerifier(t)
	defer m.ctrl.Finish()

	c := homeComparison()
	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "cmp-1").Return(c, nil)
	m.store.EXPECT().GetFreshPropertyLookup(gomock.Any(), "12 oak st, austin, tx 78701", m.now).Return(nil, nil)

	m.rpr.EXPECT().LookupProperty(gomock.Any(), "12 Oak St., Austin, TX 78701").
		Return(&rpr.Property{YearBuilt: ptr(1995), SquareFeet: ptr(2600), CurrentStatus: "Off Market"}, nil)
	m.propertyAPI.EXPECT().LookupParcel(gomock.Any(), gomock.Any()).
		Return(&propertyapi.Parcel{Stories: ptr(2), HasPool: ptr(true)}, nil)
	m.geocoder.EXPECT().Geocode(gomock.Any(), gomock.Any()).
		Return(&domain.GeoPoint{Lat: 30.27, Lng: -97.74}, nil)
	m.nearmap.EXPECT().FeaturesAt(gomock.Any(), domain.GeoPoint{Lat: 30.27, Lng: -97.74}).
		Return(nil, errors.New("nearmap unavailable"))

	m.store.EXPECT().
		UpsertPropertyLookup(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input store.UpsertPropertyLookupInput) (*schema.PropertyLookup, error) {
			assert.Equal(t, "12 oak st, austin, tx 78701", input.AddressKey)
			assert.Equal(t, m.now.Add(domain.DEFAULT_PROPERTY_CACHE_TTL), input.ExpiresAt)
			assert.JSONEq(t, "null", string(input.NearmapData))
			assert.NotNil(t, input.Location)
			return &schema.PropertyLookup{ID: "lk-9"}, nil
		})

	var events []store.AuditEventInput
	expectMutate(t, m, c, &events)

	got, err := v.Verify(context.Background(), "tenant-1", "cmp-1")
	require.NoError(t, err)

	assert.Equal(t, domain.VerificationStatusComplete, got.Status)
	assert.Equal(t, "lk-9", got.PropertyLookupID)
	assert.Equal(t, domain.VerificationSources{RPR: true, PropertyAPI: true, Nearmap: false}, got.Sources)
	assert.Equal(t, 2600, *got.PublicData.SquareFeet)
	assert.True(t, *got.PublicData.PoolDetected)
	require.NotNil(t, got.Location)

	// the stale PV result is replaced, the engine result is kept first
	require.NotEmpty(t, c.CheckResults)
	assert.Equal(t, "PREMIUM-CHANGE", c.CheckResults[0].RuleID)
	ruleIDs := make(map[string]domain.Severity)
	for _, r := range c.CheckResults[1:] {
		assert.True(t, r.IsPropertyCheck())
		ruleIDs[r.RuleID] = r.Severity
	}
	assert.NotContains(t, ruleIDs, property.RuleRoofCondition)
	assert.Equal(t, domain.SeverityUnchanged, ruleIDs[property.RuleYearBuilt])
	assert.Equal(t, domain.SeverityWarning, ruleIDs[property.RuleSquareFeet])
	assert.Equal(t, domain.SeverityWarning, ruleIDs[property.RulePool])
	assert.Equal(t, domain.SeverityUnchanged, ruleIDs[property.RuleListingStatus])
	assert.Equal(t, got.CheckCount, len(c.CheckResults)-1)
	assert.Equal(t, len(c.CheckResults), c.CheckSummary.TotalChecks)
	assert.Equal(t, domain.RecommendationReview, c.Recommendation)
	assert.Same(t, got, c.PropertyVerification)

	require.Len(t, events, 1)
	assert.Equal(t, domain.AuditEventPropertyVerified, events[0].EventType)
	assert.Equal(t, domain.SYSTEM_ACTOR, events[0].PerformedBy)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(events[0].EventData, &data))
	assert.Equal(t, "lk-9", data["propertyLookupId"])
}

func TestVerify_CacheHitSkipsProviders(t *testing.T) {
	m, v := setupTestVerifier(t)
	defer m.ctrl.Finish()

	c := homeComparison()
	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "cmp-1").Return(c, nil)
	m.store.EXPECT().GetFreshPropertyLookup(gomock.Any(), "12 oak st, austin, tx 78701", m.now).
		Return(&schema.PropertyLookup{
			ID:              "lk-1",
			RPRData:         datatypes.JSON(`{"yearBuilt":1960,"currentStatus":"Active"}`),
			PropertyAPIData: datatypes.JSON(`null`),
			NearmapData:     datatypes.JSON(`{"roofConditionScore":35,"features":[{"description":"Trampoline","confidence":0.8}]}`),
			Latitude:        ptr(30.27),
			Longitude:       ptr(-97.74),
		}, nil)

	var events []store.AuditEventInput
	expectMutate(t, m, c, &events)

	got, err := v.Verify(context.Background(), "tenant-1", "cmp-1")
	require.NoError(t, err)
	assert.Equal(t, "lk-1", got.PropertyLookupID)
	assert.Equal(t, domain.VerificationSources{RPR: true, Nearmap: true}, got.Sources)
	assert.Equal(t, "active", got.PublicData.ListingStatus)

	severities := make(map[string]domain.Severity)
	for _, r := range c.CheckResults {
		severities[r.RuleID] = r.Severity
	}
	assert.Equal(t, domain.SeverityWarning, severities[property.RuleYearBuilt])
	assert.Equal(t, domain.SeverityCritical, severities[property.RuleListingStatus])
	assert.Equal(t, domain.SeverityCritical, severities[property.RuleRoofCondition])
	assert.Equal(t, domain.SeverityWarning, severities[property.RuleTrampoline])
	assert.Equal(t, domain.RecommendationEscalate, c.Recommendation)
}

func TestVerify_AllProvidersFail(t *testing.T) {
	m, v := setupTestVerifier(t)
	defer m.ctrl.Finish()

	c := homeComparison()
	c.CheckResults = nil
	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "cmp-1").Return(c, nil)
	m.store.EXPECT().GetFreshPropertyLookup(gomock.Any(), gomock.Any(), m.now).Return(nil, nil)
	m.rpr.EXPECT().LookupProperty(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
	m.propertyAPI.EXPECT().LookupParcel(gomock.Any(), gomock.Any()).Return(nil, errors.New("500"))
	m.geocoder.EXPECT().Geocode(gomock.Any(), gomock.Any()).Return(nil, nil)

	var events []store.AuditEventInput
	expectMutate(t, m, c, &events)

	got, err := v.Verify(context.Background(), "tenant-1", "cmp-1")
	require.NoError(t, err)
	assert.False(t, got.Sources.Any())
	assert.Empty(t, got.PropertyLookupID)
	assert.Equal(t, 0, got.CheckCount)
	assert.Empty(t, c.CheckResults)
	assert.Equal(t, 100, c.CheckSummary.ReviewProgress)
}

func TestVerify_PersistFailure(t *testing.T) {
	m, v := setupTestVerifier(t)
	defer m.ctrl.Finish()

	c := homeComparison()
	m.store.EXPECT().GetComparison(gomock.Any(), "tenant-1", "cmp-1").Return(c, nil)
	m.store.EXPECT().GetFreshPropertyLookup(gomock.Any(), gomock.Any(), m.now).
		Return(&schema.PropertyLookup{ID: "lk-1", RPRData: datatypes.JSON(`null`), PropertyAPIData: datatypes.JSON(`null`), NearmapData: datatypes.JSON(`{"features":[]}`)}, nil)
	m.store.EXPECT().MutateComparison(gomock.Any(), gomock.Any()).Return(nil, errors.New("deadlock"))

	_, err := v.Verify(context.Background(), "tenant-1", "cmp-1")
	assert.ErrorContains(t, err, "failed to persist property verification")
}

func TestMergePublicData_Precedence(t *testing.T) {
	public := property.MergePublicData(&property.ProviderData{
		RPR:         &rpr.Property{YearBuilt: ptr(2001), LastSaleDate: "2024-11-02", LastSalePrice: ptr(350000.0)},
		PropertyAPI: &propertyapi.Parcel{YearBuilt: ptr(1999), LivingArea: ptr(1800), HasPool: ptr(true)},
		Nearmap:     &nearmap.Features{Features: []nearmap.Feature{{Description: "Swimming pool", Confidence: 0.3}}},
	})

	assert.Equal(t, 2001, *public.YearBuilt)
	assert.Equal(t, 1800, *public.SquareFeet)
	assert.Equal(t, "2024-11-02", public.LastSaleDate.String())
	assert.Equal(t, "350000.00", public.LastSalePrice.Decimal.StringFixed(2))
	// a low-confidence imagery miss does not override the parcel record
	assert.True(t, *public.PoolDetected)
	assert.False(t, *public.TrampolineDetected)

	empty := property.MergePublicData(nil)
	assert.Nil(t, empty.YearBuilt)
	assert.False(t, empty.LastSalePrice.Valid)
}
