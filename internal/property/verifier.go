package property

import (
	"context"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/audit"
	"github.com/agencyops/renewal-engine/internal/comparison"
	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/providers/geocoder"
	"github.com/agencyops/renewal-engine/internal/providers/nearmap"
	"github.com/agencyops/renewal-engine/internal/providers/propertyapi"
	"github.com/agencyops/renewal-engine/internal/providers/rpr"
	"github.com/agencyops/renewal-engine/internal/store"
)

const (
	// DEFAULT_PROVIDER_TIMEOUT bounds a single provider call
	DEFAULT_PROVIDER_TIMEOUT = 10 * time.Second

	// providerConcurrency is the number of provider tasks a verification runs at once
	providerConcurrency = 3
)

// Config holds the verifier settings
type Config struct {
	ProviderTimeout time.Duration
	CacheTTL        time.Duration
}

// Providers groups the external property data clients
type Providers struct {
	RPR         rpr.Client
	PropertyAPI propertyapi.Client
	Geocoder    geocoder.Client
	Nearmap     nearmap.Client
}

// Verifier cross-checks a comparison's dwelling facts against public property data
//
//go:generate mockgen -source=verifier.go -destination=../mocks/property_verifier.go -package=mocks -mock_names=Verifier=MockVerifier
type Verifier interface {
	// Verify returns the comparison's property verification, computing and persisting it
	// when no complete envelope exists. Provider failures degrade the result, they are not returned.
	Verify(ctx context.Context, tenantID, comparisonID string) (*domain.PropertyVerification, error)
}

type verifier struct {
	config    Config
	store     store.Store
	providers Providers
	clock     adapter.Clock
	pool      pond.Pool
}

// NewVerifier creates a property verifier
func NewVerifier(cfg Config, st store.Store, providers Providers, clock adapter.Clock) Verifier {
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = DEFAULT_PROVIDER_TIMEOUT
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = domain.DEFAULT_PROPERTY_CACHE_TTL
	}
	return &verifier{
		config:    cfg,
		store:     st,
		providers: providers,
		clock:     clock,
		pool:      pond.NewPool(providerConcurrency * 4),
	}
}

func (v *verifier) Verify(ctx context.Context, tenantID, comparisonID string) (*domain.PropertyVerification, error) {
	c, err := v.store.GetComparison(ctx, tenantID, comparisonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("comparison %s: %w", comparisonID, domain.ErrNotFound)
	}
	if c.PropertyVerification.IsComplete() {
		return c.PropertyVerification, nil
	}

	address := subjectAddress(c)
	if address == nil {
		return nil, fmt.Errorf("%w: comparison has no insured address to verify", domain.ErrValidation)
	}

	fields := logger.Comparison(tenantID, comparisonID)
	data, err := v.lookup(ctx, *address, fields)
	if err != nil {
		return nil, err
	}

	now := v.clock.Now().UTC()
	public := MergePublicData(data)
	results := Evaluate(public, propertyContext(c), now)

	envelope := &domain.PropertyVerification{
		Status:           domain.VerificationStatusComplete,
		VerifiedAt:       &now,
		PropertyLookupID: data.LookupID,
		Address:          address.String(),
		Sources:          data.Sources(),
		PublicData:       public,
		Location:         data.Location,
		CheckCount:       len(results),
	}

	_, err = v.store.MutateComparison(ctx, store.MutateComparisonInput{
		TenantID:     tenantID,
		ComparisonID: comparisonID,
		Mutate: func(row *domain.RenewalComparison) ([]store.AuditEventInput, error) {
			row.CheckResults = comparison.MergeResults(row.CheckResults, results, domain.PROPERTY_RULE_PREFIX)
			row.CheckSummary = comparison.Summarize(row.CheckResults)
			row.Recommendation = comparison.Recommend(row.CheckSummary)
			row.PropertyVerification = envelope
			return []store.AuditEventInput{audit.PropertyVerified(audit.PropertyVerifiedData{
				PropertyLookupID: envelope.PropertyLookupID,
				Sources:          envelope.Sources,
				CheckCount:       envelope.CheckCount,
			}, now)}, nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist property verification: %w", err)
	}

	logger.InfoCtx(ctx, "Property verification completed",
		append(fields,
			zap.String("property_lookup_id", envelope.PropertyLookupID),
			zap.Int("check_count", envelope.CheckCount),
			zap.Bool("rpr", envelope.Sources.RPR),
			zap.Bool("property_api", envelope.Sources.PropertyAPI),
			zap.Bool("nearmap", envelope.Sources.Nearmap))...)

	return envelope, nil
}

// subjectAddress prefers the renewal's insured address over the baseline's
func subjectAddress(c *domain.RenewalComparison) *domain.Address {
	if c.RenewalSnapshot != nil && !c.RenewalSnapshot.InsuredAddress.IsZero() {
		return c.RenewalSnapshot.InsuredAddress
	}
	if c.BaselineSnapshot != nil && !c.BaselineSnapshot.InsuredAddress.IsZero() {
		return c.BaselineSnapshot.InsuredAddress
	}
	return nil
}

func propertyContext(c *domain.RenewalComparison) *domain.PropertyContext {
	if c.RenewalSnapshot != nil && c.RenewalSnapshot.PropertyContext != nil {
		return c.RenewalSnapshot.PropertyContext
	}
	if c.BaselineSnapshot != nil {
		return c.BaselineSnapshot.PropertyContext
	}
	return nil
}
