package property

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/agencyops/renewal-engine/internal/domain"
	"github.com/agencyops/renewal-engine/internal/logger"
	"github.com/agencyops/renewal-engine/internal/providers/nearmap"
	"github.com/agencyops/renewal-engine/internal/providers/propertyapi"
	"github.com/agencyops/renewal-engine/internal/providers/rpr"
	"github.com/agencyops/renewal-engine/internal/store"
	"github.com/agencyops/renewal-engine/internal/store/schema"
)

// ProviderData is the set of provider payloads for one address. A nil payload means the
// provider failed or had no record.
type ProviderData struct {
	LookupID    string
	RPR         *rpr.Property
	PropertyAPI *propertyapi.Parcel
	Nearmap     *nearmap.Features
	Location    *domain.GeoPoint
}

// Sources reports which providers contributed
func (d *ProviderData) Sources() domain.VerificationSources {
	return domain.VerificationSources{
		RPR:         d.RPR != nil,
		PropertyAPI: d.PropertyAPI != nil,
		Nearmap:     d.Nearmap != nil,
	}
}

// lookup serves provider data from the cache, or fetches and caches it on a miss
func (v *verifier) lookup(ctx context.Context, address domain.Address, fields []zap.Field) (*ProviderData, error) {
	key := address.Key()
	now := v.clock.Now().UTC()

	cached, err := v.store.GetFreshPropertyLookup(ctx, key, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get property lookup: %w", err)
	}
	if cached != nil {
		logger.DebugCtx(ctx, "Property lookup cache hit", append(fields, zap.String("property_lookup_id", cached.ID))...)
		return fromLookup(cached)
	}

	data := v.fetch(ctx, address.String(), fields)
	if !data.Sources().Any() {
		logger.WarnCtx(ctx, "No property provider returned data", append(fields, zap.String("address_key", key))...)
		return data, nil
	}

	input := store.UpsertPropertyLookupInput{
		AddressKey: key,
		Address:    address.String(),
		Location:   data.Location,
		FetchedAt:  now,
		ExpiresAt:  now.Add(v.config.CacheTTL),
	}
	if input.RPRData, err = marshalPayload(data.RPR); err != nil {
		return nil, err
	}
	if input.PropertyAPIData, err = marshalPayload(data.PropertyAPI); err != nil {
		return nil, err
	}
	if input.NearmapData, err = marshalPayload(data.Nearmap); err != nil {
		return nil, err
	}

	saved, err := v.store.UpsertPropertyLookup(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to save property lookup: %w", err)
	}
	data.LookupID = saved.ID
	return data, nil
}

// fetch calls every provider in parallel. Nearmap needs the geocoded point so it runs after the geocoder.
func (v *verifier) fetch(ctx context.Context, address string, fields []zap.Field) *ProviderData {
	var (
		mu   sync.Mutex
		data ProviderData
	)

	degraded := func(provider string, err error) {
		logger.WarnCtx(ctx, "Property provider degraded",
			append(fields,
				zap.String("provider", provider),
				zap.Error(fmt.Errorf("%w: %w", domain.ErrProviderDegraded, err)))...)
	}

	group := v.pool.NewGroup()
	if v.providers.RPR != nil {
		group.Submit(func() {
			callCtx, cancel := context.WithTimeout(ctx, v.config.ProviderTimeout)
			defer cancel()
			p, err := v.providers.RPR.LookupProperty(callCtx, address)
			if err != nil {
				degraded(rpr.PROVIDER_NAME, err)
				return
			}
			mu.Lock()
			data.RPR = p
			mu.Unlock()
		})
	}
	if v.providers.PropertyAPI != nil {
		group.Submit(func() {
			callCtx, cancel := context.WithTimeout(ctx, v.config.ProviderTimeout)
			defer cancel()
			p, err := v.providers.PropertyAPI.LookupParcel(callCtx, address)
			if err != nil {
				degraded(propertyapi.PROVIDER_NAME, err)
				return
			}
			mu.Lock()
			data.PropertyAPI = p
			mu.Unlock()
		})
	}
	if v.providers.Geocoder != nil {
		group.Submit(func() {
			geoCtx, cancel := context.WithTimeout(ctx, v.config.ProviderTimeout)
			point, err := v.providers.Geocoder.Geocode(geoCtx, address)
			cancel()
			if err != nil {
				degraded("geocoder", err)
				return
			}
			if point == nil {
				return
			}
			mu.Lock()
			data.Location = point
			mu.Unlock()

			if v.providers.Nearmap == nil {
				return
			}
			callCtx, cancel := context.WithTimeout(ctx, v.config.ProviderTimeout)
			defer cancel()
			features, err := v.providers.Nearmap.FeaturesAt(callCtx, *point)
			if err != nil {
				degraded(nearmap.PROVIDER_NAME, err)
				return
			}
			mu.Lock()
			data.Nearmap = features
			mu.Unlock()
		})
	}

	// Tasks never return errors, provider failures are logged inside them
	_ = group.Wait()

	return &data
}

func fromLookup(lookup *schema.PropertyLookup) (*ProviderData, error) {
	data := &ProviderData{LookupID: lookup.ID}
	if err := unmarshalPayload(lookup.RPRData, &data.RPR); err != nil {
		return nil, fmt.Errorf("failed to decode cached rpr data: %w", err)
	}
	if err := unmarshalPayload(lookup.PropertyAPIData, &data.PropertyAPI); err != nil {
		return nil, fmt.Errorf("failed to decode cached property api data: %w", err)
	}
	if err := unmarshalPayload(lookup.NearmapData, &data.Nearmap); err != nil {
		return nil, fmt.Errorf("failed to decode cached nearmap data: %w", err)
	}
	if lookup.Latitude != nil && lookup.Longitude != nil {
		data.Location = &domain.GeoPoint{Lat: *lookup.Latitude, Lng: *lookup.Longitude}
	}
	return data, nil
}

func marshalPayload(v interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provider payload: %w", err)
	}
	return raw, nil
}

// unmarshalPayload decodes into a pointer target; a JSON null leaves it nil
func unmarshalPayload(raw []byte, target interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, target)
}
