package property

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/agencyops/renewal-engine/internal/domain"
)

// MergePublicData combines provider payloads field by field. RPR wins over PropertyAPI for
// public records; imagery facts come from Nearmap with PropertyAPI as the pool fallback.
func MergePublicData(data *ProviderData) domain.PublicPropertyData {
	var public domain.PublicPropertyData
	if data == nil {
		return public
	}

	if p := data.RPR; p != nil {
		public.YearBuilt = p.YearBuilt
		public.SquareFeet = p.SquareFeet
		public.Stories = p.Stories
		public.Bedrooms = p.Bedrooms
		public.Bathrooms = p.Bathrooms
		public.ListingStatus = normalizeStatus(p.CurrentStatus)
		if d, err := domain.ParseDate(p.LastSaleDate); err == nil {
			public.LastSaleDate = &d
		}
		if p.LastSalePrice != nil {
			public.LastSalePrice = decimal.NewNullDecimal(decimal.NewFromFloat(*p.LastSalePrice).Round(2))
		}
	}

	if p := data.PropertyAPI; p != nil {
		if public.YearBuilt == nil {
			public.YearBuilt = p.YearBuilt
		}
		if public.SquareFeet == nil {
			public.SquareFeet = p.LivingArea
		}
		if public.Stories == nil {
			public.Stories = p.Stories
		}
		if public.Bedrooms == nil {
			public.Bedrooms = p.Bedrooms
		}
		if public.Bathrooms == nil {
			public.Bathrooms = p.Bathrooms
		}
		if public.LastSaleDate == nil && p.LastSale != nil {
			if d, err := domain.ParseDate(p.LastSale.Date); err == nil {
				public.LastSaleDate = &d
				if p.LastSale.Price != nil {
					public.LastSalePrice = decimal.NewNullDecimal(decimal.NewFromFloat(*p.LastSale.Price).Round(2))
				}
			}
		}
		public.PoolDetected = p.HasPool
	}

	if f := data.Nearmap; f != nil {
		public.RoofConditionScore = f.RoofConditionScore
		pool := f.Detected("pool")
		if pool || public.PoolDetected == nil {
			public.PoolDetected = &pool
		}
		trampoline := f.Detected("trampoline")
		public.TrampolineDetected = &trampoline
	}

	return public
}

// normalizeStatus maps listing statuses to lower_snake_case, e.g. "For Sale" -> "for_sale"
func normalizeStatus(status string) string {
	return strings.Join(strings.Fields(strings.ToLower(status)), "_")
}
