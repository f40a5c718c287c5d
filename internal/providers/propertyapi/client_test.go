package propertyapi_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencyops/renewal-engine/internal/adapter"
	"github.com/agencyops/renewal-engine/internal/mocks"
	"github.com/agencyops/renewal-engine/internal/providers/propertyapi"
)

func TestPropertyAPIClient_LookupParcel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	limiter := mocks.NewMockLimiter(ctrl)
	client := propertyapi.NewClient(httpClient, limiter, "https://api.property.example", "key-1")
	ctx := context.Background()

	limiter.EXPECT().Wait(ctx, propertyapi.PROVIDER_NAME).Return(nil)
	httpClient.EXPECT().
		GetJSON(ctx, "https://api.property.example/v1/parcels?address=12+Oak+St", map[string]string{"X-Api-Key": "key-1"}, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ map[string]string, result interface{}) error {
			return json.Unmarshal([]byte(`{"parcels":[{"parcelId":"p1","livingArea":1800,"stories":2,"hasPool":true,"lastSale":{"date":"2024-06-01","price":410000}}]}`), result)
		})

	parcel, err := client.LookupParcel(ctx, "12 Oak St")
	require.NoError(t, err)
	require.NotNil(t, parcel)
	assert.Equal(t, "p1", parcel.ParcelID)
	assert.Equal(t, 1800, *parcel.LivingArea)
	assert.Equal(t, 2, *parcel.Stories)
	assert.True(t, *parcel.HasPool)
	require.NotNil(t, parcel.LastSale)
	assert.Equal(t, "2024-06-01", parcel.LastSale.Date)
	assert.InDelta(t, 410000, *parcel.LastSale.Price, 0.001)
	assert.Nil(t, parcel.YearBuilt)
}

func TestPropertyAPIClient_LookupParcel_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	httpClient := mocks.NewMockHTTPClient(ctrl)
	client := propertyapi.NewClient(httpClient, nil, "https://api.property.example", "key-1")
	ctx := context.Background()

	httpClient.EXPECT().GetJSON(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.HTTPStatusError{StatusCode: 404, Body: "no parcel"})
	parcel, err := client.LookupParcel(ctx, "1 Nowhere")
	require.NoError(t, err)
	assert.Nil(t, parcel)

	httpClient.EXPECT().GetJSON(ctx, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&adapter.HTTPStatusError{StatusCode: 401, Body: "bad key"})
	_, err = client.LookupParcel(ctx, "1 Nowhere")
	assert.ErrorContains(t, err, "failed to call PropertyAPI")
}
