package design

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/fabrica/internal/catalog"
	"github.com/Simplici0/fabrica/internal/pricing"
)

type fakeRecommender struct {
	byType map[string][]pricing.Recommendation
}

func (f fakeRecommender) Recommend(_ context.Context, clothingType string, _ *pricing.BudgetRange) []pricing.Recommendation {
	return f.byType[clothingType]
}

type fakeEstimator struct {
	prices map[uuid.UUID]decimal.Decimal
	calls  []string
}

func (f *fakeEstimator) EstimatePrice(_ context.Context, fabric catalog.Fabric, clothingType string, _ *catalog.ClothingComplexity) decimal.Decimal {
	f.calls = append(f.calls, clothingType)
	return f.prices[fabric.ID]
}

func TestQuoteElements(t *testing.T) {
	denim := catalog.Fabric{ID: uuid.New(), Name: "Classic Denim"}
	twill := catalog.Fabric{ID: uuid.New(), Name: "Stretch Twill"}

	recommender := fakeRecommender{byType: map[string][]pricing.Recommendation{
		"Pants/Jeans": {
			{Fabric: denim, Score: 0.74},
			{Fabric: twill, Score: 0.71},
		},
	}}
	estimator := &fakeEstimator{prices: map[uuid.UUID]decimal.Decimal{
		denim.ID: decimal.RequireFromString("563.12"),
	}}

	in := []Element{
		{ElementID: "e1", Name: "Jeans", ClothingType: "Pants/Jeans", Price: decimal.NewFromInt(10)},
		{ElementID: "e2", Name: "Cape", ClothingType: "Cape", Price: decimal.RequireFromString("42.50")},
	}

	out := NewQuoter(recommender, estimator, nil).QuoteElements(context.Background(), in)
	require.Len(t, out, 2)

	jeans := out[0]
	assert.Equal(t, denim.ID, jeans.SelectedFabricID)
	assert.Equal(t, "Classic Denim", jeans.Fabric)
	assert.True(t, jeans.Price.Equal(decimal.RequireFromString("563.12")))
	assert.Len(t, jeans.RecommendedFabrics, 2)

	cape := out[1]
	assert.Equal(t, uuid.Nil, cape.SelectedFabricID)
	assert.Empty(t, cape.Fabric)
	assert.True(t, cape.Price.Equal(decimal.RequireFromString("42.50")))
	assert.Empty(t, cape.RecommendedFabrics)

	assert.Equal(t, []string{"Pants/Jeans"}, estimator.calls, "only elements with a recommendation are priced")
	assert.True(t, in[0].Price.Equal(decimal.NewFromInt(10)), "input is not modified")
}

func TestQuoteElementsEmpty(t *testing.T) {
	out := NewQuoter(fakeRecommender{}, &fakeEstimator{}, nil).QuoteElements(context.Background(), nil)
	assert.Empty(t, out)
}
