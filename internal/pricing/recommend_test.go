package pricing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/fabrica/internal/catalog"
)

func fabric(name string, kind catalog.FabricType, cost, durability, comfort, sustainability string) catalog.Fabric {
	return catalog.Fabric{
		ID:                  uuid.New(),
		Name:                name,
		FabricType:          kind,
		CostPerYard:         d(cost),
		PremiumMultiplier:   d("1.0"),
		DurabilityScore:     d(durability),
		ComfortScore:        d(comfort),
		SustainabilityScore: d(sustainability),
		StockQuantity:       10,
		IsActive:            true,
	}
}

func newTestRanker(c *fakeCatalog) *Ranker {
	return NewRanker(c, NewEstimator(c, staticFactors{}, discardLogger()), discardLogger())
}

func TestRecommend_SortedAndCappedAtFive(t *testing.T) {
	c := &fakeCatalog{}
	for i := 0; i < 12; i++ {
		c.fabrics = append(c.fabrics, fabric(fmt.Sprintf("Cotton %02d", i), catalog.Cotton, "10",
			fmt.Sprintf("0.%d", i%10), "0.5", "0.5"))
	}

	recs := newTestRanker(c).Recommend(context.Background(), "T-Shirt/Top", nil)

	require.Len(t, recs, MaxRecommendations)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
}

func TestRecommend_OnlyFirstEightCandidatesAreScored(t *testing.T) {
	c := &fakeCatalog{}
	for i := 0; i < 8; i++ {
		c.fabrics = append(c.fabrics, fabric(fmt.Sprintf("Plain %d", i), catalog.Cotton, "10", "0.1", "0.1", "0.1"))
	}
	// Ninth candidate would score best but falls outside the cap.
	c.fabrics = append(c.fabrics, fabric("Perfect", catalog.Cotton, "10", "1", "1", "1"))

	recs := newTestRanker(c).Recommend(context.Background(), "T-Shirt/Top", nil)

	require.Len(t, recs, MaxRecommendations)
	for _, r := range recs {
		assert.NotEqual(t, "Perfect", r.Fabric.Name)
	}
}

func TestRecommend_ScoresUseAffinityAndFlags(t *testing.T) {
	denim := fabric("Denim", catalog.Denim, "15.75", "0.95", "0.6", "0.5")
	twill := fabric("Twill", catalog.Twill, "14.25", "0.85", "0.8", "0.6")
	jersey := fabric("Jersey", catalog.Cotton, "12.50", "0.8", "0.9", "0.7")
	jersey.IsPremium = true
	jersey.IsSustainable = true

	c := &fakeCatalog{fabrics: []catalog.Fabric{jersey, twill, denim}}
	recs := newTestRanker(c).Recommend(context.Background(), "Pants/Jeans", nil)

	require.Len(t, recs, 3)
	assert.Equal(t, "Jersey", recs[0].Fabric.Name)
	assert.InDelta(t, 0.79, recs[0].Score, 1e-9)
	assert.Equal(t, "Denim", recs[1].Fabric.Name)
	assert.InDelta(t, 0.74, recs[1].Score, 1e-9)
	assert.Equal(t, "Twill", recs[2].Fabric.Name)
	assert.InDelta(t, 0.71, recs[2].Score, 1e-9)
	assertDecimal(t, "price per yard", recs[1].PricePerYard, "15.75")
	assert.False(t, recs[1].EstimatedPrice.IsZero())
}

func TestScore_UpperBound(t *testing.T) {
	f := fabric("Dream", catalog.Jersey, "10", "1", "1", "1")
	f.IsPremium = true
	f.IsSustainable = true

	score := Score(f, TShirtTop)
	assert.InDelta(t, 0.98, score, 1e-9)
	assert.LessOrEqual(t, score, 1.0)
}

func TestRecommend_BudgetFilter(t *testing.T) {
	cheap := fabric("Cheap", catalog.Cotton, "1.00", "0.5", "0.5", "0.5")
	pricey := fabric("Pricey", catalog.Cotton, "500.00", "0.5", "0.5", "0.5")
	c := &fakeCatalog{fabrics: []catalog.Fabric{cheap, pricey}}
	r := newTestRanker(c)
	ctx := context.Background()

	// Default complexity and rates: (2 + 67.5) * 1.25 * 1.4 = 121.63 for Cheap.
	recs := r.Recommend(ctx, "Cape", &BudgetRange{Min: d("100"), Max: d("200")})
	require.Len(t, recs, 1)
	assert.Equal(t, "Cheap", recs[0].Fabric.Name)
	assertDecimal(t, "price", recs[0].EstimatedPrice, "121.63")

	for _, rec := range r.Recommend(ctx, "Cape", &BudgetRange{Min: d("0"), Max: d("5000")}) {
		assert.True(t, rec.EstimatedPrice.GreaterThanOrEqual(d("0")))
		assert.True(t, rec.EstimatedPrice.LessThanOrEqual(d("5000")))
	}

	inverted := r.Recommend(ctx, "Cape", &BudgetRange{Min: d("200"), Max: d("100")})
	assert.NotNil(t, inverted)
	assert.Empty(t, inverted)
}

func TestRecommend_BudgetFilterRunsBeforeCap(t *testing.T) {
	c := &fakeCatalog{}
	for i := 0; i < 8; i++ {
		c.fabrics = append(c.fabrics, fabric(fmt.Sprintf("Luxury %d", i), catalog.Cotton, "900", "0.5", "0.5", "0.5"))
	}
	c.fabrics = append(c.fabrics, fabric("Budget", catalog.Cotton, "1", "0.5", "0.5", "0.5"))

	recs := newTestRanker(c).Recommend(context.Background(), "Cape", &BudgetRange{Min: d("0"), Max: d("200")})

	require.Len(t, recs, 1)
	assert.Equal(t, "Budget", recs[0].Fabric.Name)
}

func TestRecommend_UnknownTypeQueriesCottonAndPolyester(t *testing.T) {
	c := &fakeCatalog{fabrics: []catalog.Fabric{
		fabric("Poly", catalog.Polyester, "8.5", "0.85", "0.7", "0.3"),
		fabric("Silk", catalog.Silk, "45", "0.6", "0.9", "0.8"),
	}}

	recs := newTestRanker(c).Recommend(context.Background(), "NoSuchType", nil)

	assert.Equal(t, []catalog.FabricType{catalog.Cotton, catalog.Polyester}, c.queriedTypes)
	require.Len(t, recs, 1)
	assert.Equal(t, "Poly", recs[0].Fabric.Name)
}

func TestRecommend_StoreErrorYieldsEmpty(t *testing.T) {
	c := &fakeCatalog{fabricsErr: errors.New("no such table: fabrics")}

	recs := newTestRanker(c).Recommend(context.Background(), "T-Shirt/Top", nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

type panickingCatalog struct{ fakeCatalog }

func (p *panickingCatalog) SuitableFabrics(context.Context, []catalog.FabricType) ([]catalog.Fabric, error) {
	panic("driver bug")
}

func TestRecommend_PanicYieldsEmpty(t *testing.T) {
	c := &panickingCatalog{}
	r := NewRanker(c, NewEstimator(c, nil, discardLogger()), discardLogger())

	recs := r.Recommend(context.Background(), "T-Shirt/Top", nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommend_NoCandidates(t *testing.T) {
	recs := newTestRanker(&fakeCatalog{}).Recommend(context.Background(), "Footwear", nil)
	assert.Empty(t, recs)
}
