package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/fabrica/internal/db"
	"github.com/Simplici0/fabrica/internal/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, db.DriverSQLite, filepath.Join(t.TempDir(), "catalog-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.Up(ctx, database.DB, db.DriverSQLite))
	return NewStore(database)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testFabric(name string, kind FabricType, sustainability, durability string) Fabric {
	return Fabric{
		Name:                name,
		FabricType:          kind,
		CostPerYard:         dec("10.00"),
		PremiumMultiplier:   dec("1.0"),
		DurabilityScore:     dec(durability),
		ComfortScore:        dec("0.5"),
		SustainabilityScore: dec(sustainability),
		OpacityPercentage:   100,
		IsActive:            true,
		StockQuantity:       10,
		MinimumOrderYards:   dec("1"),
		ColorOptions:        StringList{"black"},
	}
}

func testFactor(name string) PricingFactor {
	return PricingFactor{
		Name:                    name,
		BaseLaborCost:           dec("15"),
		SkilledLaborMultiplier:  dec("1.5"),
		OverheadPercentage:      dec("25"),
		ProfitMarginPercentage:  dec("40"),
		MarketDemandMultiplier:  dec("1"),
		SeasonalAdjustment:      dec("1"),
		PremiumDesignMultiplier: dec("1.2"),
		CustomFitMultiplier:     dec("1.3"),
	}
}

func TestCreateAndGetFabric(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := testFabric("Premium Cotton Jersey", Cotton, "0.7", "0.8")
	f.CostPerYard = dec("12.50")
	f.PatternOptions = StringList{"solid", "heather"}
	require.NoError(t, store.CreateFabric(ctx, &f))
	require.NotEqual(t, uuid.Nil, f.ID)

	got, err := store.GetFabric(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Name, got.Name)
	assert.Equal(t, Cotton, got.FabricType)
	assert.True(t, got.CostPerYard.Equal(dec("12.5")), "cost=%s", got.CostPerYard)
	assert.True(t, got.SustainabilityScore.Equal(dec("0.7")))
	assert.Equal(t, StringList{"solid", "heather"}, got.PatternOptions)
	assert.True(t, got.IsActive)

	_, err = store.GetFabric(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateFabricValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cases := map[string]func(f *Fabric){
		"missing name":         func(f *Fabric) { f.Name = "" },
		"unknown type":         func(f *Fabric) { f.FabricType = "spandex" },
		"zero cost":            func(f *Fabric) { f.CostPerYard = decimal.Zero },
		"score above one":      func(f *Fabric) { f.DurabilityScore = dec("1.2") },
		"negative stock":       func(f *Fabric) { f.StockQuantity = -1 },
		"opacity out of range": func(f *Fabric) { f.OpacityPercentage = 101 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := testFabric("Broken", Cotton, "0.5", "0.5")
			mutate(&f)

			err := store.CreateFabric(ctx, &f)
			var validation *ValidationError
			assert.ErrorAs(t, err, &validation)
		})
	}

	dup := testFabric("Twice", Cotton, "0.5", "0.5")
	require.NoError(t, store.CreateFabric(ctx, &dup))
	again := testFabric("Twice", Linen, "0.5", "0.5")
	var validation *ValidationError
	assert.ErrorAs(t, store.CreateFabric(ctx, &again), &validation)
}

func TestSuitableFabricsFiltersAndOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fabrics := []Fabric{
		testFabric("Cotton Low", Cotton, "0.3", "0.9"),
		testFabric("Cotton High", Cotton, "0.9", "0.1"),
		testFabric("Poly Tie B", Polyester, "0.5", "0.5"),
		testFabric("Poly Tie A", Polyester, "0.5", "0.5"),
		testFabric("Poly Durable", Polyester, "0.5", "0.8"),
		testFabric("Silk", Silk, "1.0", "1.0"),
	}
	inactive := testFabric("Hidden Cotton", Cotton, "1.0", "1.0")
	inactive.IsActive = false
	outOfStock := testFabric("Sold Out Cotton", Cotton, "1.0", "1.0")
	outOfStock.StockQuantity = 0
	fabrics = append(fabrics, inactive, outOfStock)

	for i := range fabrics {
		require.NoError(t, store.CreateFabric(ctx, &fabrics[i]))
	}

	got, err := store.SuitableFabrics(ctx, []FabricType{Cotton, Polyester})
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Cotton High", "Poly Durable", "Poly Tie A", "Poly Tie B", "Cotton Low"}, names)

	empty, err := store.SuitableFabrics(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSetFabricActive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := testFabric("Linen Canvas", Linen, "0.9", "0.8")
	require.NoError(t, store.CreateFabric(ctx, &f))

	require.NoError(t, store.SetFabricActive(ctx, f.ID, false))

	active, err := store.ListFabrics(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := store.ListFabrics(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	assert.ErrorIs(t, store.SetFabricActive(ctx, uuid.New(), true), ErrNotFound)
}

func TestComplexityUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetComplexity(ctx, "Jacket/Blazer")
	require.ErrorIs(t, err, ErrNotFound)

	c := ClothingComplexity{
		ClothingType:        "Jacket/Blazer",
		BaseComplexityScore: dec("4.0"),
		LaborHours:          dec("12.0"),
		FabricYardsNeeded:   dec("4.5"),
		SkillLevel:          Advanced,
		SeamCount:           35,
		RequiresLining:      true,
	}
	require.NoError(t, store.UpsertComplexity(ctx, &c))

	c.LaborHours = dec("10")
	require.NoError(t, store.UpsertComplexity(ctx, &c))

	got, err := store.GetComplexity(ctx, "Jacket/Blazer")
	require.NoError(t, err)
	assert.True(t, got.LaborHours.Equal(dec("10")))
	assert.Equal(t, Advanced, got.SkillLevel)
	assert.True(t, got.RequiresLining)

	all, err := store.ListComplexities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	bad := c
	bad.SkillLevel = "wizard"
	var validation *ValidationError
	assert.ErrorAs(t, store.UpsertComplexity(ctx, &bad), &validation)
}

func TestPricingFactorActivation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.ActivePricingFactor(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	first := testFactor("Default Pricing Model")
	require.NoError(t, store.CreatePricingFactor(ctx, &first))
	assert.True(t, first.IsActive, "first factor becomes active")

	second := testFactor("Holiday")
	require.NoError(t, store.CreatePricingFactor(ctx, &second))
	assert.False(t, second.IsActive)

	active, err := store.ActivePricingFactor(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	require.NoError(t, store.ActivatePricingFactor(ctx, second.ID))
	active, err = store.ActivePricingFactor(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	// Activating the already active factor is a no-op.
	require.NoError(t, store.ActivatePricingFactor(ctx, second.ID))

	factors, err := store.ListPricingFactors(ctx)
	require.NoError(t, err)
	activeCount := 0
	for _, f := range factors {
		if f.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)

	assert.ErrorIs(t, store.ActivatePricingFactor(ctx, uuid.New()), ErrNotFound)

	dup := testFactor("Holiday")
	var validation *ValidationError
	assert.ErrorAs(t, store.CreatePricingFactor(ctx, &dup), &validation)
}

func TestOnlyOneActiveFactorAtDataLayer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := testFactor("A")
	require.NoError(t, store.CreatePricingFactor(ctx, &first))

	_, err := store.db.ExecContext(ctx, `
		INSERT INTO pricing_factors (id, name, is_active) VALUES (?, ?, TRUE)
	`, uuid.NewString(), "B")
	assert.Error(t, err)
}

func TestPricingFactorValidation(t *testing.T) {
	store := newTestStore(t)

	p := testFactor("Too Much Overhead")
	p.OverheadPercentage = dec("120")

	var validation *ValidationError
	assert.ErrorAs(t, store.CreatePricingFactor(context.Background(), &p), &validation)
}
