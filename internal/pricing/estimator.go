package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/fabrica/internal/catalog"
)

// Catalog is the read side of the material catalog the engine depends on.
type Catalog interface {
	GetComplexity(ctx context.Context, clothingType string) (catalog.ClothingComplexity, error)
	SuitableFabrics(ctx context.Context, types []catalog.FabricType) ([]catalog.Fabric, error)
}

// FactorProvider supplies the active pricing factor.
type FactorProvider interface {
	Active(ctx context.Context) (catalog.PricingFactor, bool, error)
}

// Quote is a priced fabric and clothing type pair.
type Quote struct {
	FabricID     uuid.UUID
	ClothingType string
	Price        decimal.Decimal
	PricePerYard decimal.Decimal
	Breakdown    *Breakdown

	// Fallback is set when the coarse cost-based estimate was returned.
	Fallback bool
	// DefaultComplexity and DefaultFactors report which fallback tables were used.
	DefaultComplexity bool
	DefaultFactors    bool
}

// Estimator prices garments. It never fails: lookup or arithmetic failures
// degrade to FallbackPrice.
type Estimator struct {
	catalog Catalog
	factors FactorProvider
	log     *slog.Logger
}

func NewEstimator(c Catalog, factors FactorProvider, logger *slog.Logger) *Estimator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{catalog: c, factors: factors, log: logger}
}

// EstimatePrice returns the price of clothingType made from fabric, rounded to cents.
func (e *Estimator) EstimatePrice(ctx context.Context, fabric catalog.Fabric, clothingType string, override *catalog.ClothingComplexity) decimal.Decimal {
	return e.Quote(ctx, fabric, clothingType, override).Price
}

// Quote is EstimatePrice with the calculation steps attached.
func (e *Estimator) Quote(ctx context.Context, fabric catalog.Fabric, clothingType string, override *catalog.ClothingComplexity) Quote {
	return e.pricer(ctx, clothingType, override)(fabric)
}

// pricer resolves complexity and rates once and returns a function pricing
// any fabric with them.
func (e *Estimator) pricer(ctx context.Context, clothingType string, override *catalog.ClothingComplexity) (price func(catalog.Fabric) Quote) {
	label := CanonicalLabel(clothingType)
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("price lookup panicked, using fallback pricing", "clothing_type", label, "panic", r)
			price = func(fabric catalog.Fabric) Quote { return fallbackQuote(fabric, label) }
		}
	}()

	complexity, defaultComplexity, err := e.resolveComplexity(ctx, label, override)
	if err == nil {
		var global GlobalInput
		var defaultFactors bool
		global, defaultFactors, err = e.resolveGlobal(ctx)
		if err == nil {
			return func(fabric catalog.Fabric) Quote {
				return e.calculate(fabric, label, complexity, global, defaultComplexity, defaultFactors)
			}
		}
	}

	e.log.Error("price lookup failed, using fallback pricing", "clothing_type", label, "error", err)
	return func(fabric catalog.Fabric) Quote {
		return fallbackQuote(fabric, label)
	}
}

func (e *Estimator) calculate(fabric catalog.Fabric, label string, complexity catalog.ClothingComplexity, global GlobalInput, defaultComplexity, defaultFactors bool) (q Quote) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("price calculation failed, using fallback pricing",
				"fabric_id", fabric.ID, "clothing_type", label, "panic", r)
			q = fallbackQuote(fabric, label)
		}
	}()

	breakdown := Calculate(ItemInputFrom(fabric, complexity), global)
	return Quote{
		FabricID:          fabric.ID,
		ClothingType:      label,
		Price:             breakdown.Total,
		PricePerYard:      fabric.CostPerYard,
		Breakdown:         &breakdown,
		DefaultComplexity: defaultComplexity,
		DefaultFactors:    defaultFactors,
	}
}

func fallbackQuote(fabric catalog.Fabric, label string) Quote {
	return Quote{
		FabricID:     fabric.ID,
		ClothingType: label,
		Price:        FallbackPrice(fabric),
		PricePerYard: fabric.CostPerYard,
		Fallback:     true,
	}
}

func (e *Estimator) resolveComplexity(ctx context.Context, label string, override *catalog.ClothingComplexity) (c catalog.ClothingComplexity, usedDefault bool, err error) {
	if override != nil {
		return *override, false, nil
	}
	if e.catalog == nil {
		return catalog.ClothingComplexity{}, false, errors.New("no catalog configured")
	}

	c, err = e.catalog.GetComplexity(ctx, label)
	if errors.Is(err, catalog.ErrNotFound) {
		e.log.Warn("no complexity record, using defaults", "clothing_type", label)
		return DefaultComplexity(label), true, nil
	}
	if err != nil {
		return catalog.ClothingComplexity{}, false, fmt.Errorf("load complexity: %w", err)
	}
	return c, false, nil
}

func (e *Estimator) resolveGlobal(ctx context.Context) (GlobalInput, bool, error) {
	if e.factors == nil {
		return DefaultGlobalInput(), true, nil
	}

	p, found, err := e.factors.Active(ctx)
	if err != nil {
		return GlobalInput{}, false, err
	}
	if !found {
		e.log.Warn("no active pricing factor, using defaults")
		return DefaultGlobalInput(), true, nil
	}
	return GlobalInputFrom(p), false, nil
}
