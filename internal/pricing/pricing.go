package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/Simplici0/fabrica/internal/catalog"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)

	advancedSurcharge    = decimal.RequireFromString("1.3")
	expertSurcharge      = decimal.RequireFromString("1.6")
	premiumSurcharge     = decimal.RequireFromString("1.2")
	sustainableSurcharge = decimal.RequireFromString("1.1")
	fallbackMultiplier   = decimal.RequireFromString("3.0")
)

// ItemInput represents the fabric and garment inputs of a price estimate.
type ItemInput struct {
	CostPerYard       decimal.Decimal
	PremiumMultiplier decimal.Decimal
	IsPremium         bool
	IsSustainable     bool

	ComplexityScore decimal.Decimal
	LaborHours      decimal.Decimal
	FabricYards     decimal.Decimal
	SkillLevel      catalog.SkillLevel
}

// GlobalInput represents the business rates shared across calculations.
type GlobalInput struct {
	BaseLaborCost          decimal.Decimal
	OverheadPercentage     decimal.Decimal
	ProfitMarginPercentage decimal.Decimal
	MarketDemandMultiplier decimal.Decimal
	SeasonalAdjustment     decimal.Decimal

	// ApplyMarket is false on the default-rates path, which never applies
	// the market and seasonal multipliers.
	ApplyMarket bool
}

// Breakdown contains the running value after each step of the calculation.
type Breakdown struct {
	FabricCost   decimal.Decimal
	LaborCost    decimal.Decimal
	BasePrice    decimal.Decimal
	WithOverhead decimal.Decimal
	WithMargin   decimal.Decimal
	Unrounded    decimal.Decimal
	Total        decimal.Decimal
}

// DefaultGlobalInput is used when no pricing factor is active.
func DefaultGlobalInput() GlobalInput {
	return GlobalInput{
		BaseLaborCost:          decimal.RequireFromString("15.00"),
		OverheadPercentage:     decimal.NewFromInt(25),
		ProfitMarginPercentage: decimal.NewFromInt(40),
		MarketDemandMultiplier: one,
		SeasonalAdjustment:     one,
	}
}

// GlobalInputFrom converts an active pricing factor into calculation rates.
func GlobalInputFrom(p catalog.PricingFactor) GlobalInput {
	return GlobalInput{
		BaseLaborCost:          p.BaseLaborCost,
		OverheadPercentage:     p.OverheadPercentage,
		ProfitMarginPercentage: p.ProfitMarginPercentage,
		MarketDemandMultiplier: p.MarketDemandMultiplier,
		SeasonalAdjustment:     p.SeasonalAdjustment,
		ApplyMarket:            true,
	}
}

// DefaultComplexity is used for clothing types without a complexity record.
func DefaultComplexity(clothingType string) catalog.ClothingComplexity {
	return catalog.ClothingComplexity{
		ClothingType:        clothingType,
		BaseComplexityScore: decimal.RequireFromString("1.5"),
		LaborHours:          decimal.RequireFromString("3.0"),
		FabricYardsNeeded:   decimal.RequireFromString("2.0"),
		SkillLevel:          catalog.Intermediate,
	}
}

// ItemInputFrom combines a fabric with a complexity profile.
func ItemInputFrom(f catalog.Fabric, c catalog.ClothingComplexity) ItemInput {
	return ItemInput{
		CostPerYard:       f.CostPerYard,
		PremiumMultiplier: f.PremiumMultiplier,
		IsPremium:         f.IsPremium,
		IsSustainable:     f.IsSustainable,
		ComplexityScore:   c.BaseComplexityScore,
		LaborHours:        c.LaborHours,
		FabricYards:       c.FabricYardsNeeded,
		SkillLevel:        c.SkillLevel,
	}
}

// Calculate computes the garment price. Every step runs on exact decimals and
// only the total is rounded, half-up to two places.
func Calculate(item ItemInput, global GlobalInput) Breakdown {
	fabricCost := item.CostPerYard.Mul(item.FabricYards).Mul(item.PremiumMultiplier)

	laborCost := global.BaseLaborCost.Mul(item.LaborHours).Mul(item.ComplexityScore)
	laborCost = laborCost.Mul(SkillSurcharge(item.SkillLevel))

	basePrice := fabricCost.Add(laborCost)
	withOverhead := basePrice.Mul(one.Add(global.OverheadPercentage.Div(hundred)))
	withMargin := withOverhead.Mul(one.Add(global.ProfitMarginPercentage.Div(hundred)))

	price := withMargin
	if item.IsPremium {
		price = price.Mul(premiumSurcharge)
	}
	if item.IsSustainable {
		price = price.Mul(sustainableSurcharge)
	}
	if global.ApplyMarket {
		price = price.Mul(global.MarketDemandMultiplier).Mul(global.SeasonalAdjustment)
	}

	return Breakdown{
		FabricCost:   fabricCost,
		LaborCost:    laborCost,
		BasePrice:    basePrice,
		WithOverhead: withOverhead,
		WithMargin:   withMargin,
		Unrounded:    price,
		Total:        roundPrice(price),
	}
}

// SkillSurcharge is the labor multiplier for a skill tier.
func SkillSurcharge(level catalog.SkillLevel) decimal.Decimal {
	switch level {
	case catalog.Advanced:
		return advancedSurcharge
	case catalog.Expert:
		return expertSurcharge
	default:
		return one
	}
}

// FallbackPrice is the coarse estimate used when a calculation cannot complete.
func FallbackPrice(f catalog.Fabric) decimal.Decimal {
	return roundPrice(f.CostPerYard.Mul(fallbackMultiplier))
}

// roundPrice rounds half-up to cents and never returns a negative amount.
func roundPrice(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return d.Round(2)
}
