package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/fabrica/internal/catalog"
)

const defaultPricingFactorName = "Default Pricing Model"

// namespace derives stable ids for seeded rows, so every environment agrees
// on the id of "Classic Denim".
var namespace = uuid.MustParse("6f1c9a52-8d0e-4f43-9b0a-3c5e2d7f1a84")

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Existing rows are
// matched by name and never modified.
func Run(ctx context.Context, db *sqlx.DB) (Stats, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, f := range Fabrics() {
		if err := ensureFabric(ctx, tx, f, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	if err := ensurePricingFactor(ctx, tx, DefaultPricingFactor(), &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	for _, c := range Complexities() {
		if err := ensureComplexity(ctx, tx, c, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureFabric(ctx context.Context, tx *sqlx.Tx, f catalog.Fabric, stats *Stats) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS(SELECT 1 FROM fabrics WHERE name = ?)`), f.Name); err != nil {
		return fmt.Errorf("check fabric %q existence: %w", f.Name, err)
	}
	if exists {
		return nil
	}

	if err := f.Validate(); err != nil {
		return fmt.Errorf("seed fabric %q: %w", f.Name, err)
	}

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO fabrics (
			id, name, fabric_type, description,
			cost_per_yard, premium_multiplier,
			durability_score, comfort_score, sustainability_score,
			weight_gsm, stretch_percentage, opacity_percentage, washing_temperature,
			care_instructions, is_premium, is_sustainable, is_active,
			stock_quantity, minimum_order_yards, supplier, color_options, pattern_options
		)
		VALUES (
			:id, :name, :fabric_type, :description,
			:cost_per_yard, :premium_multiplier,
			:durability_score, :comfort_score, :sustainability_score,
			:weight_gsm, :stretch_percentage, :opacity_percentage, :washing_temperature,
			:care_instructions, :is_premium, :is_sustainable, :is_active,
			:stock_quantity, :minimum_order_yards, :supplier, :color_options, :pattern_options
		)
	`, f); err != nil {
		return fmt.Errorf("insert fabric %q: %w", f.Name, err)
	}
	stats.Inserts++
	return nil
}

func ensurePricingFactor(ctx context.Context, tx *sqlx.Tx, p catalog.PricingFactor, stats *Stats) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS(SELECT 1 FROM pricing_factors WHERE name = ?)`), p.Name); err != nil {
		return fmt.Errorf("check pricing factor existence: %w", err)
	}
	if exists {
		return nil
	}

	// Only take the active slot when nobody else holds it.
	var activeExists bool
	if err := tx.GetContext(ctx, &activeExists, `SELECT EXISTS(SELECT 1 FROM pricing_factors WHERE is_active = TRUE)`); err != nil {
		return fmt.Errorf("check active pricing factor: %w", err)
	}
	p.IsActive = !activeExists

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO pricing_factors (
			id, name, base_labor_cost, skilled_labor_multiplier,
			overhead_percentage, profit_margin_percentage,
			market_demand_multiplier, seasonal_adjustment,
			premium_design_multiplier, custom_fit_multiplier, is_active
		)
		VALUES (
			:id, :name, :base_labor_cost, :skilled_labor_multiplier,
			:overhead_percentage, :profit_margin_percentage,
			:market_demand_multiplier, :seasonal_adjustment,
			:premium_design_multiplier, :custom_fit_multiplier, :is_active
		)
	`, p); err != nil {
		return fmt.Errorf("insert default pricing factor: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureComplexity(ctx context.Context, tx *sqlx.Tx, c catalog.ClothingComplexity, stats *Stats) error {
	var exists bool
	if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS(SELECT 1 FROM clothing_complexities WHERE clothing_type = ?)`), c.ClothingType); err != nil {
		return fmt.Errorf("check complexity %q existence: %w", c.ClothingType, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO clothing_complexities (
			clothing_type, base_complexity_score, labor_hours, fabric_yards_needed, skill_level_required,
			seam_count, button_count, zipper_count, pocket_count,
			requires_lining, requires_interfacing, requires_special_tools, description
		)
		VALUES (
			:clothing_type, :base_complexity_score, :labor_hours, :fabric_yards_needed, :skill_level_required,
			:seam_count, :button_count, :zipper_count, :pocket_count,
			:requires_lining, :requires_interfacing, :requires_special_tools, :description
		)
	`, c); err != nil {
		return fmt.Errorf("insert complexity %q: %w", c.ClothingType, err)
	}
	stats.Inserts++
	return nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fabricID(name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte("fabric:"+name))
}

// Fabrics returns the starter fabric catalog.
func Fabrics() []catalog.Fabric {
	return []catalog.Fabric{
		{
			ID:                  fabricID("Premium Cotton Jersey"),
			Name:                "Premium Cotton Jersey",
			FabricType:          catalog.Cotton,
			Description:         "Soft, breathable cotton jersey perfect for casual wear",
			CostPerYard:         dec("12.50"),
			PremiumMultiplier:   dec("1.2"),
			DurabilityScore:     dec("0.8"),
			ComfortScore:        dec("0.9"),
			SustainabilityScore: dec("0.7"),
			WeightGSM:           180,
			StretchPercentage:   15,
			OpacityPercentage:   95,
			CareInstructions:    "Machine wash cold, tumble dry low",
			WashingTemperature:  30,
			IsPremium:           true,
			IsSustainable:       true,
			IsActive:            true,
			StockQuantity:       500,
			MinimumOrderYards:   dec("2.0"),
			Supplier:            "EcoTextiles Inc.",
			ColorOptions:        catalog.StringList{"white", "black", "navy", "gray", "red"},
			PatternOptions:      catalog.StringList{"solid", "heather"},
		},
		{
			ID:                  fabricID("Organic Bamboo Blend"),
			Name:                "Organic Bamboo Blend",
			FabricType:          catalog.Bamboo,
			Description:         "Eco-friendly bamboo blend with natural antibacterial properties",
			CostPerYard:         dec("18.00"),
			PremiumMultiplier:   dec("1.4"),
			DurabilityScore:     dec("0.7"),
			ComfortScore:        dec("0.95"),
			SustainabilityScore: dec("0.95"),
			WeightGSM:           160,
			StretchPercentage:   20,
			OpacityPercentage:   90,
			CareInstructions:    "Machine wash cold, air dry recommended",
			WashingTemperature:  30,
			IsPremium:           true,
			IsSustainable:       true,
			IsActive:            true,
			StockQuantity:       300,
			MinimumOrderYards:   dec("1.5"),
			Supplier:            "Green Fiber Co.",
			ColorOptions:        catalog.StringList{"natural", "charcoal", "sage", "blush"},
			PatternOptions:      catalog.StringList{"solid"},
		},
		{
			ID:                  fabricID("Classic Denim"),
			Name:                "Classic Denim",
			FabricType:          catalog.Denim,
			Description:         "Traditional 100% cotton denim for jeans and jackets",
			CostPerYard:         dec("15.75"),
			PremiumMultiplier:   dec("1.1"),
			DurabilityScore:     dec("0.95"),
			ComfortScore:        dec("0.6"),
			SustainabilityScore: dec("0.5"),
			WeightGSM:           320,
			StretchPercentage:   2,
			OpacityPercentage:   100,
			CareInstructions:    "Machine wash cold, tumble dry medium",
			WashingTemperature:  40,
			IsActive:            true,
			StockQuantity:       800,
			MinimumOrderYards:   dec("3.0"),
			Supplier:            "Classic Denim Mills",
			ColorOptions:        catalog.StringList{"indigo", "black", "light blue", "dark blue"},
			PatternOptions:      catalog.StringList{"solid", "distressed"},
		},
		{
			ID:                  fabricID("Luxury Silk Charmeuse"),
			Name:                "Luxury Silk Charmeuse",
			FabricType:          catalog.Silk,
			Description:         "Premium silk with lustrous finish for elegant garments",
			CostPerYard:         dec("45.00"),
			PremiumMultiplier:   dec("2.0"),
			DurabilityScore:     dec("0.6"),
			ComfortScore:        dec("0.9"),
			SustainabilityScore: dec("0.8"),
			WeightGSM:           120,
			StretchPercentage:   5,
			OpacityPercentage:   85,
			CareInstructions:    "Dry clean only",
			WashingTemperature:  0,
			IsPremium:           true,
			IsSustainable:       true,
			IsActive:            true,
			StockQuantity:       150,
			MinimumOrderYards:   dec("1.0"),
			Supplier:            "Silk Luxury Ltd.",
			ColorOptions:        catalog.StringList{"ivory", "black", "navy", "burgundy", "emerald"},
			PatternOptions:      catalog.StringList{"solid", "jacquard"},
		},
		{
			ID:                  fabricID("Performance Polyester"),
			Name:                "Performance Polyester",
			FabricType:          catalog.Polyester,
			Description:         "Moisture-wicking polyester blend for activewear",
			CostPerYard:         dec("8.50"),
			PremiumMultiplier:   dec("1.0"),
			DurabilityScore:     dec("0.85"),
			ComfortScore:        dec("0.7"),
			SustainabilityScore: dec("0.3"),
			WeightGSM:           140,
			StretchPercentage:   25,
			OpacityPercentage:   95,
			CareInstructions:    "Machine wash cold, tumble dry low",
			WashingTemperature:  30,
			IsActive:            true,
			StockQuantity:       1000,
			MinimumOrderYards:   dec("2.0"),
			Supplier:            "SportsTech Fabrics",
			ColorOptions:        catalog.StringList{"black", "white", "navy", "red", "royal blue"},
			PatternOptions:      catalog.StringList{"solid", "mesh"},
		},
		{
			ID:                  fabricID("Merino Wool Blend"),
			Name:                "Merino Wool Blend",
			FabricType:          catalog.Wool,
			Description:         "Soft merino wool blend perfect for sweaters and coats",
			CostPerYard:         dec("32.00"),
			PremiumMultiplier:   dec("1.6"),
			DurabilityScore:     dec("0.9"),
			ComfortScore:        dec("0.85"),
			SustainabilityScore: dec("0.8"),
			WeightGSM:           280,
			StretchPercentage:   10,
			OpacityPercentage:   100,
			CareInstructions:    "Hand wash cold or dry clean",
			WashingTemperature:  20,
			IsPremium:           true,
			IsSustainable:       true,
			IsActive:            true,
			StockQuantity:       200,
			MinimumOrderYards:   dec("2.5"),
			Supplier:            "Alpine Wool Co.",
			ColorOptions:        catalog.StringList{"charcoal", "cream", "camel", "forest", "burgundy"},
			PatternOptions:      catalog.StringList{"solid", "cable knit"},
		},
		{
			ID:                  fabricID("Linen Canvas"),
			Name:                "Linen Canvas",
			FabricType:          catalog.Linen,
			Description:         "Natural linen canvas for summer clothing and accessories",
			CostPerYard:         dec("22.00"),
			PremiumMultiplier:   dec("1.3"),
			DurabilityScore:     dec("0.8"),
			ComfortScore:        dec("0.8"),
			SustainabilityScore: dec("0.9"),
			WeightGSM:           220,
			StretchPercentage:   3,
			OpacityPercentage:   90,
			CareInstructions:    "Machine wash cold, air dry",
			WashingTemperature:  30,
			IsPremium:           true,
			IsSustainable:       true,
			IsActive:            true,
			StockQuantity:       400,
			MinimumOrderYards:   dec("2.0"),
			Supplier:            "Natural Linen Mills",
			ColorOptions:        catalog.StringList{"natural", "white", "navy", "olive", "rust"},
			PatternOptions:      catalog.StringList{"solid", "striped"},
		},
		{
			ID:                  fabricID("Stretch Twill"),
			Name:                "Stretch Twill",
			FabricType:          catalog.Twill,
			Description:         "Cotton twill with elastane for comfortable pants and skirts",
			CostPerYard:         dec("14.25"),
			PremiumMultiplier:   dec("1.1"),
			DurabilityScore:     dec("0.85"),
			ComfortScore:        dec("0.8"),
			SustainabilityScore: dec("0.6"),
			WeightGSM:           240,
			StretchPercentage:   12,
			OpacityPercentage:   100,
			CareInstructions:    "Machine wash warm, tumble dry low",
			WashingTemperature:  40,
			IsActive:            true,
			StockQuantity:       600,
			MinimumOrderYards:   dec("2.5"),
			Supplier:            "Comfort Textiles",
			ColorOptions:        catalog.StringList{"khaki", "black", "navy", "olive", "burgundy"},
			PatternOptions:      catalog.StringList{"solid"},
		},
	}
}

// DefaultPricingFactor is the rate set installed on a fresh database.
func DefaultPricingFactor() catalog.PricingFactor {
	return catalog.PricingFactor{
		ID:                      uuid.NewSHA1(namespace, []byte("pricing-factor:"+defaultPricingFactorName)),
		Name:                    defaultPricingFactorName,
		BaseLaborCost:           dec("18.50"),
		SkilledLaborMultiplier:  dec("1.8"),
		OverheadPercentage:      dec("28"),
		ProfitMarginPercentage:  dec("45"),
		MarketDemandMultiplier:  dec("1.1"),
		SeasonalAdjustment:      dec("1.0"),
		PremiumDesignMultiplier: dec("1.4"),
		CustomFitMultiplier:     dec("1.5"),
		IsActive:                true,
	}
}

// Complexities returns the labor profiles of the clothing types with known
// construction details.
func Complexities() []catalog.ClothingComplexity {
	return []catalog.ClothingComplexity{
		{
			ClothingType: "T-Shirt/Top", BaseComplexityScore: dec("1.0"), LaborHours: dec("2.5"), FabricYardsNeeded: dec("1.5"),
			SkillLevel: catalog.Beginner, SeamCount: 8,
			Description: "Basic t-shirt construction with minimal complexity",
		},
		{
			ClothingType: "Patterned Shirt", BaseComplexityScore: dec("1.8"), LaborHours: dec("4.0"), FabricYardsNeeded: dec("2.5"),
			SkillLevel: catalog.Intermediate, SeamCount: 15, ButtonCount: 8, PocketCount: 1,
			RequiresInterfacing: true,
			Description:         "Button-up shirt with collar and cuffs",
		},
		{
			ClothingType: "Pants/Jeans", BaseComplexityScore: dec("2.2"), LaborHours: dec("5.5"), FabricYardsNeeded: dec("3.0"),
			SkillLevel: catalog.Intermediate, SeamCount: 20, ButtonCount: 1, ZipperCount: 1, PocketCount: 5,
			RequiresInterfacing: true, RequiresSpecialTools: true,
			Description: "Full pants construction with pockets and waistband",
		},
		{
			ClothingType: "Jacket/Blazer", BaseComplexityScore: dec("4.0"), LaborHours: dec("12.0"), FabricYardsNeeded: dec("4.5"),
			SkillLevel: catalog.Advanced, SeamCount: 35, ButtonCount: 4, PocketCount: 4,
			RequiresLining: true, RequiresInterfacing: true, RequiresSpecialTools: true,
			Description: "Structured jacket with lining and multiple construction details",
		},
		{
			ClothingType: "Dress/Tunic", BaseComplexityScore: dec("2.8"), LaborHours: dec("7.0"), FabricYardsNeeded: dec("3.5"),
			SkillLevel: catalog.Intermediate, SeamCount: 18, ZipperCount: 1,
			RequiresInterfacing: true,
			Description:         "Fitted dress with zipper closure",
		},
		{
			ClothingType: "Skirt/Shorts", BaseComplexityScore: dec("1.5"), LaborHours: dec("3.5"), FabricYardsNeeded: dec("2.0"),
			SkillLevel: catalog.Beginner, SeamCount: 12, ButtonCount: 1, ZipperCount: 1, PocketCount: 2,
			RequiresInterfacing: true,
			Description:         "Basic skirt or shorts with waistband",
		},
		{
			ClothingType: "Footwear", BaseComplexityScore: dec("5.0"), LaborHours: dec("15.0"), FabricYardsNeeded: dec("2.0"),
			SkillLevel: catalog.Expert, SeamCount: 25,
			RequiresLining: true, RequiresSpecialTools: true,
			Description: "Shoe construction requiring specialized tools and techniques",
		},
	}
}
