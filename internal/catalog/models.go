package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a catalog record does not exist.
var ErrNotFound = errors.New("catalog: not found")

// FabricType tags a fabric with its material family.
type FabricType string

const (
	Cotton    FabricType = "cotton"
	Silk      FabricType = "silk"
	Wool      FabricType = "wool"
	Linen     FabricType = "linen"
	Polyester FabricType = "polyester"
	Nylon     FabricType = "nylon"
	Rayon     FabricType = "rayon"
	Denim     FabricType = "denim"
	Jersey    FabricType = "jersey"
	Chiffon   FabricType = "chiffon"
	Twill     FabricType = "twill"
	Canvas    FabricType = "canvas"
	Leather   FabricType = "leather"
	Bamboo    FabricType = "bamboo"
	Modal     FabricType = "modal"
	Crepe     FabricType = "crepe"
	Velvet    FabricType = "velvet"
	Corduroy  FabricType = "corduroy"
	Fleece    FabricType = "fleece"
	Satin     FabricType = "satin"
)

var fabricTypes = map[FabricType]struct{}{
	Cotton: {}, Silk: {}, Wool: {}, Linen: {}, Polyester: {},
	Nylon: {}, Rayon: {}, Denim: {}, Jersey: {}, Chiffon: {},
	Twill: {}, Canvas: {}, Leather: {}, Bamboo: {}, Modal: {},
	Crepe: {}, Velvet: {}, Corduroy: {}, Fleece: {}, Satin: {},
}

// Valid reports whether t is one of the known fabric types.
func (t FabricType) Valid() bool {
	_, ok := fabricTypes[t]
	return ok
}

// SkillLevel is the construction skill a clothing type requires.
type SkillLevel string

const (
	Beginner     SkillLevel = "beginner"
	Intermediate SkillLevel = "intermediate"
	Advanced     SkillLevel = "advanced"
	Expert       SkillLevel = "expert"
)

func (s SkillLevel) Valid() bool {
	switch s {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

// StringList is a JSON-encoded list column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringList: Scan failed, expected []byte or string but got %T", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, (*[]string)(l))
}

// Fabric is a purchasable material SKU.
type Fabric struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	FabricType  FabricType `db:"fabric_type" json:"fabric_type"`
	Description string     `db:"description" json:"description"`

	CostPerYard       decimal.Decimal `db:"cost_per_yard" json:"cost_per_yard"`
	PremiumMultiplier decimal.Decimal `db:"premium_multiplier" json:"premium_multiplier"`

	DurabilityScore     decimal.Decimal `db:"durability_score" json:"durability_score"`
	ComfortScore        decimal.Decimal `db:"comfort_score" json:"comfort_score"`
	SustainabilityScore decimal.Decimal `db:"sustainability_score" json:"sustainability_score"`

	WeightGSM          int `db:"weight_gsm" json:"weight_gsm"`
	StretchPercentage  int `db:"stretch_percentage" json:"stretch_percentage"`
	OpacityPercentage  int `db:"opacity_percentage" json:"opacity_percentage"`
	WashingTemperature int `db:"washing_temperature" json:"washing_temperature"`

	CareInstructions string `db:"care_instructions" json:"care_instructions"`

	IsPremium     bool `db:"is_premium" json:"is_premium"`
	IsSustainable bool `db:"is_sustainable" json:"is_sustainable"`
	IsActive      bool `db:"is_active" json:"is_active"`

	StockQuantity     int             `db:"stock_quantity" json:"stock_quantity"`
	MinimumOrderYards decimal.Decimal `db:"minimum_order_yards" json:"minimum_order_yards"`

	Supplier       string     `db:"supplier" json:"supplier"`
	ColorOptions   StringList `db:"color_options" json:"color_options"`
	PatternOptions StringList `db:"pattern_options" json:"pattern_options"`
}

// Validate checks the fabric's attribute ranges.
func (f *Fabric) Validate() error {
	one := decimal.NewFromInt(1)
	switch {
	case f.Name == "":
		return errors.New("name is required")
	case !f.FabricType.Valid():
		return fmt.Errorf("unknown fabric_type %q", f.FabricType)
	case !f.CostPerYard.IsPositive():
		return errors.New("cost_per_yard must be greater than 0")
	case f.PremiumMultiplier.IsNegative():
		return errors.New("premium_multiplier must be greater than or equal to 0")
	case !inUnitRange(f.DurabilityScore, one):
		return errors.New("durability_score must be between 0 and 1")
	case !inUnitRange(f.ComfortScore, one):
		return errors.New("comfort_score must be between 0 and 1")
	case !inUnitRange(f.SustainabilityScore, one):
		return errors.New("sustainability_score must be between 0 and 1")
	case f.StretchPercentage < 0:
		return errors.New("stretch_percentage must be greater than or equal to 0")
	case f.OpacityPercentage < 0 || f.OpacityPercentage > 100:
		return errors.New("opacity_percentage must be between 0 and 100")
	case f.StockQuantity < 0:
		return errors.New("stock_quantity must be greater than or equal to 0")
	case f.MinimumOrderYards.IsNegative():
		return errors.New("minimum_order_yards must be greater than or equal to 0")
	}
	return nil
}

func inUnitRange(v, upper decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(upper)
}

// PricingFactor is the global set of business multipliers. At most one is active.
type PricingFactor struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`

	BaseLaborCost          decimal.Decimal `db:"base_labor_cost" json:"base_labor_cost"`
	SkilledLaborMultiplier decimal.Decimal `db:"skilled_labor_multiplier" json:"skilled_labor_multiplier"`

	OverheadPercentage     decimal.Decimal `db:"overhead_percentage" json:"overhead_percentage"`
	ProfitMarginPercentage decimal.Decimal `db:"profit_margin_percentage" json:"profit_margin_percentage"`

	MarketDemandMultiplier decimal.Decimal `db:"market_demand_multiplier" json:"market_demand_multiplier"`
	SeasonalAdjustment     decimal.Decimal `db:"seasonal_adjustment" json:"seasonal_adjustment"`

	PremiumDesignMultiplier decimal.Decimal `db:"premium_design_multiplier" json:"premium_design_multiplier"`
	CustomFitMultiplier     decimal.Decimal `db:"custom_fit_multiplier" json:"custom_fit_multiplier"`

	IsActive bool `db:"is_active" json:"is_active"`
}

func (p *PricingFactor) Validate() error {
	hundred := decimal.NewFromInt(100)
	switch {
	case p.Name == "":
		return errors.New("name is required")
	case p.BaseLaborCost.IsNegative():
		return errors.New("base_labor_cost must be greater than or equal to 0")
	case !inUnitRange(p.OverheadPercentage, hundred):
		return errors.New("overhead_percentage must be between 0 and 100")
	case !inUnitRange(p.ProfitMarginPercentage, hundred):
		return errors.New("profit_margin_percentage must be between 0 and 100")
	case p.SkilledLaborMultiplier.IsNegative(),
		p.MarketDemandMultiplier.IsNegative(),
		p.SeasonalAdjustment.IsNegative(),
		p.PremiumDesignMultiplier.IsNegative(),
		p.CustomFitMultiplier.IsNegative():
		return errors.New("multipliers must be greater than or equal to 0")
	}
	return nil
}

// ClothingComplexity is the labor and material profile of a clothing type.
type ClothingComplexity struct {
	ClothingType        string          `db:"clothing_type" json:"clothing_type"`
	BaseComplexityScore decimal.Decimal `db:"base_complexity_score" json:"base_complexity_score"`
	LaborHours          decimal.Decimal `db:"labor_hours" json:"labor_hours"`
	FabricYardsNeeded   decimal.Decimal `db:"fabric_yards_needed" json:"fabric_yards_needed"`
	SkillLevel          SkillLevel      `db:"skill_level_required" json:"skill_level_required"`

	// Construction details are informational and not priced.
	SeamCount   int `db:"seam_count" json:"seam_count"`
	ButtonCount int `db:"button_count" json:"button_count"`
	ZipperCount int `db:"zipper_count" json:"zipper_count"`
	PocketCount int `db:"pocket_count" json:"pocket_count"`

	RequiresLining       bool `db:"requires_lining" json:"requires_lining"`
	RequiresInterfacing  bool `db:"requires_interfacing" json:"requires_interfacing"`
	RequiresSpecialTools bool `db:"requires_special_tools" json:"requires_special_tools"`

	Description string `db:"description" json:"description"`
}

func (c *ClothingComplexity) Validate() error {
	switch {
	case c.ClothingType == "":
		return errors.New("clothing_type is required")
	case c.BaseComplexityScore.IsNegative():
		return errors.New("base_complexity_score must be greater than or equal to 0")
	case !c.LaborHours.IsPositive():
		return errors.New("labor_hours must be greater than 0")
	case !c.FabricYardsNeeded.IsPositive():
		return errors.New("fabric_yards_needed must be greater than 0")
	case !c.SkillLevel.Valid():
		return fmt.Errorf("unknown skill_level_required %q", c.SkillLevel)
	case c.SeamCount < 0 || c.ButtonCount < 0 || c.ZipperCount < 0 || c.PocketCount < 0:
		return errors.New("construction counts must be greater than or equal to 0")
	}
	return nil
}
