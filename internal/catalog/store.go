package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const fabricColumns = `
	id, name, fabric_type, description,
	cost_per_yard, premium_multiplier,
	durability_score, comfort_score, sustainability_score,
	weight_gsm, stretch_percentage, opacity_percentage, washing_temperature,
	care_instructions, is_premium, is_sustainable, is_active,
	stock_quantity, minimum_order_yards, supplier, color_options, pattern_options`

const pricingFactorColumns = `
	id, name, base_labor_cost, skilled_labor_multiplier,
	overhead_percentage, profit_margin_percentage,
	market_demand_multiplier, seasonal_adjustment,
	premium_design_multiplier, custom_fit_multiplier, is_active`

const complexityColumns = `
	clothing_type, base_complexity_score, labor_hours, fabric_yards_needed, skill_level_required,
	seam_count, button_count, zipper_count, pocket_count,
	requires_lining, requires_interfacing, requires_special_tools, description`

// Store is the SQL-backed material catalog.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListFabrics(ctx context.Context, activeOnly bool) ([]Fabric, error) {
	query := `SELECT ` + fabricColumns + ` FROM fabrics`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	fabrics := make([]Fabric, 0)
	if err := s.db.SelectContext(ctx, &fabrics, query); err != nil {
		return nil, fmt.Errorf("query fabrics: %w", err)
	}
	return fabrics, nil
}

func (s *Store) GetFabric(ctx context.Context, id uuid.UUID) (Fabric, error) {
	var f Fabric
	query := s.db.Rebind(`SELECT ` + fabricColumns + ` FROM fabrics WHERE id = ?`)
	if err := s.db.GetContext(ctx, &f, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Fabric{}, ErrNotFound
		}
		return Fabric{}, fmt.Errorf("query fabric %s: %w", id, err)
	}
	return f, nil
}

// SuitableFabrics returns active, in-stock fabrics of the given types, best
// sustainability and durability first.
func (s *Store) SuitableFabrics(ctx context.Context, types []FabricType) ([]Fabric, error) {
	fabrics := make([]Fabric, 0)
	if len(types) == 0 {
		return fabrics, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+fabricColumns+`
		FROM fabrics
		WHERE fabric_type IN (?)
			AND is_active = TRUE
			AND stock_quantity > 0
		ORDER BY sustainability_score DESC, durability_score DESC, name ASC, id ASC
	`, typeStrings(types))
	if err != nil {
		return nil, fmt.Errorf("build suitable fabrics query: %w", err)
	}

	if err := s.db.SelectContext(ctx, &fabrics, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query suitable fabrics: %w", err)
	}
	return fabrics, nil
}

func typeStrings(types []FabricType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

// CreateFabric validates and inserts f, assigning an id when it has none.
func (s *Store) CreateFabric(ctx context.Context, f *Fabric) error {
	if err := f.Validate(); err != nil {
		return &ValidationError{Err: err}
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.ColorOptions == nil {
		f.ColorOptions = StringList{}
	}
	if f.PatternOptions == nil {
		f.PatternOptions = StringList{}
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO fabrics (`+fabricColumns+`)
		VALUES (
			:id, :name, :fabric_type, :description,
			:cost_per_yard, :premium_multiplier,
			:durability_score, :comfort_score, :sustainability_score,
			:weight_gsm, :stretch_percentage, :opacity_percentage, :washing_temperature,
			:care_instructions, :is_premium, :is_sustainable, :is_active,
			:stock_quantity, :minimum_order_yards, :supplier, :color_options, :pattern_options
		)
	`, f)
	if err != nil {
		if isUniqueViolation(err) {
			return &ValidationError{Err: fmt.Errorf("fabric %q already exists", f.Name)}
		}
		return fmt.Errorf("insert fabric: %w", err)
	}
	return nil
}

// SetFabricActive toggles the visibility gate of a fabric.
func (s *Store) SetFabricActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE fabrics
		SET is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`), active, id.String())
	if err != nil {
		return fmt.Errorf("update fabric active flag: %w", err)
	}
	return requireAffected(result)
}

func (s *Store) GetComplexity(ctx context.Context, clothingType string) (ClothingComplexity, error) {
	var c ClothingComplexity
	query := s.db.Rebind(`SELECT ` + complexityColumns + ` FROM clothing_complexities WHERE clothing_type = ?`)
	if err := s.db.GetContext(ctx, &c, query, clothingType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ClothingComplexity{}, ErrNotFound
		}
		return ClothingComplexity{}, fmt.Errorf("query clothing complexity %q: %w", clothingType, err)
	}
	return c, nil
}

func (s *Store) ListComplexities(ctx context.Context) ([]ClothingComplexity, error) {
	complexities := make([]ClothingComplexity, 0)
	query := `SELECT ` + complexityColumns + ` FROM clothing_complexities ORDER BY clothing_type ASC`
	if err := s.db.SelectContext(ctx, &complexities, query); err != nil {
		return nil, fmt.Errorf("query clothing complexities: %w", err)
	}
	return complexities, nil
}

// UpsertComplexity inserts c or replaces the record with the same clothing type.
func (s *Store) UpsertComplexity(ctx context.Context, c *ClothingComplexity) error {
	if err := c.Validate(); err != nil {
		return &ValidationError{Err: err}
	}

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO clothing_complexities (`+complexityColumns+`)
		VALUES (
			:clothing_type, :base_complexity_score, :labor_hours, :fabric_yards_needed, :skill_level_required,
			:seam_count, :button_count, :zipper_count, :pocket_count,
			:requires_lining, :requires_interfacing, :requires_special_tools, :description
		)
		ON CONFLICT (clothing_type) DO UPDATE SET
			base_complexity_score = excluded.base_complexity_score,
			labor_hours = excluded.labor_hours,
			fabric_yards_needed = excluded.fabric_yards_needed,
			skill_level_required = excluded.skill_level_required,
			seam_count = excluded.seam_count,
			button_count = excluded.button_count,
			zipper_count = excluded.zipper_count,
			pocket_count = excluded.pocket_count,
			requires_lining = excluded.requires_lining,
			requires_interfacing = excluded.requires_interfacing,
			requires_special_tools = excluded.requires_special_tools,
			description = excluded.description,
			updated_at = CURRENT_TIMESTAMP
	`, c)
	if err != nil {
		return fmt.Errorf("upsert clothing complexity: %w", err)
	}
	return nil
}

// ActivePricingFactor returns the single active pricing factor, or ErrNotFound.
func (s *Store) ActivePricingFactor(ctx context.Context) (PricingFactor, error) {
	var p PricingFactor
	query := `SELECT ` + pricingFactorColumns + ` FROM pricing_factors WHERE is_active = TRUE LIMIT 1`
	if err := s.db.GetContext(ctx, &p, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PricingFactor{}, ErrNotFound
		}
		return PricingFactor{}, fmt.Errorf("query active pricing factor: %w", err)
	}
	return p, nil
}

func (s *Store) ListPricingFactors(ctx context.Context) ([]PricingFactor, error) {
	factors := make([]PricingFactor, 0)
	query := `SELECT ` + pricingFactorColumns + ` FROM pricing_factors ORDER BY name ASC`
	if err := s.db.SelectContext(ctx, &factors, query); err != nil {
		return nil, fmt.Errorf("query pricing factors: %w", err)
	}
	return factors, nil
}

// CreatePricingFactor inserts p. The first factor ever created becomes active;
// later ones are created inactive and must be switched on with ActivatePricingFactor.
func (s *Store) CreatePricingFactor(ctx context.Context, p *PricingFactor) error {
	if err := p.Validate(); err != nil {
		return &ValidationError{Err: err}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pricing factor transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM pricing_factors`); err != nil {
		return fmt.Errorf("count pricing factors: %w", err)
	}
	p.IsActive = count == 0

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO pricing_factors (`+pricingFactorColumns+`)
		VALUES (
			:id, :name, :base_labor_cost, :skilled_labor_multiplier,
			:overhead_percentage, :profit_margin_percentage,
			:market_demand_multiplier, :seasonal_adjustment,
			:premium_design_multiplier, :custom_fit_multiplier, :is_active
		)
	`, p); err != nil {
		if isUniqueViolation(err) {
			return &ValidationError{Err: fmt.Errorf("pricing factor %q already exists", p.Name)}
		}
		return fmt.Errorf("insert pricing factor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit pricing factor transaction: %w", err)
	}
	return nil
}

// ActivatePricingFactor makes id the only active pricing factor.
func (s *Store) ActivatePricingFactor(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activation transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT EXISTS(SELECT 1 FROM pricing_factors WHERE id = ?)`), id.String()); err != nil {
		return fmt.Errorf("check pricing factor existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE pricing_factors
		SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE id <> ? AND is_active = TRUE
	`), id.String()); err != nil {
		return fmt.Errorf("deactivate pricing factors: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE pricing_factors
		SET is_active = TRUE, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`), id.String()); err != nil {
		return fmt.Errorf("activate pricing factor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit activation transaction: %w", err)
	}
	return nil
}

// ValidationError wraps a rejected input.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
