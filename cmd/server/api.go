package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/fabrica/internal/catalog"
	"github.com/Simplici0/fabrica/internal/design"
	"github.com/Simplici0/fabrica/internal/pricing"
)

const maxBodyBytes = 1 << 20

func init() {
	// Prices and scores go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

func (s *server) routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}).Handler)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/fabrics", s.handleListFabrics)
		r.Get("/fabrics/{id}", s.handleGetFabric)
		r.Get("/fabrics/{id}/price", s.handleFabricPrice)
		r.Get("/fabric-recommendations", s.handleRecommendations)
		r.Get("/clothing-types", s.handleClothingTypes)
		r.Post("/design-elements/quote", s.handleQuoteElements)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Post("/fabrics", s.handleAdminCreateFabric)
			r.Post("/fabrics/{id}/active", s.handleAdminSetFabricActive)
			r.Put("/clothing-complexities", s.handleAdminUpsertComplexity)
			r.Get("/pricing-factors", s.handleAdminListPricingFactors)
			r.Post("/pricing-factors", s.handleAdminCreatePricingFactor)
			r.Post("/pricing-factors/{id}/activate", s.handleAdminActivatePricingFactor)
		})
	})

	return r
}

type recommendationResponse struct {
	FabricID            uuid.UUID          `json:"fabric_id"`
	FabricName          string             `json:"fabric_name"`
	FabricType          catalog.FabricType `json:"fabric_type"`
	Description         string             `json:"description"`
	EstimatedPrice      decimal.Decimal    `json:"estimated_price"`
	PricePerYard        decimal.Decimal    `json:"price_per_yard"`
	RecommendationScore float64            `json:"recommendation_score"`
	IsPremium           bool               `json:"is_premium"`
	IsSustainable       bool               `json:"is_sustainable"`
	SustainabilityScore decimal.Decimal    `json:"sustainability_score"`
	DurabilityScore     decimal.Decimal    `json:"durability_score"`
	ComfortScore        decimal.Decimal    `json:"comfort_score"`
	CareInstructions    string             `json:"care_instructions"`
	ColorOptions        catalog.StringList `json:"color_options"`
	StockQuantity       int                `json:"stock_quantity"`
}

func newRecommendationResponses(recs []pricing.Recommendation) []recommendationResponse {
	out := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		f := rec.Fabric
		colors := f.ColorOptions
		if colors == nil {
			colors = catalog.StringList{}
		}
		out = append(out, recommendationResponse{
			FabricID:            f.ID,
			FabricName:          f.Name,
			FabricType:          f.FabricType,
			Description:         f.Description,
			EstimatedPrice:      rec.EstimatedPrice,
			PricePerYard:        rec.PricePerYard,
			RecommendationScore: rec.Score,
			IsPremium:           f.IsPremium,
			IsSustainable:       f.IsSustainable,
			SustainabilityScore: f.SustainabilityScore,
			DurabilityScore:     f.DurabilityScore,
			ComfortScore:        f.ComfortScore,
			CareInstructions:    f.CareInstructions,
			ColorOptions:        colors,
			StockQuantity:       f.StockQuantity,
		})
	}
	return out
}

type breakdownResponse struct {
	FabricCost   decimal.Decimal `json:"fabric_cost"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
	BasePrice    decimal.Decimal `json:"base_price"`
	WithOverhead decimal.Decimal `json:"with_overhead"`
	WithMargin   decimal.Decimal `json:"with_margin"`
	Total        decimal.Decimal `json:"total"`
}

type quoteResponse struct {
	FabricID          uuid.UUID          `json:"fabric_id"`
	FabricName        string             `json:"fabric_name"`
	ClothingType      string             `json:"clothing_type"`
	Price             decimal.Decimal    `json:"price"`
	PricePerYard      decimal.Decimal    `json:"price_per_yard"`
	Fallback          bool               `json:"fallback"`
	DefaultComplexity bool               `json:"default_complexity"`
	DefaultFactors    bool               `json:"default_factors"`
	Breakdown         *breakdownResponse `json:"breakdown,omitempty"`
}

func newQuoteResponse(f catalog.Fabric, q pricing.Quote) quoteResponse {
	resp := quoteResponse{
		FabricID:          q.FabricID,
		FabricName:        f.Name,
		ClothingType:      q.ClothingType,
		Price:             q.Price,
		PricePerYard:      q.PricePerYard,
		Fallback:          q.Fallback,
		DefaultComplexity: q.DefaultComplexity,
		DefaultFactors:    q.DefaultFactors,
	}
	if b := q.Breakdown; b != nil {
		resp.Breakdown = &breakdownResponse{
			FabricCost:   b.FabricCost.Round(4),
			LaborCost:    b.LaborCost.Round(4),
			BasePrice:    b.BasePrice.Round(4),
			WithOverhead: b.WithOverhead.Round(4),
			WithMargin:   b.WithMargin.Round(4),
			Total:        b.Total,
		}
	}
	return resp
}

type elementRequest struct {
	ElementID    string          `json:"element_id"`
	Name         string          `json:"name"`
	ClothingType string          `json:"clothing_type"`
	Color        string          `json:"color"`
	Price        decimal.Decimal `json:"price"`
}

type elementResponse struct {
	ElementID          string                   `json:"element_id"`
	Name               string                   `json:"name"`
	ClothingType       string                   `json:"clothing_type"`
	Color              string                   `json:"color"`
	Price              decimal.Decimal          `json:"price"`
	Fabric             string                   `json:"fabric"`
	SelectedFabricID   *uuid.UUID               `json:"selected_fabric_id"`
	RecommendedFabrics []recommendationResponse `json:"recommended_fabrics"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.log.Error("health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleListFabrics(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("include_inactive") != "1"

	fabrics, err := s.store.ListFabrics(r.Context(), activeOnly)
	if err != nil {
		s.internalError(w, "failed to load fabrics", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fabrics": fabrics})
}

func (s *server) handleGetFabric(w http.ResponseWriter, r *http.Request) {
	fabric, ok := s.loadFabric(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, fabric)
}

func (s *server) handleFabricPrice(w http.ResponseWriter, r *http.Request) {
	clothingType := strings.TrimSpace(r.URL.Query().Get("clothing_type"))
	if clothingType == "" {
		writeError(w, http.StatusBadRequest, "clothing_type is required")
		return
	}

	fabric, ok := s.loadFabric(w, r)
	if !ok {
		return
	}

	quote := s.estimator.Quote(r.Context(), fabric, clothingType, nil)
	writeJSON(w, http.StatusOK, newQuoteResponse(fabric, quote))
}

func (s *server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	clothingType := strings.TrimSpace(query.Get("clothing_type"))
	if clothingType == "" {
		writeError(w, http.StatusBadRequest, "clothing_type is required")
		return
	}

	budget, err := parseBudget(query.Get("min_budget"), query.Get("max_budget"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	recs := s.ranker.Recommend(r.Context(), clothingType, budget)
	writeJSON(w, http.StatusOK, map[string]any{
		"clothing_type":   clothingType,
		"recommendations": newRecommendationResponses(recs),
	})
}

// parseBudget returns nil when neither bound is given.
func parseBudget(rawMin, rawMax string) (*pricing.BudgetRange, error) {
	rawMin, rawMax = strings.TrimSpace(rawMin), strings.TrimSpace(rawMax)
	if rawMin == "" && rawMax == "" {
		return nil, nil
	}
	if rawMin == "" || rawMax == "" {
		return nil, errors.New("min_budget and max_budget must be given together")
	}

	lo, err := decimal.NewFromString(rawMin)
	if err != nil {
		return nil, errors.New("min_budget must be a number")
	}
	hi, err := decimal.NewFromString(rawMax)
	if err != nil {
		return nil, errors.New("max_budget must be a number")
	}
	return &pricing.BudgetRange{Min: lo, Max: hi}, nil
}

func (s *server) handleClothingTypes(w http.ResponseWriter, r *http.Request) {
	complexities, err := s.store.ListComplexities(r.Context())
	if err != nil {
		s.internalError(w, "failed to load clothing complexities", err)
		return
	}

	known := pricing.KnownClothingTypes()
	labels := make([]string, len(known))
	for i, t := range known {
		labels[i] = t.String()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"clothing_types": labels,
		"complexities":   complexities,
	})
}

func (s *server) handleQuoteElements(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Elements []elementRequest `json:"elements"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	elements := make([]design.Element, len(req.Elements))
	for i, el := range req.Elements {
		elements[i] = design.Element{
			ElementID:    el.ElementID,
			Name:         el.Name,
			ClothingType: el.ClothingType,
			Color:        el.Color,
			Price:        el.Price,
		}
	}

	quoted := s.quoter.QuoteElements(r.Context(), elements)

	out := make([]elementResponse, len(quoted))
	for i, el := range quoted {
		resp := elementResponse{
			ElementID:          el.ElementID,
			Name:               el.Name,
			ClothingType:       el.ClothingType,
			Color:              el.Color,
			Price:              el.Price,
			Fabric:             el.Fabric,
			RecommendedFabrics: newRecommendationResponses(el.RecommendedFabrics),
		}
		if el.SelectedFabricID != uuid.Nil {
			id := el.SelectedFabricID
			resp.SelectedFabricID = &id
		}
		out[i] = resp
	}
	writeJSON(w, http.StatusOK, map[string]any{"elements": out})
}

func (s *server) handleAdminCreateFabric(w http.ResponseWriter, r *http.Request) {
	fabric := catalog.Fabric{
		PremiumMultiplier:   decimal.NewFromInt(1),
		DurabilityScore:     decimal.RequireFromString("0.5"),
		ComfortScore:        decimal.RequireFromString("0.5"),
		SustainabilityScore: decimal.RequireFromString("0.5"),
		OpacityPercentage:   100,
		WashingTemperature:  30,
		IsActive:            true,
		MinimumOrderYards:   decimal.NewFromInt(1),
	}
	if err := decodeJSON(w, r, &fabric); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fabric.ID = uuid.Nil

	if err := s.store.CreateFabric(r.Context(), &fabric); err != nil {
		s.storeError(w, "failed to create fabric", err)
		return
	}
	writeJSON(w, http.StatusCreated, fabric)
}

func (s *server) handleAdminSetFabricActive(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Active == nil {
		writeError(w, http.StatusBadRequest, "active is required")
		return
	}

	if err := s.store.SetFabricActive(r.Context(), id, *req.Active); err != nil {
		s.storeError(w, "failed to update fabric", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": *req.Active})
}

func (s *server) handleAdminUpsertComplexity(w http.ResponseWriter, r *http.Request) {
	var complexity catalog.ClothingComplexity
	if err := decodeJSON(w, r, &complexity); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	complexity.ClothingType = pricing.CanonicalLabel(complexity.ClothingType)

	if err := s.store.UpsertComplexity(r.Context(), &complexity); err != nil {
		s.storeError(w, "failed to save clothing complexity", err)
		return
	}
	writeJSON(w, http.StatusOK, complexity)
}

func (s *server) handleAdminListPricingFactors(w http.ResponseWriter, r *http.Request) {
	factors, err := s.store.ListPricingFactors(r.Context())
	if err != nil {
		s.internalError(w, "failed to load pricing factors", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pricing_factors": factors})
}

func (s *server) handleAdminCreatePricingFactor(w http.ResponseWriter, r *http.Request) {
	factor := catalog.PricingFactor{
		BaseLaborCost:           decimal.NewFromInt(15),
		SkilledLaborMultiplier:  decimal.RequireFromString("1.5"),
		OverheadPercentage:      decimal.NewFromInt(25),
		ProfitMarginPercentage:  decimal.NewFromInt(40),
		MarketDemandMultiplier:  decimal.NewFromInt(1),
		SeasonalAdjustment:      decimal.NewFromInt(1),
		PremiumDesignMultiplier: decimal.RequireFromString("1.2"),
		CustomFitMultiplier:     decimal.RequireFromString("1.3"),
	}
	if err := decodeJSON(w, r, &factor); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	factor.ID = uuid.Nil

	if err := s.store.CreatePricingFactor(r.Context(), &factor); err != nil {
		s.storeError(w, "failed to create pricing factor", err)
		return
	}
	s.invalidateFactors(r)
	writeJSON(w, http.StatusCreated, factor)
}

func (s *server) handleAdminActivatePricingFactor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.store.ActivatePricingFactor(r.Context(), id); err != nil {
		s.storeError(w, "failed to activate pricing factor", err)
		return
	}
	s.invalidateFactors(r)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": true})
}

// invalidateFactors drops the cached active factor after a write. A failure
// only delays visibility until the cache TTL runs out.
func (s *server) invalidateFactors(r *http.Request) {
	if err := s.factors.Invalidate(r.Context()); err != nil {
		s.log.Warn("pricing factor cache invalidation failed", "error", err)
	}
}

func (s *server) loadFabric(w http.ResponseWriter, r *http.Request) (catalog.Fabric, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return catalog.Fabric{}, false
	}

	fabric, err := s.store.GetFabric(r.Context(), id)
	if err != nil {
		s.storeError(w, "failed to load fabric", err)
		return catalog.Fabric{}, false
	}
	return fabric, true
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// storeError maps catalog errors to HTTP statuses.
func (s *server) storeError(w http.ResponseWriter, msg string, err error) {
	var validation *catalog.ValidationError
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Error())
	default:
		s.internalError(w, msg, err)
	}
}

func (s *server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
