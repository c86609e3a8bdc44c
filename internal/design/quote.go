package design

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/fabrica/internal/catalog"
	"github.com/Simplici0/fabrica/internal/pricing"
)

// Element is a garment detected in a generated design.
type Element struct {
	ElementID    string
	Name         string
	ClothingType string
	Color        string

	Price              decimal.Decimal
	Fabric             string
	SelectedFabricID   uuid.UUID
	RecommendedFabrics []pricing.Recommendation
}

// Recommender is the part of the ranker the quoter uses.
type Recommender interface {
	Recommend(ctx context.Context, clothingType string, budget *pricing.BudgetRange) []pricing.Recommendation
}

// PriceEstimator is the part of the estimator the quoter uses.
type PriceEstimator interface {
	EstimatePrice(ctx context.Context, fabric catalog.Fabric, clothingType string, override *catalog.ClothingComplexity) decimal.Decimal
}

// Quoter attaches fabric options and a price to design elements before they
// are saved.
type Quoter struct {
	recommender Recommender
	estimator   PriceEstimator
	log         *slog.Logger
}

func NewQuoter(r Recommender, e PriceEstimator, logger *slog.Logger) *Quoter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Quoter{recommender: r, estimator: e, log: logger}
}

// QuoteElements returns a copy of elements with recommendations attached.
// An element with at least one recommendation takes the top fabric and its
// estimated price; the rest keep their incoming price.
func (q *Quoter) QuoteElements(ctx context.Context, elements []Element) []Element {
	quoted := make([]Element, len(elements))
	for i, el := range elements {
		recs := q.recommender.Recommend(ctx, el.ClothingType, nil)
		el.RecommendedFabrics = recs

		if len(recs) > 0 {
			top := recs[0].Fabric
			el.SelectedFabricID = top.ID
			el.Fabric = top.Name
			el.Price = q.estimator.EstimatePrice(ctx, top, el.ClothingType, nil)
		} else {
			q.log.Info("no fabric recommendations for design element",
				"element_id", el.ElementID, "clothing_type", el.ClothingType)
		}
		quoted[i] = el
	}
	return quoted
}
