package pricing

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/fabrica/internal/catalog"
)

const (
	// candidateCap bounds how many candidates are priced and scored.
	candidateCap = 8
	// MaxRecommendations is the most fabrics Recommend returns.
	MaxRecommendations = 5
)

// BudgetRange is an inclusive price window.
type BudgetRange struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

func (b BudgetRange) Contains(price decimal.Decimal) bool {
	return b.Min.LessThanOrEqual(price) && price.LessThanOrEqual(b.Max)
}

// Recommendation is a scored fabric for a clothing type.
type Recommendation struct {
	Fabric         catalog.Fabric
	EstimatedPrice decimal.Decimal
	PricePerYard   decimal.Decimal
	Score          float64
}

// Ranker selects and orders fabrics for a clothing type.
type Ranker struct {
	catalog   Catalog
	estimator *Estimator
	log       *slog.Logger
}

func NewRanker(c Catalog, estimator *Estimator, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ranker{catalog: c, estimator: estimator, log: logger}
}

// Recommend returns up to MaxRecommendations fabrics for clothingType, best
// first. When budget is set only fabrics priced inside it are kept. Failures
// yield an empty result.
func (r *Ranker) Recommend(ctx context.Context, clothingType string, budget *BudgetRange) (recs []Recommendation) {
	recs = []Recommendation{}
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("fabric recommendation failed", "clothing_type", clothingType, "panic", p)
			recs = []Recommendation{}
		}
	}()

	kind := ParseClothingType(clothingType)
	candidates, err := r.catalog.SuitableFabrics(ctx, kind.SuitableFabricTypes())
	if err != nil {
		r.log.Error("fabric recommendation failed", "clothing_type", clothingType, "error", err)
		return recs
	}

	price := r.estimator.pricer(ctx, clothingType, nil)

	priced := make([]Recommendation, 0, len(candidates))
	for _, fabric := range candidates {
		q := price(fabric)
		if budget != nil && !budget.Contains(q.Price) {
			continue
		}
		priced = append(priced, Recommendation{
			Fabric:         fabric,
			EstimatedPrice: q.Price,
			PricePerYard:   fabric.CostPerYard,
		})
		if len(priced) == candidateCap {
			break
		}
	}

	for i := range priced {
		priced[i].Score = Score(priced[i].Fabric, kind)
	}
	sort.SliceStable(priced, func(i, j int) bool {
		return priced[i].Score > priced[j].Score
	})

	if len(priced) > MaxRecommendations {
		priced = priced[:MaxRecommendations]
	}
	return priced
}

// Score rates a fabric for a clothing type, capped at 1.0.
func Score(f catalog.Fabric, kind ClothingType) float64 {
	score := kind.TypeAffinity(f.FabricType) * 0.4
	score += f.DurabilityScore.InexactFloat64() * 0.2
	score += f.ComfortScore.InexactFloat64() * 0.2
	score += f.SustainabilityScore.InexactFloat64() * 0.1
	if f.IsPremium {
		score += 0.05
	}
	if f.IsSustainable {
		score += 0.05
	}
	return min(score, 1.0)
}
