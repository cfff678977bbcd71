package insider

import (
	"math"
	"strings"

	"github.com/seenimoa/insiderscan/internal/config"
	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// componentCap bounds the trade value and position increase ratios.
const componentCap = 3.0

// Scorer computes the composite score of a record.
type Scorer struct {
	Weights                config.Weights
	MinTradeValueUSD       float64
	MinPositionIncreasePct float64
	MaxMarketCapUSD        float64
	IndustryKeywords       []string
	CannibalMinPct         float64
}

// NewScorer builds a scorer from configuration.
func NewScorer(cfg *config.Config) Scorer {
	return Scorer{
		Weights:                cfg.Weights,
		MinTradeValueUSD:       cfg.MinRequirements.MinTradeValueUSD,
		MinPositionIncreasePct: cfg.MinRequirements.MinPositionIncreasePct,
		MaxMarketCapUSD:        cfg.MinRequirements.MaxMarketCapUSD,
		IndustryKeywords:       cfg.Industry.Keywords,
		CannibalMinPct:         cfg.Cannibal.MinReductionPct,
	}
}

// Score returns the weighted sum of the five components, rounded to 4 places.
// Unknown trade value or position increase count as zero.
func (s Scorer) Score(r *models.TradeRecord) float64 {
	var tradeValue, positionInc float64
	if r.TradeValue != nil {
		tradeValue = *r.TradeValue
	}
	if r.PositionIncreasePct != nil {
		positionInc = *r.PositionIncreasePct
	}

	score := math.Min(tradeValue/s.MinTradeValueUSD, componentCap) * s.Weights.TradeValue
	score += math.Min(positionInc/s.MinPositionIncreasePct, componentCap) * s.Weights.PositionIncrease

	if r.MarketCapUSD != nil && *r.MarketCapUSD <= s.MaxMarketCapUSD {
		score += s.Weights.MarketCap
	}
	if s.IndustryMatch(r) {
		score += s.Weights.Industry
	}
	if s.Cannibal(r) {
		score += s.Weights.Cannibal
	}
	return utils.Round(score, 4)
}

// IndustryMatch reports whether the industry description contains a keyword.
func (s Scorer) IndustryMatch(r *models.TradeRecord) bool {
	desc := strings.ToLower(r.SICDescription)
	for _, kw := range s.IndustryKeywords {
		if strings.Contains(desc, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Cannibal reports whether the share count shrank by at least the threshold.
func (s Scorer) Cannibal(r *models.TradeRecord) bool {
	return r.ShareCountReductionPct != nil && *r.ShareCountReductionPct >= s.CannibalMinPct
}
