package insider

import (
	"strings"

	"github.com/seenimoa/insiderscan/internal/config"
	"github.com/seenimoa/insiderscan/pkg/models"
)

// Gate holds the cheap predicates applied before any network lookup. Every
// method is a pure function of the record's raw and derived fields.
type Gate struct {
	TransCode              string
	AcqDispCode            string
	ExcludeTitleKeywords   []string
	MinTradeValueUSD       float64
	MinPositionIncreasePct float64
}

// NewGate builds a gate from configuration.
func NewGate(cfg *config.Config) Gate {
	return Gate{
		TransCode:              cfg.Filters.RequiredTransCode,
		AcqDispCode:            cfg.Filters.RequiredAcqDispCode,
		ExcludeTitleKeywords:   cfg.Filters.ExcludeSecurityTitleKeywords,
		MinTradeValueUSD:       cfg.MinRequirements.MinTradeValueUSD,
		MinPositionIncreasePct: cfg.MinRequirements.MinPositionIncreasePct,
	}
}

// IsOpenMarketPurchase checks the transaction and acquired/disposed codes.
func (g Gate) IsOpenMarketPurchase(r *models.TradeRecord) bool {
	return r.TransCode() == g.TransCode && r.AcquiredDisposed() == g.AcqDispCode
}

// PassesSecurityTitle rejects titles containing an excluded keyword, case-insensitively.
func (g Gate) PassesSecurityTitle(r *models.TradeRecord) bool {
	title := strings.ToLower(r.SecurityTitle())
	for _, kw := range g.ExcludeTitleKeywords {
		if strings.Contains(title, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// IsMaterial requires a known trade value of at least the minimum.
func (g Gate) IsMaterial(r *models.TradeRecord) bool {
	return r.TradeValue != nil && *r.TradeValue >= g.MinTradeValueUSD
}

// PassesPositionIncrease requires a known position increase of at least the minimum.
func (g Gate) PassesPositionIncrease(r *models.TradeRecord) bool {
	return r.PositionIncreasePct != nil && *r.PositionIncreasePct >= g.MinPositionIncreasePct
}

// Pass reports whether all four predicates hold.
func (g Gate) Pass(r *models.TradeRecord) bool {
	return g.IsOpenMarketPurchase(r) &&
		g.PassesSecurityTitle(r) &&
		g.IsMaterial(r) &&
		g.PassesPositionIncrease(r)
}

// MarketCapRule is the capitalization ceiling of the final filter.
type MarketCapRule struct {
	MaxUSD  float64
	Require bool
}

// Pass accepts a market cap at or under the ceiling, or an unknown one
// unless a market cap is required.
func (m MarketCapRule) Pass(r *models.TradeRecord) bool {
	if r.MarketCapUSD == nil {
		return !m.Require
	}
	return *r.MarketCapUSD <= m.MaxUSD
}

// Filter is the final filter: the gate plus the market cap rule.
type Filter struct {
	Gate      Gate
	MarketCap MarketCapRule
}

// NewFilter builds the final filter from configuration.
func NewFilter(cfg *config.Config) Filter {
	return Filter{
		Gate: NewGate(cfg),
		MarketCap: MarketCapRule{
			MaxUSD:  cfg.MinRequirements.MaxMarketCapUSD,
			Require: cfg.MinRequirements.RequireMarketCap,
		},
	}
}

// Pass reports whether r survives the final filter.
func (f Filter) Pass(r *models.TradeRecord) bool {
	return f.Gate.Pass(r) && f.MarketCap.Pass(r)
}
