package insider

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/seenimoa/insiderscan/internal/provider"
	"github.com/seenimoa/insiderscan/internal/trace"
	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// Registry names of the price providers, in fallback order.
const (
	StooqProvider = "stooq"
	YahooProvider = "yfinance"
	FMPProvider   = "fmp"
)

// Values of TradeRecord.MarketCapSource.
const (
	SourceStooq = "stooq"
	SourceYahoo = "yahoo"
	SourceFMP   = "fmp"
)

// lookup is one (provider, model, symbol) attempt.
type lookup struct {
	provider string
	model    provider.ModelType
	source   string
	symbols  []string
}

// Resolver finds a market capitalization for a record by trying price and
// market cap sources in a fixed order. The first source that answers wins.
type Resolver struct {
	reg             *provider.Registry
	maxYahooSymbols int
	logger          zerolog.Logger
}

// NewResolver creates a resolver over the providers registered in reg.
// Providers that are not registered are skipped.
func NewResolver(reg *provider.Registry, maxYahooSymbols int, logger zerolog.Logger) *Resolver {
	return &Resolver{
		reg:             reg,
		maxYahooSymbols: maxYahooSymbols,
		logger:          logger.With().Str("component", "marketcap").Logger(),
	}
}

// Resolve sets the market cap fields of r. With a known share count it
// first looks for a last price (stooq with plain symbols, then Yahoo with
// suffixed symbols) and multiplies. Otherwise, or when no price is found, it
// asks for a market cap directly (Yahoo with suffixed symbols, then FMP
// with plain symbols). A market cap below the trade value is flagged.
func (res *Resolver) Resolve(ctx context.Context, r *models.TradeRecord) {
	symbols := CandidateSymbols(r)
	if len(symbols) == 0 {
		return
	}
	ctx, span := trace.StartSpan(ctx, "insider.resolve_market_cap")
	defer span.End()

	yahooSymbols := BuildYahooSymbols(symbols, r, res.maxYahooSymbols)

	if r.SharesOutstanding != nil {
		price, source, sym, ok := res.first(ctx,
			lookup{StooqProvider, provider.ModelLastPrice, SourceStooq, symbols},
			lookup{YahooProvider, provider.ModelLastPrice, SourceYahoo, yahooSymbols},
		)
		if ok {
			r.LastCloseUSD = models.Float(price)
			r.MarketCapUSD = models.Float(utils.Round(price**r.SharesOutstanding, 2))
			r.MarketCapSource = source
			r.MarketCapSymbol = sym
			flagSuspicious(r)
			return
		}
	}

	mc, source, sym, ok := res.first(ctx,
		lookup{YahooProvider, provider.ModelMarketCap, SourceYahoo, yahooSymbols},
		lookup{FMPProvider, provider.ModelMarketCap, SourceFMP, symbols},
	)
	if ok {
		r.MarketCapUSD = models.Float(utils.Round(mc, 2))
		r.MarketCapSource = source
		r.MarketCapSymbol = sym
		flagSuspicious(r)
	}
}

// first runs the lookups in order and returns the first value found with
// its source and symbol. Every failure is treated as "no data".
func (res *Resolver) first(ctx context.Context, lookups ...lookup) (float64, string, string, bool) {
	for _, l := range lookups {
		if !res.reg.Has(l.provider) {
			continue
		}
		for _, sym := range l.symbols {
			if ctx.Err() != nil {
				return 0, "", "", false
			}
			result, err := res.reg.FetchFrom(ctx, l.provider, l.model, provider.QueryParams{provider.ParamSymbol: sym})
			if err != nil {
				res.logger.Debug().Err(err).Str("source", l.source).Str("symbol", sym).Msg("lookup failed")
				continue
			}
			v, ok := result.Data.(float64)
			if !ok {
				res.logger.Debug().Str("source", l.source).Str("symbol", sym).Msgf("unexpected payload %T", result.Data)
				continue
			}
			return v, l.source, sym, true
		}
	}
	return 0, "", "", false
}

// flagSuspicious marks a market cap smaller than the trade itself.
func flagSuspicious(r *models.TradeRecord) {
	if r.MarketCapUSD == nil || r.TradeValue == nil {
		return
	}
	if *r.MarketCapUSD < *r.TradeValue {
		r.MarketCapWarning = models.WarnMarketCapBelowTradeValue
	}
}
