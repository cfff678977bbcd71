package insider

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/insiderscan/internal/provider"
	"github.com/seenimoa/insiderscan/pkg/models"
)

type priceSources struct {
	reg        *provider.Registry
	stooq      *fakeFetcher
	yahooPrice *fakeFetcher
	yahooCap   *fakeFetcher
	fmpCap     *fakeFetcher
}

func newPriceSources(t *testing.T, stooq, yahooPrice, yahooCap, fmpCap map[string]any, withFMP bool) *priceSources {
	t.Helper()
	s := &priceSources{reg: provider.NewRegistry()}

	sp := newFakeProvider(StooqProvider)
	s.stooq = sp.serve(provider.ModelLastPrice, provider.ParamSymbol, stooq)
	yp := newFakeProvider(YahooProvider)
	s.yahooPrice = yp.serve(provider.ModelLastPrice, provider.ParamSymbol, yahooPrice)
	s.yahooCap = yp.serve(provider.ModelMarketCap, provider.ParamSymbol, yahooCap)
	register(t, s.reg, sp, yp)

	fp := newFakeProvider(FMPProvider)
	s.fmpCap = fp.serve(provider.ModelMarketCap, provider.ParamSymbol, fmpCap)
	if withFMP {
		register(t, s.reg, fp)
	}
	return s
}

func (s *priceSources) resolver() *Resolver {
	return NewResolver(s.reg, 6, zerolog.Nop())
}

func tradeWithShares(shares float64) *models.TradeRecord {
	r := purchase("100000", "20", "500000")
	Derive(r)
	r.SharesOutstanding = models.Float(shares)
	return r
}

func TestResolveFromStooqPrice(t *testing.T) {
	s := newPriceSources(t, map[string]any{"ACME": 12.345}, nil, nil, nil, true)
	r := tradeWithShares(1_000_000)

	s.resolver().Resolve(context.Background(), r)

	require.NotNil(t, r.MarketCapUSD)
	assert.Equal(t, 12_345_000.0, *r.MarketCapUSD)
	assert.Equal(t, 12.345, *r.LastCloseUSD)
	assert.Equal(t, SourceStooq, r.MarketCapSource)
	assert.Equal(t, "ACME", r.MarketCapSymbol)
	assert.Empty(t, r.MarketCapWarning)

	assert.Empty(t, s.yahooPrice.Calls())
	assert.Empty(t, s.yahooCap.Calls())
	assert.Empty(t, s.fmpCap.Calls())
}

func TestResolveFallsBackToYahooPrice(t *testing.T) {
	s := newPriceSources(t, nil, map[string]any{"ACME.L": 2.5}, nil, nil, true)
	r := tradeWithShares(4_000_000)

	s.resolver().Resolve(context.Background(), r)

	require.NotNil(t, r.MarketCapUSD)
	assert.Equal(t, 10_000_000.0, *r.MarketCapUSD)
	assert.Equal(t, SourceYahoo, r.MarketCapSource)
	assert.Equal(t, "ACME.L", r.MarketCapSymbol)
	assert.Equal(t, []string{"ACME"}, s.stooq.Calls())
	assert.Equal(t, []string{"ACME", "ACME.L"}, s.yahooPrice.Calls())
	assert.Empty(t, s.fmpCap.Calls())
}

func TestResolveWithoutSharesUsesMarketCap(t *testing.T) {
	s := newPriceSources(t, map[string]any{"ACME": 10.0}, nil, nil, map[string]any{"ACME": 1_500_000.0}, true)
	r := purchase("100000", "20", "500000")
	Derive(r)

	s.resolver().Resolve(context.Background(), r)

	assert.Empty(t, s.stooq.Calls(), "no price lookup without a share count")
	assert.Len(t, s.yahooCap.Calls(), 6)
	require.NotNil(t, r.MarketCapUSD)
	assert.Equal(t, 1_500_000.0, *r.MarketCapUSD)
	assert.Nil(t, r.LastCloseUSD)
	assert.Equal(t, SourceFMP, r.MarketCapSource)
	assert.Equal(t, models.WarnMarketCapBelowTradeValue, r.MarketCapWarning)
}

func TestResolveSkipsUnregisteredFMP(t *testing.T) {
	s := newPriceSources(t, nil, nil, nil, map[string]any{"ACME": 1e9}, false)
	r := tradeWithShares(1000)

	s.resolver().Resolve(context.Background(), r)

	assert.Nil(t, r.MarketCapUSD)
	assert.Empty(t, r.MarketCapSource)
	assert.Empty(t, s.fmpCap.Calls())
}

func TestResolveWithoutSymbols(t *testing.T) {
	s := newPriceSources(t, map[string]any{"ACME": 1.0}, nil, nil, nil, true)
	r := record(map[string]string{models.ColIssuerName: "No Ticker Corp"})
	r.SharesOutstanding = models.Float(100)

	s.resolver().Resolve(context.Background(), r)

	assert.Nil(t, r.MarketCapUSD)
	assert.Empty(t, s.stooq.Calls())
}
