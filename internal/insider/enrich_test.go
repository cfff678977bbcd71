package insider

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/insiderscan/internal/infra"
	"github.com/seenimoa/insiderscan/internal/provider"
	"github.com/seenimoa/insiderscan/pkg/models"
)

const submissionsDoc = `{"cik":"1234","sic":"2834","sicDescription":"Pharmaceutical Preparations","tickers":["ACME","ACME.WS"]}`

const factsDoc = `{"facts":{"dei":{"EntityCommonStockSharesOutstanding":{"units":{"shares":[
	{"end":"2023-06-01","val":120},
	{"end":"2023-09-30","val":115},
	{"end":"not a date","val":1},
	{"end":"2024-06-30","val":100}
]}}}}}`

func decode(t *testing.T, doc string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestApplySubmissions(t *testing.T) {
	r := &models.TradeRecord{}
	ApplySubmissions(r, decode(t, submissionsDoc))
	assert.Equal(t, "2834", r.SIC)
	assert.Equal(t, "Pharmaceutical Preparations", r.SICDescription)
	assert.Equal(t, []string{"ACME", "ACME.WS"}, r.SECTickers)

	r = &models.TradeRecord{}
	ApplySubmissions(r, decode(t, `{"sic":3674,"tickers":"XYZ"}`))
	assert.Equal(t, "3674", r.SIC)
	assert.Equal(t, []string{"XYZ"}, r.SECTickers)

	r = &models.TradeRecord{}
	ApplySubmissions(r, decode(t, `{}`))
	assert.Empty(t, r.SIC)
	assert.Nil(t, r.SECTickers)
}

func TestApplyFactsReduction(t *testing.T) {
	r := &models.TradeRecord{}
	ApplyFacts(r, decode(t, factsDoc))

	require.NotNil(t, r.SharesOutstanding)
	assert.Equal(t, 100.0, *r.SharesOutstanding)
	require.NotNil(t, r.ShareCountReductionPct)
	assert.Equal(t, 16.6667, *r.ShareCountReductionPct)
}

func TestApplyFactsWithoutPriorYear(t *testing.T) {
	r := &models.TradeRecord{}
	ApplyFacts(r, decode(t, `{"facts":{"dei":{"EntityCommonStockSharesOutstanding":{"units":{"shares":[
		{"end":"2024-01-31","val":90},{"end":"2024-06-30","val":100}]}}}}}`))
	require.NotNil(t, r.SharesOutstanding)
	assert.Equal(t, 100.0, *r.SharesOutstanding)
	assert.Nil(t, r.ShareCountReductionPct)

	r = &models.TradeRecord{}
	ApplyFacts(r, decode(t, `{}`))
	assert.Nil(t, r.SharesOutstanding)
}

func TestLatestAndPriorTies(t *testing.T) {
	obs := []Observation{
		{End: day("2023-06-30"), Value: 1},
		{End: day("2023-06-30"), Value: 2},
		{End: day("2024-06-30"), Value: 3},
		{End: day("2024-06-30"), Value: 4},
	}
	latest, ok := Latest(obs)
	require.True(t, ok)
	assert.Equal(t, 4.0, latest.Value, "last of equal latest dates wins")

	prior, ok := Prior(obs, latest)
	require.True(t, ok)
	assert.Equal(t, 1.0, prior.Value, "first of equal prior dates wins")

	_, ok = Latest(nil)
	assert.False(t, ok)
}

func TestReductionPctNegativeWhenShareCountGrew(t *testing.T) {
	obs := []Observation{{End: day("2023-01-01"), Value: 100}, {End: day("2024-01-31"), Value: 110}}
	latest, _ := Latest(obs)
	pct, ok := ReductionPct(obs, latest)
	require.True(t, ok)
	assert.Equal(t, -10.0, pct)
}

func TestCompanyEnricherCachesDocuments(t *testing.T) {
	sec := newFakeProvider(SECProvider)
	subs := sec.serve(provider.ModelCompanySubmissions, provider.ParamCIK, map[string]any{"1234": []byte(submissionsDoc)})
	facts := sec.serve(provider.ModelCompanyFacts, provider.ParamCIK, map[string]any{"1234": []byte(factsDoc)})
	reg := provider.NewRegistry()
	register(t, reg, sec)

	cache := infra.NewFileCache(t.TempDir())
	e := NewCompanyEnricher(reg, cache, zerolog.Nop())

	for i := 0; i < 2; i++ {
		r := purchase("1000", "10", "2000")
		e.Enrich(context.Background(), r)
		assert.Equal(t, "2834", r.SIC)
		require.NotNil(t, r.ShareCountReductionPct)
		assert.Equal(t, 16.6667, *r.ShareCountReductionPct)
	}
	assert.Len(t, subs.Calls(), 1)
	assert.Len(t, facts.Calls(), 1)

	_, err := os.Stat(cache.Path("submissions_1234"))
	assert.NoError(t, err)
	_, err = os.Stat(cache.Path("facts_1234"))
	assert.NoError(t, err)
}

func TestCompanyEnricherFailureLeavesRecord(t *testing.T) {
	sec := newFakeProvider(SECProvider)
	sec.serve(provider.ModelCompanySubmissions, provider.ParamCIK, map[string]any{"1234": errors.New("status 500")})
	facts := sec.serve(provider.ModelCompanyFacts, provider.ParamCIK, map[string]any{})
	reg := provider.NewRegistry()
	register(t, reg, sec)

	cache := infra.NewFileCache(t.TempDir())
	e := NewCompanyEnricher(reg, cache, zerolog.Nop())

	r := purchase("1000", "10", "2000")
	e.Enrich(context.Background(), r)
	assert.Empty(t, r.SIC)
	assert.Nil(t, r.SharesOutstanding)
	assert.Empty(t, facts.Calls())

	_, err := os.Stat(cache.Path("submissions_1234"))
	assert.True(t, os.IsNotExist(err), "failures are not cached")
}
