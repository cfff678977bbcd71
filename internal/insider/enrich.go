package insider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/seenimoa/insiderscan/internal/infra"
	"github.com/seenimoa/insiderscan/internal/provider"
	"github.com/seenimoa/insiderscan/internal/trace"
	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// SECProvider is the registry name of the EDGAR provider.
const SECProvider = "sec"

const sharesOutstandingPath = "$.facts.dei.EntityCommonStockSharesOutstanding.units.shares"

// Observation is one reported value of an XBRL concept.
type Observation struct {
	End   time.Time
	Value float64
}

// CompanyEnricher adds industry, tickers, share count and share count
// reduction from the issuer's EDGAR documents. Documents are fetched at most
// once per issuer and persisted in the file cache.
type CompanyEnricher struct {
	reg    *provider.Registry
	cache  *infra.FileCache
	logger zerolog.Logger
}

// NewCompanyEnricher creates an enricher using the "sec" provider of reg.
func NewCompanyEnricher(reg *provider.Registry, cache *infra.FileCache, logger zerolog.Logger) *CompanyEnricher {
	return &CompanyEnricher{
		reg:    reg,
		cache:  cache,
		logger: logger.With().Str("component", "enrich").Logger(),
	}
}

// Enrich fills SIC, SICDescription, SECTickers, SharesOutstanding and
// ShareCountReductionPct where the documents allow. Failures are logged and
// leave the record as it was.
func (e *CompanyEnricher) Enrich(ctx context.Context, r *models.TradeRecord) {
	cik := r.IssuerCIK()
	if cik == "" {
		return
	}
	ctx, span := trace.StartSpan(ctx, "insider.enrich_company")
	span.SetAttributes(attribute.String("cik", cik))
	defer span.End()

	sub, err := e.document(ctx, "submissions_"+cik, provider.ModelCompanySubmissions, cik)
	if err != nil {
		e.logger.Warn().Err(err).Str("cik", cik).Msg("submissions unavailable")
		return
	}
	ApplySubmissions(r, sub)

	facts, err := e.document(ctx, "facts_"+cik, provider.ModelCompanyFacts, cik)
	if err != nil {
		e.logger.Warn().Err(err).Str("cik", cik).Msg("company facts unavailable")
		return
	}
	ApplyFacts(r, facts)
}

// document returns the decoded JSON document cached under key, fetching it
// from EDGAR on a miss.
func (e *CompanyEnricher) document(ctx context.Context, key string, model provider.ModelType, cik string) (any, error) {
	data, err := e.cache.GetOrFetch(key, func() ([]byte, error) {
		res, err := e.reg.FetchFrom(ctx, SECProvider, model, provider.QueryParams{provider.ParamCIK: cik})
		if err != nil {
			return nil, err
		}
		raw, ok := res.Data.([]byte)
		if !ok {
			return nil, fmt.Errorf("unexpected %s payload %T", model, res.Data)
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return doc, nil
}

// ApplySubmissions copies the industry classification and ticker list of a
// submissions document onto r.
func ApplySubmissions(r *models.TradeRecord, doc any) {
	if v, err := jsonpath.Get("$.sic", doc); err == nil {
		r.SIC = scalarString(v)
	}
	if v, err := jsonpath.Get("$.sicDescription", doc); err == nil {
		r.SICDescription = scalarString(v)
	}
	v, err := jsonpath.Get("$.tickers", doc)
	if err != nil {
		return
	}
	switch t := v.(type) {
	case []any:
		tickers := make([]string, 0, len(t))
		for _, item := range t {
			if s := scalarString(item); s != "" {
				tickers = append(tickers, s)
			}
		}
		r.SECTickers = tickers
	case string:
		r.SECTickers = []string{t}
	}
}

// ApplyFacts sets the latest shares outstanding and the reduction against
// the observation about a year earlier. A document without the concept
// leaves r unchanged.
func ApplyFacts(r *models.TradeRecord, doc any) {
	v, err := jsonpath.Get(sharesOutstandingPath, doc)
	if err != nil {
		return
	}
	items, ok := v.([]any)
	if !ok {
		return
	}
	obs := parseObservations(items)

	latest, ok := Latest(obs)
	if !ok {
		return
	}
	r.SharesOutstanding = models.Float(latest.Value)

	if pct, ok := ReductionPct(obs, latest); ok {
		r.ShareCountReductionPct = models.Float(pct)
	}
}

// Latest returns the observation with the latest end date. On equal dates
// the one seen last wins.
func Latest(obs []Observation) (Observation, bool) {
	var best Observation
	found := false
	for _, o := range obs {
		if !found || !o.End.Before(best.End) {
			best = o
			found = true
		}
	}
	return best, found
}

// Prior returns the latest observation ending at least 365 days before
// latest. On equal dates the first one seen wins.
func Prior(obs []Observation, latest Observation) (Observation, bool) {
	ref := latest.End.AddDate(0, 0, -365)
	var best Observation
	found := false
	for _, o := range obs {
		if o.End.After(ref) {
			continue
		}
		if !found || o.End.After(best.End) {
			best = o
			found = true
		}
	}
	return best, found
}

// ReductionPct is (prior - latest) / prior * 100 rounded to 4 places.
// Positive means the share count shrank.
func ReductionPct(obs []Observation, latest Observation) (float64, bool) {
	prior, ok := Prior(obs, latest)
	if !ok || prior.Value <= 0 {
		return 0, false
	}
	return utils.Round((prior.Value-latest.Value)/prior.Value*100, 4), true
}

// parseObservations keeps items with a parseable end date and a numeric value.
func parseObservations(items []any) []Observation {
	obs := make([]Observation, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		end, ok := m["end"].(string)
		if !ok {
			continue
		}
		t, err := time.Parse(utils.ISODate, end)
		if err != nil {
			continue
		}
		val, err := number(m["val"])
		if err != nil {
			continue
		}
		obs = append(obs, Observation{End: t, Value: val})
	}
	return obs
}

var errNotNumber = errors.New("not a number")

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, errNotNumber
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
