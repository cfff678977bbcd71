package sec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seenimoa/insiderscan/internal/infra"
	"github.com/seenimoa/insiderscan/internal/provider"
)

// emptyDocument is returned for issuers EDGAR does not know.
var emptyDocument = []byte("{}")

// ---- CompanySubmissions fetcher ----
// Retrieves the submissions document (tickers, SIC, filing history) for a CIK.

type submissionsFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newSubmissionsFetcher(p *Provider) *submissionsFetcher {
	return &submissionsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelCompanySubmissions,
			"SEC company submissions document (tickers, SIC, filings)",
			[]string{provider.ParamCIK},
			nil,
			10*time.Minute, p.pacer,
		),
		p: p,
	}
}

func (f *submissionsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", f.p.dataURL, padCIK(params[provider.ParamCIK]))
	return fetchDocument(ctx, &f.BaseFetcher, f.p, params, url, "submissions")
}

// ---- CompanyFacts fetcher ----
// Retrieves all XBRL facts reported by a CIK.

type companyFactsFetcher struct {
	provider.BaseFetcher
	p *Provider
}

func newCompanyFactsFetcher(p *Provider) *companyFactsFetcher {
	return &companyFactsFetcher{
		BaseFetcher: provider.NewBaseFetcherWithOpts(
			provider.ModelCompanyFacts,
			"SEC XBRL company facts document",
			[]string{provider.ParamCIK},
			nil,
			10*time.Minute, p.pacer,
		),
		p: p,
	}
}

func (f *companyFactsFetcher) Fetch(ctx context.Context, params provider.QueryParams) (*provider.FetchResult, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", f.p.dataURL, padCIK(params[provider.ParamCIK]))
	return fetchDocument(ctx, &f.BaseFetcher, f.p, params, url, "company facts")
}

// fetchDocument returns the raw JSON document at url. A 404 yields an empty
// object; any other failure is returned to the caller.
func fetchDocument(ctx context.Context, b *provider.BaseFetcher, p *Provider, params provider.QueryParams, url, op string) (*provider.FetchResult, error) {
	cacheKey := provider.CacheKey(b.ModelType(), params)
	if cached, ok := b.CacheGet(cacheKey); ok {
		return newCachedResult(cached), nil
	}
	if err := b.Pace(ctx); err != nil {
		return nil, err
	}

	data, err := p.get(ctx, url)
	if err != nil {
		var httpErr *infra.HTTPError
		if !errors.As(err, &httpErr) || !httpErr.NotFound() {
			return nil, wrapErr(op, err)
		}
		p.logger.Debug().Str("cik", params[provider.ParamCIK]).Msgf("%s not found", op)
		data = emptyDocument
	}

	b.CacheSet(cacheKey, data)
	return newResult(data), nil
}
