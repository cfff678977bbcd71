// Package models defines the data structures shared across insiderscan.
package models

import "time"

// Column names of the Form 3/4/5 insider transaction dataset.
const (
	ColAccessionNumber     = "ACCESSION_NUMBER"
	ColFilingDate          = "FILING_DATE"
	ColIssuerCIK           = "ISSUERCIK"
	ColIssuerName          = "ISSUERNAME"
	ColIssuerSymbol        = "ISSUERTRADINGSYMBOL"
	ColSecurityTitle       = "SECURITY_TITLE"
	ColTransDate           = "TRANS_DATE"
	ColTransCode           = "TRANS_CODE"
	ColTransShares         = "TRANS_SHARES"
	ColTransPricePerShare  = "TRANS_PRICEPERSHARE"
	ColTransAcquiredDisp   = "TRANS_ACQUIRED_DISP_CD"
	ColSharesAfter         = "SHRS_OWND_FOLWNG_TRANS"
	ColOwnerCIK            = "RPTOWNERCIK"
	ColOwnerName           = "RPTOWNERNAME"
	ColOwnerRelationship   = "RPTOWNER_RELATIONSHIP"
	ColOwnerTitle          = "RPTOWNER_TITLE"
)

// OwnerColumns are the reporting-owner fields copied onto every joined record.
var OwnerColumns = []string{ColOwnerCIK, ColOwnerName, ColOwnerRelationship, ColOwnerTitle}

// WarnMarketCapBelowTradeValue flags a resolved market cap smaller than the
// trade itself, which usually means the symbol matched the wrong listing.
const WarnMarketCapBelowTradeValue = "market_cap_below_trade_value"

// TradeRecord is one (transaction, reporting owner) pair, filled in stage by
// stage: join, derived fields, enrichment, scoring. Nil pointers mean the
// value is unknown, which is distinct from zero.
type TradeRecord struct {
	// Fields holds the joined raw dataset columns. Transaction values win
	// over submission values on key collision.
	Fields map[string]string `json:"fields"`

	FilingDate      *time.Time `json:"filing_date,omitempty"`
	TransactionDate *time.Time `json:"transaction_date,omitempty"`

	TradeValue          *float64 `json:"trade_value,omitempty"`
	PositionIncreasePct *float64 `json:"position_increase_pct,omitempty"`

	SIC                    string   `json:"sic,omitempty"`
	SICDescription         string   `json:"sic_description,omitempty"`
	SECTickers             []string `json:"sec_tickers,omitempty"`
	SharesOutstanding      *float64 `json:"shares_outstanding,omitempty"`
	ShareCountReductionPct *float64 `json:"share_count_reduction_pct,omitempty"`

	LastCloseUSD     *float64 `json:"last_close_usd,omitempty"`
	MarketCapUSD     *float64 `json:"market_cap_usd,omitempty"`
	MarketCapSource  string   `json:"market_cap_source,omitempty"`
	MarketCapSymbol  string   `json:"market_cap_symbol,omitempty"`
	MarketCapWarning string   `json:"market_cap_warning,omitempty"`

	Score *float64 `json:"score,omitempty"`
}

// Get returns a raw dataset column, or "" when absent.
func (r *TradeRecord) Get(col string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[col]
}

func (r *TradeRecord) AccessionNumber() string  { return r.Get(ColAccessionNumber) }
func (r *TradeRecord) IssuerCIK() string        { return r.Get(ColIssuerCIK) }
func (r *TradeRecord) IssuerName() string       { return r.Get(ColIssuerName) }
func (r *TradeRecord) IssuerSymbol() string     { return r.Get(ColIssuerSymbol) }
func (r *TradeRecord) SecurityTitle() string    { return r.Get(ColSecurityTitle) }
func (r *TradeRecord) TransCode() string        { return r.Get(ColTransCode) }
func (r *TradeRecord) AcquiredDisposed() string { return r.Get(ColTransAcquiredDisp) }

// HasMarketCap reports whether a market capitalization was resolved.
func (r *TradeRecord) HasMarketCap() bool {
	return r.MarketCapUSD != nil
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
