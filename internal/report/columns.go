// Package report renders ranked trade records: the console table and the
// semicolon separated CSV file.
package report

import (
	"strings"

	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// Computed column names.
const (
	ColScore                  = "score"
	ColTradeValue             = "trade_value"
	ColPositionIncreasePct    = "position_increase_pct"
	ColSharesOutstanding      = "shares_outstanding"
	ColLastCloseUSD           = "last_close_usd"
	ColMarketCapUSD           = "market_cap_usd"
	ColMarketCapSource        = "market_cap_source"
	ColMarketCapSymbol        = "market_cap_symbol"
	ColMarketCapWarning       = "market_cap_warning"
	ColSIC                    = "sic"
	ColSICDescription         = "sic_description"
	ColShareCountReductionPct = "share_count_reduction_pct"
	ColFilingDate             = "filing_date"
	ColTransactionDate        = "transaction_date"
	ColSECTickers             = "sec_tickers"
)

// PreferredColumns lead every report, in this order.
var PreferredColumns = []string{
	ColScore,
	models.ColIssuerSymbol,
	models.ColIssuerName,
	models.ColIssuerCIK,
	models.ColOwnerName,
	models.ColOwnerRelationship,
	models.ColOwnerTitle,
	models.ColTransDate,
	models.ColTransCode,
	models.ColTransAcquiredDisp,
	models.ColTransShares,
	models.ColTransPricePerShare,
	ColTradeValue,
	ColPositionIncreasePct,
	ColSharesOutstanding,
	ColLastCloseUSD,
	ColMarketCapUSD,
	ColMarketCapSource,
	ColMarketCapSymbol,
	ColMarketCapWarning,
	ColSIC,
	ColSICDescription,
	ColShareCountReductionPct,
	models.ColAccessionNumber,
	models.ColFilingDate,
}

// Columns returns the report columns: PreferredColumns, then the remaining
// raw columns in joined header order, then the parsed dates and, when any
// record carries them, the EDGAR tickers. No records means no columns.
func Columns(joinedHeader []string, records []*models.TradeRecord) []string {
	if len(records) == 0 {
		return nil
	}
	cols := utils.AppendUnique(nil, PreferredColumns...)
	cols = utils.AppendUnique(cols, joinedHeader...)
	cols = utils.AppendUnique(cols, ColFilingDate, ColTransactionDate)
	for _, r := range records {
		if len(r.SECTickers) > 0 {
			cols = utils.AppendUnique(cols, ColSECTickers)
			break
		}
	}
	return cols
}

// Cell is one rendered value. Num is set for fractional quantities, whose
// text depends on the output: the table uses a decimal point, the CSV a comma.
type Cell struct {
	Text string
	Num  *float64
}

// Table returns the cell text for the console.
func (c Cell) Table() string {
	if c.Num != nil {
		return utils.FormatFloat(*c.Num)
	}
	return c.Text
}

// CSV returns the cell text for the CSV file.
func (c Cell) CSV() string {
	if c.Num != nil {
		return utils.FormatFloatComma(*c.Num)
	}
	return c.Text
}

// Value returns the cell of r in column col. Unknown values are empty.
func Value(r *models.TradeRecord, col string) Cell {
	switch col {
	case ColScore:
		return num(r.Score)
	case ColTradeValue:
		return num(r.TradeValue)
	case ColPositionIncreasePct:
		return num(r.PositionIncreasePct)
	case ColLastCloseUSD:
		return num(r.LastCloseUSD)
	case ColMarketCapUSD:
		return num(r.MarketCapUSD)
	case ColShareCountReductionPct:
		return num(r.ShareCountReductionPct)
	case ColSharesOutstanding:
		if r.SharesOutstanding == nil {
			return Cell{}
		}
		return Cell{Text: utils.FormatCount(*r.SharesOutstanding)}
	case ColMarketCapSource:
		return Cell{Text: r.MarketCapSource}
	case ColMarketCapSymbol:
		return Cell{Text: r.MarketCapSymbol}
	case ColMarketCapWarning:
		return Cell{Text: r.MarketCapWarning}
	case ColSIC:
		return Cell{Text: r.SIC}
	case ColSICDescription:
		return Cell{Text: r.SICDescription}
	case ColFilingDate:
		if r.FilingDate == nil {
			return Cell{}
		}
		return Cell{Text: r.FilingDate.Format(utils.ISODate)}
	case ColTransactionDate:
		if r.TransactionDate == nil {
			return Cell{}
		}
		return Cell{Text: r.TransactionDate.Format(utils.ISODate)}
	case ColSECTickers:
		return Cell{Text: strings.Join(r.SECTickers, ",")}
	}
	return Cell{Text: r.Get(col)}
}

func num(v *float64) Cell {
	if v == nil {
		return Cell{}
	}
	return Cell{Num: v}
}
