package insider

import (
	"strings"

	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// DefaultYahooSuffixes are tried after any suffix guessed from the issuer name.
var DefaultYahooSuffixes = []string{".L", ".TO", ".PA", ".AS", ".DE", ".SW"}

// suffixRule maps issuer name tokens to the Yahoo exchange suffixes they suggest.
type suffixRule struct {
	tokens   []string
	suffixes []string
}

// Tokens are matched as substrings of the upper-cased name and industry text,
// so short tokens such as "AG" or "SE" also hit inside longer words.
var suffixRules = []suffixRule{
	{[]string{"PLC", "P.L.C", "LTD", "LIMITED"}, []string{".L", ".IR"}},
	{[]string{"S.A.", "S A ", "SOCIEDAD ANONIMA", "SOCIETE ANONYME"}, []string{".PA", ".MC", ".MI"}},
	{[]string{"AG", "GMBH", "KGAA", "SE"}, []string{".DE"}},
	{[]string{"NV", "B.V."}, []string{".AS"}},
	{[]string{"AB"}, []string{".ST"}},
	{[]string{"OYJ"}, []string{".HE"}},
	{[]string{"A/S", "A S "}, []string{".CO", ".OL"}},
	{[]string{"S.P.A", "S P A", "SPA"}, []string{".MI"}},
	{[]string{"S.A.B."}, []string{".MX"}},
}

// CandidateSymbols returns the issuer symbol and the EDGAR tickers with
// their dash variants, upper-cased, unique, in first-seen order.
func CandidateSymbols(r *models.TradeRecord) []string {
	var symbols []string
	symbols = utils.AppendUnique(symbols, utils.SymbolVariants(r.IssuerSymbol())...)
	for _, t := range r.SECTickers {
		symbols = utils.AppendUnique(symbols, utils.SymbolVariants(t)...)
	}
	return symbols
}

// GuessYahooSuffixes proposes exchange suffixes from the issuer name and
// industry description, followed by DefaultYahooSuffixes.
func GuessYahooSuffixes(r *models.TradeRecord) []string {
	text := strings.ToUpper(r.IssuerName() + " " + r.SICDescription)

	var suffixes []string
	for _, rule := range suffixRules {
		for _, tok := range rule.tokens {
			if strings.Contains(text, tok) {
				suffixes = utils.AppendUnique(suffixes, rule.suffixes...)
				break
			}
		}
	}
	return utils.AppendUnique(suffixes, DefaultYahooSuffixes...)
}

// BuildYahooSymbols expands symbols with guessed suffixes, capped at max.
// A symbol that already carries a dot is used as is.
func BuildYahooSymbols(symbols []string, r *models.TradeRecord, max int) []string {
	if max <= 0 {
		return nil
	}
	suffixes := GuessYahooSuffixes(r)

	var out []string
	for _, sym := range symbols {
		if len(out) >= max {
			break
		}
		out = utils.AppendUnique(out, sym)
		if strings.Contains(sym, ".") {
			continue
		}
		for _, suf := range suffixes {
			if len(out) >= max {
				break
			}
			out = utils.AppendUnique(out, sym+suf)
		}
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}
