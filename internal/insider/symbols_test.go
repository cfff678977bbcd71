package insider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seenimoa/insiderscan/pkg/models"
)

func TestCandidateSymbols(t *testing.T) {
	r := record(map[string]string{models.ColIssuerSymbol: " brk.b "})
	r.SECTickers = []string{"BRK.B", "BRK.A", "brk-a"}
	assert.Equal(t, []string{"BRK.B", "BRK-B", "BRK.A", "BRK-A"}, CandidateSymbols(r))

	assert.Empty(t, CandidateSymbols(record(nil)))
}

func TestGuessYahooSuffixes(t *testing.T) {
	r := record(map[string]string{models.ColIssuerName: "Shell plc"})
	got := GuessYahooSuffixes(r)
	assert.Equal(t, []string{".L", ".IR", ".TO", ".PA", ".AS", ".DE", ".SW"}, got)

	plain := GuessYahooSuffixes(record(map[string]string{models.ColIssuerName: "Acme Inc"}))
	assert.Equal(t, DefaultYahooSuffixes, plain)
}

func TestBuildYahooSymbols(t *testing.T) {
	r := record(map[string]string{models.ColIssuerName: "Acme Inc"})

	got := BuildYahooSymbols([]string{"ACME", "ACME.WS"}, r, 6)
	assert.Equal(t, []string{"ACME", "ACME.L", "ACME.TO", "ACME.PA", "ACME.AS", "ACME.DE"}, got)

	got = BuildYahooSymbols([]string{"RDS.A", "RDS"}, r, 3)
	assert.Equal(t, []string{"RDS.A", "RDS", "RDS.L"}, got)

	again := BuildYahooSymbols(got, r, 3)
	assert.Equal(t, got[:1], again[:1])
	assert.Len(t, again, 3)

	assert.Nil(t, BuildYahooSymbols([]string{"ACME"}, r, 0))
}
