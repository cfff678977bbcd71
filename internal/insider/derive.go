package insider

import (
	"math"

	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// Derive fills the row-local fields of r from its raw columns: filing and
// transaction dates, trade value and position increase. Values that cannot
// be parsed stay nil.
func Derive(r *models.TradeRecord) {
	if t, ok := utils.ParseSECDate(r.Get(models.ColFilingDate)); ok {
		r.FilingDate = &t
	}
	if t, ok := utils.ParseSECDate(r.Get(models.ColTransDate)); ok {
		r.TransactionDate = &t
	}

	shares, sharesOK := utils.ParseFloat(r.Get(models.ColTransShares))
	price, priceOK := utils.ParseFloat(r.Get(models.ColTransPricePerShare))
	r.TradeValue = nil
	if sharesOK && priceOK {
		r.TradeValue = models.Float(utils.Round(shares*price, 2))
	}

	r.PositionIncreasePct = nil
	after, afterOK := utils.ParseFloat(r.Get(models.ColSharesAfter))
	if afterOK && sharesOK {
		before := math.Max(after-shares, 0)
		if before > 0 {
			r.PositionIncreasePct = models.Float(utils.Round(shares/before*100, 4))
		}
	}
}
