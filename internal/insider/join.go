// Package insider turns raw insider transaction rows into ranked trade
// records: join, derived fields, early gate, company enrichment, market cap
// resolution, final filter and scoring.
package insider

import (
	"github.com/seenimoa/insiderscan/internal/dataset"
	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// Join fans one transaction row out into one record per reporting owner of
// its filing. Transaction values override submission values of the same
// column. A filing without owners still yields one record with empty owner
// fields. Rows without an accession number cannot be joined and yield nil.
func Join(tx dataset.Row, tables *dataset.Tables) []*models.TradeRecord {
	acc := tx[models.ColAccessionNumber]
	if acc == "" {
		return nil
	}

	sub := tables.Submissions[acc]
	owners := tables.Owners[acc]
	if len(owners) == 0 {
		owners = []dataset.Row{nil}
	}

	records := make([]*models.TradeRecord, 0, len(owners))
	for _, owner := range owners {
		fields := make(map[string]string, len(sub)+len(tx)+len(models.OwnerColumns))
		for k, v := range sub {
			fields[k] = v
		}
		for k, v := range tx {
			fields[k] = v
		}
		for _, col := range models.OwnerColumns {
			fields[col] = owner[col]
		}
		records = append(records, &models.TradeRecord{Fields: fields})
	}
	return records
}

// JoinedHeader lists the raw columns of a joined record in first-seen order:
// submission columns, then transaction columns, then owner columns.
func JoinedHeader(tables *dataset.Tables) []string {
	var header []string
	header = utils.AppendUnique(header, tables.SubmissionHeader...)
	header = utils.AppendUnique(header, tables.TransactionHeader...)
	header = utils.AppendUnique(header, models.OwnerColumns...)
	return header
}
