package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// CSVPath returns the report file for the given run date.
func CSVPath(outputDir string, date time.Time) string {
	return filepath.Join(outputDir, fmt.Sprintf("insider_trading_%s.csv", date.Format(utils.ISODate)))
}

// WriteCSV writes every record to path with a header line, using ';' as
// field separator, ',' as decimal separator and CRLF line endings. The parent directory is
// created when missing.
func WriteCSV(path string, records []*models.TradeRecord, columns []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = ';'
	w.UseCRLF = true
	if err := w.Write(columns); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(columns))
	for _, r := range records {
		for i, col := range columns {
			row[i] = Value(r, col).CSV()
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
