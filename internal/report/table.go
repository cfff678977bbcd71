package report

import (
	"strings"

	"github.com/seenimoa/insiderscan/pkg/models"
	"github.com/seenimoa/insiderscan/pkg/utils"
)

// Console table limits.
const (
	TableRows    = 25
	TableColumns = 12
	CellWidth    = 22
)

// RenderTable lays out the first rows and columns as a plain text table:
// a header line, a dashed separator and one line per record, cells padded
// to their column width and cut at CellWidth.
func RenderTable(records []*models.TradeRecord, columns []string, rows, cols int) string {
	if rows >= 0 && len(records) > rows {
		records = records[:rows]
	}
	if cols >= 0 && len(columns) > cols {
		columns = columns[:cols]
	}

	cells := make([][]string, len(records))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len([]rune(col))
	}
	for i, r := range records {
		cells[i] = make([]string, len(columns))
		for j, col := range columns {
			text := utils.Truncate(Value(r, col).Table(), CellWidth)
			cells[i][j] = text
			if n := len([]rune(text)); n > widths[j] {
				widths[j] = n
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(joinPadded(columns, widths, " | "))
	sb.WriteByte('\n')

	dashes := make([]string, len(columns))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	sb.WriteString(strings.Join(dashes, "-+-"))

	for _, row := range cells {
		sb.WriteByte('\n')
		sb.WriteString(joinPadded(row, widths, " | "))
	}
	return sb.String()
}

func joinPadded(cells []string, widths []int, sep string) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = c + strings.Repeat(" ", widths[i]-len([]rune(c)))
	}
	return strings.Join(padded, sep)
}
