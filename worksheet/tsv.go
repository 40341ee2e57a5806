package worksheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// WriteTSV writes the column titles and rows of the worksheet as tab separated values. Pending
// changes are not included.
func (w *Worksheet) WriteTSV(f io.Writer) error {
	if len(w.sheet.Columns) == 0 {
		return fmt.Errorf("Empty sheet")
	}

	// ... header
	header := make([]string, len(w.sheet.Columns))
	for i, c := range w.sheet.Columns {
		header[i] = clean(c.Title)
	}

	// ... records
	records := [][]string{}
	for _, row := range w.sheet.Rows {
		record := make([]string, len(header))
		for i, cell := range row.Cells {
			if i < len(record) {
				record[i] = clean(cell.String())
			}
		}

		records = append(records, record)
	}

	// ... write to file
	tsv := csv.NewWriter(f)
	tsv.Comma = '\t'

	tsv.Write(header)
	for _, record := range records {
		tsv.Write(record)
	}

	tsv.Flush()

	return tsv.Error()
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
