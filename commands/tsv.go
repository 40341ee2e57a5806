package commands

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// edit is a cell assignment. The row is the zero-based index of a worksheet row (excluding the
// header) and the column is either a column title or '#<n>'.
type edit struct {
	row    int
	column string
	value  string
}

// edits accumulates repeated --set <row>:<column>=<value> options.
type edits []edit

func (e *edits) String() string {
	list := []string{}
	for _, v := range *e {
		list = append(list, fmt.Sprintf("%v:%v=%v", v.row, v.column, v.value))
	}

	return strings.Join(list, " ")
}

func (e *edits) Set(s string) error {
	if v, err := parseEdit(s); err != nil {
		return err
	} else {
		*e = append(*e, v)
	}

	return nil
}

func parseEdit(s string) (edit, error) {
	match := regexp.MustCompile(`^\s*([0-9]+)\s*:\s*(.+?)\s*=(.*)$`).FindStringSubmatch(s)
	if len(match) < 4 {
		return edit{}, fmt.Errorf("invalid edit '%s' - expected something like '3:Status=done'", s)
	}

	row, err := strconv.Atoi(match[1])
	if err != nil {
		return edit{}, fmt.Errorf("invalid row in edit '%s' (%w)", s, err)
	}

	return edit{
		row:    row,
		column: match[2],
		value:  match[3],
	}, nil
}

// tsvToEdits reads a list of edits from a TSV file with 'row', 'column' and 'value' columns.
func tsvToEdits(f io.Reader) ([]edit, error) {
	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("TSV file is empty")
	}

	// .. header
	index := map[string]int{}
	for i, v := range records[0] {
		k := normalise(v)
		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("duplicate column name '%s'", v)
		}

		index[k] = i
	}

	for _, k := range []string{"row", "column", "value"} {
		if _, ok := index[k]; !ok {
			return nil, fmt.Errorf("missing '%s' column", k)
		}
	}

	// ... edits
	list := []edit{}
	for i, record := range records[1:] {
		line := i + 2
		get := func(k string) string {
			if ix := index[k]; ix < len(record) {
				return record[ix]
			}

			return ""
		}

		if strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}

		row, err := strconv.Atoi(strings.TrimSpace(get("row")))
		if err != nil || row < 0 {
			return nil, fmt.Errorf("invalid row '%s' at line %v", get("row"), line)
		}

		column := strings.TrimSpace(get("column"))
		if column == "" {
			return nil, fmt.Errorf("missing column at line %v", line)
		}

		list = append(list, edit{
			row:    row,
			column: column,
			value:  get("value"),
		})
	}

	return list, nil
}
