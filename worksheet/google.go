package worksheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	SHEETS = "https://www.googleapis.com/auth/spreadsheets"
	DRIVE  = "https://www.googleapis.com/auth/drive.readonly"
)

// Google implements Service for the worksheets of a single Google Sheets spreadsheet.
type Google struct {
	sheets      *sheets.Service
	drive       *drive.Service
	spreadsheet string
}

type Revision struct {
	ID       string
	Modified time.Time
}

func NewGoogle(ctx context.Context, spreadsheet string, opts ...option.ClientOption) (*Google, error) {
	s, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	d, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	return &Google{
		sheets:      s,
		drive:       d,
		spreadsheet: spreadsheet,
	}, nil
}

func (g *Google) GetSheetByName(ctx context.Context, name string) (*Sheet, error) {
	spreadsheet, err := g.sheets.Spreadsheets.Get(g.spreadsheet).
		Ranges(quote(name)).
		IncludeGridData(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	return getSheet(spreadsheet, name)
}

func (g *Google) GetSheet(ctx context.Context, id int64) (*Sheet, error) {
	spreadsheet, err := g.sheets.Spreadsheets.Get(g.spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil && s.Properties.SheetId == id {
			return g.GetSheetByName(ctx, s.Properties.Title)
		}
	}

	return nil, fmt.Errorf("unable to identify worksheet for sheet ID %v", id)
}

// UpdateRows writes each row as a single value range spanning the updated cells. Cells in the range
// that are not being updated are sent as null, which the service leaves unchanged.
func (g *Google) UpdateRows(ctx context.Context, sheet *Sheet, rows []Row) error {
	data := []*sheets.ValueRange{}

	for _, row := range rows {
		if len(row.Cells) == 0 {
			continue
		}

		left := row.Cells[0].ColumnID
		right := row.Cells[0].ColumnID
		for _, cell := range row.Cells[1:] {
			left = min(left, cell.ColumnID)
			right = max(right, cell.ColumnID)
		}

		values := make([]any, right-left+1)
		for _, cell := range row.Cells {
			if cell.Value == nil {
				values[cell.ColumnID-left] = ""
			} else {
				values[cell.ColumnID-left] = cell.Value
			}
		}

		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%v!%v%v:%v%v", quote(sheet.Name), columnName(left), row.ID+1, columnName(right), row.ID+1),
			Values: [][]any{values},
		})
	}

	if len(data) == 0 {
		return nil
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}

	if _, err := g.sheets.Spreadsheets.Values.BatchUpdate(g.spreadsheet, &rq).Context(ctx).Do(); err != nil {
		return err
	}

	return nil
}

// SortSheet sorts everything below the header row and returns the sorted sheet.
func (g *Google) SortSheet(ctx context.Context, sheet *Sheet, criterion SortCriterion) (*Sheet, error) {
	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				SortRange: &sheets.SortRangeRequest{
					Range: &sheets.GridRange{
						SheetId:         sheet.ID,
						StartRowIndex:   1,
						ForceSendFields: []string{"SheetId"},
					},
					SortSpecs: []*sheets.SortSpec{
						{
							DimensionIndex:  criterion.ColumnID,
							SortOrder:       string(criterion.Direction),
							ForceSendFields: []string{"DimensionIndex"},
						},
					},
				},
			},
		},
		IncludeSpreadsheetInResponse: true,
		ResponseIncludeGridData:      true,
		ResponseRanges:               []string{quote(sheet.Name)},
	}

	response, err := g.sheets.Spreadsheets.BatchUpdate(g.spreadsheet, &rq).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if response.UpdatedSpreadsheet == nil {
		return g.GetSheet(ctx, sheet.ID)
	}

	return getSheet(response.UpdatedSpreadsheet, sheet.Name)
}

// Revision returns the most recent revision of the spreadsheet file.
func (g *Google) Revision(ctx context.Context) (*Revision, error) {
	page := ""
	latest := Revision{}

	for {
		call := g.drive.Revisions.List(g.spreadsheet).Context(ctx)
		if page != "" {
			call.PageToken(page)
		}

		revisions, err := call.Do()
		if err != nil {
			return nil, err
		}

		for _, revision := range revisions.Revisions {
			datetime, err := time.Parse(time.RFC3339, revision.ModifiedTime)
			if err != nil {
				return nil, err
			}

			if latest.Modified.Before(datetime) {
				latest.ID = revision.Id
				latest.Modified = datetime
			}
		}

		if page = revisions.NextPageToken; page == "" {
			break
		}
	}

	if latest.Modified.IsZero() {
		return nil, fmt.Errorf("unable to identify latest revision for file ID %s", g.spreadsheet)
	}

	return &latest, nil
}

// getSheet returns the sheet with the title, preferring an exact match to a case-insensitive one.
func getSheet(spreadsheet *sheets.Spreadsheet, name string) (*Sheet, error) {
	var match *sheets.Sheet

	for _, s := range spreadsheet.Sheets {
		if s.Properties == nil {
			continue
		}

		if s.Properties.Title == name {
			return toSheet(s), nil
		}

		if match == nil && strings.EqualFold(strings.TrimSpace(s.Properties.Title), strings.TrimSpace(name)) {
			match = s
		}
	}

	if match == nil {
		return nil, fmt.Errorf("unable to identify worksheet for '%s'", name)
	}

	return toSheet(match), nil
}

// toSheet converts the grid data of a sheet. The first row of the grid is the header row and
// defines the columns. Rows are padded with empty cells to the number of columns.
func toSheet(s *sheets.Sheet) *Sheet {
	sheet := Sheet{
		ID:      s.Properties.SheetId,
		Name:    s.Properties.Title,
		Columns: []Column{},
		Rows:    []Row{},
	}

	if len(s.Data) == 0 || len(s.Data[0].RowData) == 0 {
		return &sheet
	}

	grid := s.Data[0]

	for i, v := range grid.RowData[0].Values {
		title := ""
		if v != nil {
			title = v.FormattedValue
		}

		sheet.Columns = append(sheet.Columns, Column{
			ID:    grid.StartColumn + int64(i),
			Index: i,
			Title: title,
		})
	}

	for i, data := range grid.RowData[1:] {
		row := Row{
			ID:    grid.StartRow + int64(i) + 1,
			Index: i,
			Cells: make([]Cell, len(sheet.Columns)),
		}

		for j, column := range sheet.Columns {
			row.Cells[j].ColumnID = column.ID

			if data != nil && j < len(data.Values) && data.Values[j] != nil {
				row.Cells[j].Value = value(data.Values[j])
				row.Cells[j].DisplayValue = data.Values[j].FormattedValue
			}
		}

		sheet.Rows = append(sheet.Rows, row)
	}

	return &sheet
}

func value(cell *sheets.CellData) any {
	v := cell.EffectiveValue

	switch {
	case v == nil:
		return nil

	case v.StringValue != nil:
		return *v.StringValue

	case v.NumberValue != nil:
		return *v.NumberValue

	case v.BoolValue != nil:
		return *v.BoolValue

	case v.FormulaValue != nil:
		return *v.FormulaValue

	case v.ErrorValue != nil:
		return v.ErrorValue.Message

	default:
		return nil
	}
}

func quote(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// columnName returns the A1 notation name of a zero-based column index e.g. 0 -> A, 26 -> AA.
func columnName(column int64) string {
	name := ""
	for n := column + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}

	return name
}
