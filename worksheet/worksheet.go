// Package worksheet implements row, column and cell access to a single worksheet of a remote
// spreadsheet service, with cell edits staged locally and saved as a single batch.
package worksheet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrPendingChanges   = errors.New("worksheet has unsaved changes")
	ErrNoSuchColumn     = errors.New("no such column")
	ErrInvalidRow       = errors.New("invalid row")
	ErrInvalidColumn    = errors.New("invalid column")
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// Worksheet is not safe for concurrent use.
type Worksheet struct {
	service Service
	sheet   *Sheet
	changes map[int]map[int]any
}

// Open fetches the named sheet from the service.
func Open(ctx context.Context, service Service, name string) (*Worksheet, error) {
	sheet, err := service.GetSheetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet '%s' (%w)", name, err)
	}

	return &Worksheet{
		service: service,
		sheet:   sheet,
		changes: map[int]map[int]any{},
	}, nil
}

func (w *Worksheet) ID() int64 {
	return w.sheet.ID
}

func (w *Worksheet) Name() string {
	return w.sheet.Name
}

func (w *Worksheet) NumColumns() int {
	return len(w.sheet.Columns)
}

func (w *Worksheet) NumRows() int {
	return len(w.sheet.Rows)
}

func (w *Worksheet) Column(column int) (*Column, error) {
	if column < 0 || column >= len(w.sheet.Columns) {
		return nil, fmt.Errorf("%w %v", ErrInvalidColumn, column)
	}

	return &w.sheet.Columns[column], nil
}

func (w *Worksheet) ColumnTitle(column int) (string, error) {
	if c, err := w.Column(column); err != nil {
		return "", err
	} else {
		return c.Title, nil
	}
}

// ColumnIndex returns the index of the column with the title. An exact match takes precedence,
// otherwise the last case-insensitive match is used.
func (w *Worksheet) ColumnIndex(title string) (int, error) {
	index := -1

	for i, c := range w.sheet.Columns {
		if c.Title == title {
			return i, nil
		}

		if strings.EqualFold(c.Title, title) {
			index = i
		}
	}

	if index < 0 {
		return -1, fmt.Errorf("%w '%s'", ErrNoSuchColumn, title)
	}

	return index, nil
}

func (w *Worksheet) Row(row int) (*Row, error) {
	if row < 0 || row >= len(w.sheet.Rows) {
		return nil, fmt.Errorf("%w %v", ErrInvalidRow, row)
	}

	return &w.sheet.Rows[row], nil
}

func (w *Worksheet) At(row, column int) (*Cell, error) {
	r, err := w.Row(row)
	if err != nil {
		return nil, err
	}

	if column < 0 || column >= len(r.Cells) {
		return nil, fmt.Errorf("%w %v", ErrInvalidColumn, column)
	}

	return &r.Cells[column], nil
}

func (w *Worksheet) ValueAt(row, column int) (any, error) {
	if cell, err := w.At(row, column); err != nil {
		return nil, err
	} else {
		return cell.Value, nil
	}
}

// AssignValue stages a cell edit. Edits to the same row are merged and the last value assigned to a
// cell replaces any earlier one.
func (w *Worksheet) AssignValue(row, column int, value any) error {
	if _, err := w.At(row, column); err != nil {
		return err
	}

	if changes, ok := w.changes[row]; ok {
		changes[column] = value
	} else {
		w.changes[row] = map[int]any{column: value}
	}

	return nil
}

// Pending returns the number of rows with unsaved changes.
func (w *Worksheet) Pending() int {
	return len(w.changes)
}

// Changes returns a copy of the staged edits, keyed by row and then column.
func (w *Worksheet) Changes() map[int]map[int]any {
	changes := map[int]map[int]any{}
	for row, cells := range w.changes {
		changes[row] = map[int]any{}
		for column, value := range cells {
			changes[row][column] = value
		}
	}

	return changes
}

// Clear discards all unsaved changes.
func (w *Worksheet) Clear() {
	w.changes = map[int]map[int]any{}
}

func (w *Worksheet) Refresh(ctx context.Context) error {
	if len(w.changes) > 0 {
		return fmt.Errorf("cannot refresh (%w)", ErrPendingChanges)
	}

	sheet, err := w.service.GetSheet(ctx, w.sheet.ID)
	if err != nil {
		return fmt.Errorf("failed to refresh sheet '%s' (%w)", w.sheet.Name, err)
	}

	w.sheet = sheet

	return nil
}

// SortBy sorts the sheet on the column with the title.
func (w *Worksheet) SortBy(ctx context.Context, title string, direction Direction) error {
	if len(w.changes) > 0 {
		return fmt.Errorf("cannot sort (%w)", ErrPendingChanges)
	}

	column, err := w.ColumnIndex(title)
	if err != nil {
		return err
	}

	return w.Sort(ctx, column, direction)
}

// Sort sorts the sheet on a single column and replaces the local copy with the sorted sheet.
func (w *Worksheet) Sort(ctx context.Context, column int, direction Direction) error {
	if len(w.changes) > 0 {
		return fmt.Errorf("cannot sort (%w)", ErrPendingChanges)
	}

	if direction != Ascending && direction != Descending {
		return fmt.Errorf("%w '%s'", ErrInvalidDirection, direction)
	}

	c, err := w.Column(column)
	if err != nil {
		return err
	}

	criterion := SortCriterion{
		ColumnID:  c.ID,
		Direction: direction,
	}

	sheet, err := w.service.SortSheet(ctx, w.sheet, criterion)
	if err != nil {
		return fmt.Errorf("failed to sort sheet '%s' (%w)", w.sheet.Name, err)
	}

	w.sheet = sheet

	return nil
}

// Save sends one update per changed row, containing only the changed cells, as a single batch and
// clears the pending changes. The changes are retained if the update fails.
func (w *Worksheet) Save(ctx context.Context) error {
	if len(w.changes) == 0 {
		return nil
	}

	updates, err := w.updates()
	if err != nil {
		return err
	}

	if err := w.service.UpdateRows(ctx, w.sheet, updates); err != nil {
		return fmt.Errorf("failed to update sheet '%s' (%w)", w.sheet.Name, err)
	}

	w.Clear()

	return nil
}

func (w *Worksheet) updates() ([]Row, error) {
	rows := make([]int, 0, len(w.changes))
	for row := range w.changes {
		rows = append(rows, row)
	}

	sort.Ints(rows)

	updates := []Row{}
	for _, row := range rows {
		changes := w.changes[row]
		columns := make([]int, 0, len(changes))
		for column := range changes {
			columns = append(columns, column)
		}

		sort.Ints(columns)

		r, err := w.Row(row)
		if err != nil {
			return nil, err
		}

		update := Row{
			ID:    r.ID,
			Index: r.Index,
			Cells: []Cell{},
		}

		for _, column := range columns {
			cell, err := w.At(row, column)
			if err != nil {
				return nil, err
			}

			update.Cells = append(update.Cells, Cell{
				ColumnID: cell.ColumnID,
				Value:    changes[column],
			})
		}

		updates = append(updates, update)
	}

	return updates, nil
}
