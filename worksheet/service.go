package worksheet

import (
	"context"
	"fmt"
	"strings"
)

// Service is the remote spreadsheet service.
type Service interface {
	GetSheetByName(ctx context.Context, name string) (*Sheet, error)
	GetSheet(ctx context.Context, id int64) (*Sheet, error)
	UpdateRows(ctx context.Context, sheet *Sheet, rows []Row) error
	SortSheet(ctx context.Context, sheet *Sheet, criterion SortCriterion) (*Sheet, error)
}

type Sheet struct {
	ID      int64
	Name    string
	Columns []Column
	Rows    []Row
}

type Column struct {
	ID    int64
	Index int
	Title string
}

type Row struct {
	ID    int64
	Index int
	Cells []Cell
}

type Cell struct {
	ColumnID     int64
	Value        any
	DisplayValue string
}

type Direction string

const (
	Ascending  Direction = "ASCENDING"
	Descending Direction = "DESCENDING"
)

type SortCriterion struct {
	ColumnID  int64
	Direction Direction
}

// ParseDirection accepts 'ascending'/'descending' or 'asc'/'desc', in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ASCENDING", "ASC":
		return Ascending, nil

	case "DESCENDING", "DESC":
		return Descending, nil

	default:
		return "", fmt.Errorf("%w '%s'", ErrInvalidDirection, s)
	}
}

func (c Cell) String() string {
	if c.DisplayValue != "" {
		return c.DisplayValue
	}

	if c.Value == nil {
		return ""
	}

	return fmt.Sprintf("%v", c.Value)
}
