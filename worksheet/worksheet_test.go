package worksheet

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	sheet    *Sheet
	sorted   *Sheet
	updates  [][]Row
	criteria []SortCriterion
	fetched  []int64
	err      error
}

func (s *stub) GetSheetByName(ctx context.Context, name string) (*Sheet, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.sheet, nil
}

func (s *stub) GetSheet(ctx context.Context, id int64) (*Sheet, error) {
	s.fetched = append(s.fetched, id)
	if s.err != nil {
		return nil, s.err
	}

	return s.sheet, nil
}

func (s *stub) UpdateRows(ctx context.Context, sheet *Sheet, rows []Row) error {
	if s.err != nil {
		return s.err
	}

	s.updates = append(s.updates, rows)

	return nil
}

func (s *stub) SortSheet(ctx context.Context, sheet *Sheet, criterion SortCriterion) (*Sheet, error) {
	if s.err != nil {
		return nil, s.err
	}

	s.criteria = append(s.criteria, criterion)

	if s.sorted != nil {
		return s.sorted, nil
	}

	return s.sheet, nil
}

func testSheet() *Sheet {
	return &Sheet{
		ID:   405,
		Name: "Tasks",
		Columns: []Column{
			{ID: 1001, Index: 0, Title: "Task"},
			{ID: 1002, Index: 1, Title: "Owner"},
			{ID: 1003, Index: 2, Title: "STATUS"},
			{ID: 1004, Index: 3, Title: "Status"},
			{ID: 1005, Index: 4, Title: "Due"},
		},
		Rows: []Row{
			{ID: 2001, Index: 0, Cells: []Cell{{1001, "Unlock gate", ""}, {1002, "Ernie", ""}, {1003, "open", ""}, {1004, "open", ""}, {1005, 45000.0, "2023-03-15"}}},
			{ID: 2002, Index: 1, Cells: []Cell{{1001, "Feed dragon", ""}, {1002, "Bert", ""}, {1003, "done", ""}, {1004, "done", ""}, {1005, nil, ""}}},
			{ID: 2003, Index: 2, Cells: []Cell{{1001, "Polish tower", ""}, {1002, "Ernie", ""}, {1003, "open", ""}, {1004, "open", ""}, {1005, nil, ""}}},
		},
	}
}

func open(t *testing.T, s *stub) *Worksheet {
	t.Helper()

	if s.sheet == nil {
		s.sheet = testSheet()
	}

	w, err := Open(context.Background(), s, "Tasks")
	require.NoError(t, err)

	return w
}

func TestOpen(t *testing.T) {
	w := open(t, &stub{})

	assert.Equal(t, int64(405), w.ID())
	assert.Equal(t, "Tasks", w.Name())
	assert.Equal(t, 5, w.NumColumns())
	assert.Equal(t, 3, w.NumRows())
	assert.Equal(t, 0, w.Pending())
}

func TestOpenWithServiceError(t *testing.T) {
	ErrRemote := errors.New("remote error")

	_, err := Open(context.Background(), &stub{err: ErrRemote}, "Tasks")

	assert.ErrorIs(t, err, ErrRemote)
}

func TestColumn(t *testing.T) {
	w := open(t, &stub{})

	column, err := w.Column(1)
	require.NoError(t, err)
	assert.Equal(t, Column{ID: 1002, Index: 1, Title: "Owner"}, *column)

	title, err := w.ColumnTitle(4)
	require.NoError(t, err)
	assert.Equal(t, "Due", title)

	_, err = w.Column(5)
	assert.ErrorIs(t, err, ErrInvalidColumn)

	_, err = w.ColumnTitle(-1)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestColumnIndex(t *testing.T) {
	w := open(t, &stub{})

	tests := []struct {
		title    string
		expected int
	}{
		{"Task", 0},
		{"task", 0},
		{"OWNER", 1},
		{"STATUS", 2},
		{"Status", 3},
		{"status", 3},
	}

	for _, test := range tests {
		index, err := w.ColumnIndex(test.title)

		require.NoError(t, err)
		assert.Equal(t, test.expected, index, "column '%s'", test.title)
	}

	_, err := w.ColumnIndex("Priority")
	assert.ErrorIs(t, err, ErrNoSuchColumn)
}

func TestAt(t *testing.T) {
	w := open(t, &stub{})

	cell, err := w.At(0, 4)
	require.NoError(t, err)
	assert.Equal(t, Cell{ColumnID: 1005, Value: 45000.0, DisplayValue: "2023-03-15"}, *cell)

	value, err := w.ValueAt(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Feed dragon", value)

	_, err = w.At(3, 0)
	assert.ErrorIs(t, err, ErrInvalidRow)

	_, err = w.ValueAt(0, 5)
	assert.ErrorIs(t, err, ErrInvalidColumn)
}

func TestAssignValue(t *testing.T) {
	w := open(t, &stub{})

	require.NoError(t, w.AssignValue(1, 2, "open"))
	require.NoError(t, w.AssignValue(1, 1, "Ernie"))
	require.NoError(t, w.AssignValue(1, 2, "blocked"))
	require.NoError(t, w.AssignValue(2, 0, "Polish gate"))

	expected := map[int]map[int]any{
		1: {1: "Ernie", 2: "blocked"},
		2: {0: "Polish gate"},
	}

	assert.Equal(t, 2, w.Pending())
	assert.Equal(t, expected, w.Changes())

	// ... unchanged until saved
	value, err := w.ValueAt(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "done", value)
}

func TestAssignValueWithInvalidCell(t *testing.T) {
	w := open(t, &stub{})

	assert.ErrorIs(t, w.AssignValue(3, 0, "x"), ErrInvalidRow)
	assert.ErrorIs(t, w.AssignValue(0, 7, "x"), ErrInvalidColumn)
	assert.Equal(t, 0, w.Pending())
}

func TestClear(t *testing.T) {
	w := open(t, &stub{})

	require.NoError(t, w.AssignValue(0, 0, "x"))
	w.Clear()

	assert.Equal(t, 0, w.Pending())
	assert.NoError(t, w.Refresh(context.Background()))
}

func TestSave(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	require.NoError(t, w.AssignValue(2, 4, "2023-04-01"))
	require.NoError(t, w.AssignValue(0, 2, "done"))
	require.NoError(t, w.AssignValue(2, 1, "Bert"))
	require.NoError(t, w.AssignValue(0, 2, "closed"))

	require.NoError(t, w.Save(context.Background()))

	expected := [][]Row{
		{
			{ID: 2001, Index: 0, Cells: []Cell{{ColumnID: 1003, Value: "closed"}}},
			{ID: 2003, Index: 2, Cells: []Cell{{ColumnID: 1002, Value: "Bert"}, {ColumnID: 1005, Value: "2023-04-01"}}},
		},
	}

	assert.Equal(t, expected, s.updates)
	assert.Equal(t, 0, w.Pending())
}

func TestSaveWithoutChanges(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	require.NoError(t, w.Save(context.Background()))
	assert.Empty(t, s.updates)
}

func TestSaveWithServiceError(t *testing.T) {
	ErrRemote := errors.New("remote error")

	s := stub{}
	w := open(t, &s)

	require.NoError(t, w.AssignValue(0, 0, "x"))

	s.err = ErrRemote

	assert.ErrorIs(t, w.Save(context.Background()), ErrRemote)
	assert.Equal(t, 1, w.Pending())
}

func TestRefresh(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	s.sheet = &Sheet{ID: 405, Name: "Tasks"}

	require.NoError(t, w.Refresh(context.Background()))

	assert.Equal(t, []int64{405}, s.fetched)
	assert.Equal(t, 0, w.NumRows())
}

func TestRefreshWithPendingChanges(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	require.NoError(t, w.AssignValue(0, 0, "x"))

	assert.ErrorIs(t, w.Refresh(context.Background()), ErrPendingChanges)
	assert.Empty(t, s.fetched)
}

func TestRefreshAfterSave(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	require.NoError(t, w.AssignValue(0, 0, "x"))
	require.NoError(t, w.Save(context.Background()))

	assert.NoError(t, w.Refresh(context.Background()))
}

func TestSort(t *testing.T) {
	sorted := testSheet()
	sorted.Rows[0], sorted.Rows[2] = sorted.Rows[2], sorted.Rows[0]

	s := stub{sorted: sorted}
	w := open(t, &s)

	require.NoError(t, w.Sort(context.Background(), 1, Descending))

	assert.Equal(t, []SortCriterion{{ColumnID: 1002, Direction: Descending}}, s.criteria)

	value, err := w.ValueAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Polish tower", value)
}

func TestSortBy(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	require.NoError(t, w.SortBy(context.Background(), "Task", Ascending))
	require.NoError(t, w.SortBy(context.Background(), "due", Descending))
	require.NoError(t, w.SortBy(context.Background(), "status", Ascending))

	expected := []SortCriterion{
		{ColumnID: 1001, Direction: Ascending},
		{ColumnID: 1005, Direction: Descending},
		{ColumnID: 1004, Direction: Ascending},
	}

	assert.Equal(t, expected, s.criteria)
}

func TestSortByWithUnknownColumn(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	assert.ErrorIs(t, w.SortBy(context.Background(), "Priority", Ascending), ErrNoSuchColumn)
	assert.Empty(t, s.criteria)
}

func TestSortWithInvalidArgs(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	assert.ErrorIs(t, w.Sort(context.Background(), 5, Ascending), ErrInvalidColumn)
	assert.ErrorIs(t, w.Sort(context.Background(), 0, Direction("SIDEWAYS")), ErrInvalidDirection)
	assert.Empty(t, s.criteria)
}

func TestSortWithPendingChanges(t *testing.T) {
	s := stub{}
	w := open(t, &s)

	require.NoError(t, w.AssignValue(0, 0, "x"))

	assert.ErrorIs(t, w.Sort(context.Background(), 0, Ascending), ErrPendingChanges)
	assert.ErrorIs(t, w.SortBy(context.Background(), "Task", Ascending), ErrPendingChanges)
	assert.Empty(t, s.criteria)

	require.NoError(t, w.Save(context.Background()))

	assert.NoError(t, w.SortBy(context.Background(), "Task", Ascending))
	assert.Len(t, s.criteria, 1)
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"ascending":  Ascending,
		"ASC":        Ascending,
		" asc ":      Ascending,
		"Descending": Descending,
		"desc":       Descending,
	}

	for s, expected := range tests {
		direction, err := ParseDirection(s)

		require.NoError(t, err)
		assert.Equal(t, expected, direction, "direction '%s'", s)
	}

	_, err := ParseDirection("up")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
