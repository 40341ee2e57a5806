package worksheet

import (
	"context"
	"strings"
	"testing"
)

func TestWriteTSV(t *testing.T) {
	expected := "Task\tOwner\tSTATUS\tStatus\tDue\n" +
		"Unlock gate\tErnie\topen\topen\t2023-03-15\n" +
		"Feed dragon\tBert\tdone\tdone\t\n" +
		"Polish tower\tErnie\topen\topen\t\n"

	var f strings.Builder

	w, err := Open(context.Background(), &stub{sheet: testSheet()}, "Tasks")
	if err != nil {
		t.Fatalf("Unexpected error opening worksheet (%v)", err)
	}

	if err := w.WriteTSV(&f); err != nil {
		t.Fatalf("Unexpected error returned from WriteTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestWriteTSVWithEmptySheet(t *testing.T) {
	var f strings.Builder

	w, err := Open(context.Background(), &stub{sheet: &Sheet{ID: 1, Name: "Empty"}}, "Empty")
	if err != nil {
		t.Fatalf("Unexpected error opening worksheet (%v)", err)
	}

	if err := w.WriteTSV(&f); err == nil {
		t.Fatalf("Expected error return for empty sheet, got %v", err)
	}
}

func TestWriteTSVWithRaggedRows(t *testing.T) {
	expected := "Task\tOwner\n" +
		"x\t\n" +
		"y\tz\n"

	sheet := Sheet{
		ID:      1,
		Name:    "Ragged",
		Columns: []Column{{ID: 0, Index: 0, Title: " Task "}, {ID: 1, Index: 1, Title: "Owner"}},
		Rows: []Row{
			{ID: 1, Index: 0, Cells: []Cell{{0, "x", ""}}},
			{ID: 2, Index: 1, Cells: []Cell{{0, "y", ""}, {1, "z", ""}, {2, "extra", ""}}},
		},
	}

	var f strings.Builder

	w, err := Open(context.Background(), &stub{sheet: &sheet}, "Ragged")
	if err != nil {
		t.Fatalf("Unexpected error opening worksheet (%v)", err)
	}

	if err := w.WriteTSV(&f); err != nil {
		t.Fatalf("Unexpected error returned from WriteTSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect TSV\n   expected: %q\n   got:      %q\n", expected, f.String())
	}
}
