package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/uhppoted/uhppoted-sheets-tool/worksheet"
)

var SortCmd = Sort{
	command: command{
		url:   "",
		sheet: "",
		debug: false,
	},

	column:    "",
	direction: "ascending",
}

type Sort struct {
	command
	column    string
	direction string
}

func (cmd *Sort) Name() string {
	return "sort"
}

func (cmd *Sort) Description() string {
	return "Sorts the rows of a worksheet by a column"
}

func (cmd *Sort) Usage() string {
	return "--url <url> --sheet <sheet> --column <column> [--direction ascending|descending]"
}

func (cmd *Sort) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] sort [options] --url <URL> --sheet <sheet> --column <column>\n", APP)
	fmt.Println()
	fmt.Println("  Sorts the rows of a worksheet (excluding the header row) by the values in a column. The column")
	fmt.Println("  is identified by title or by zero-based index as '#<index>'.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s sort --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`+"\n", APP)
	fmt.Println(`                                --sheet "Tasks" \`)
	fmt.Println(`                                --column "Due" \`)
	fmt.Println(`                                --direction descending`)
	fmt.Println()
}

func (cmd *Sort) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sort")

	flagset.StringVar(&cmd.column, "column", cmd.column, "Sort column title or '#<index>'")
	flagset.StringVar(&cmd.direction, "direction", cmd.direction, "Sort direction (ascending or descending)")

	return flagset
}

func (cmd *Sort) Execute(args ...any) error {
	ctx, options := unpack(args)

	if err := cmd.configure(options); err != nil {
		return err
	}

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.column) == "" {
		return fmt.Errorf("--column is a required option")
	}

	direction, err := worksheet.ParseDirection(cmd.direction)
	if err != nil {
		return err
	}

	w, _, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	column, err := resolveColumn(w, cmd.column)
	if err != nil {
		return err
	}

	if err := w.Sort(ctx, column, direction); err != nil {
		return err
	}

	title, _ := w.ColumnTitle(column)

	infof("Sorted worksheet '%s' by column '%s' (%v)", w.Name(), title, strings.ToLower(string(direction)))

	return nil
}
