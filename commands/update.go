package commands

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/uhppoted/uhppoted-sheets-tool/worksheet"
)

var UpdateCmd = Update{
	command: command{
		url:   "",
		sheet: "",
		debug: false,
	},

	set:    edits{},
	file:   "",
	dryrun: false,
}

type Update struct {
	command
	set    edits
	file   string
	dryrun bool
}

func (cmd *Update) Name() string {
	return "update"
}

func (cmd *Update) Description() string {
	return "Updates cells in a worksheet"
}

func (cmd *Update) Usage() string {
	return "--url <url> --sheet <sheet> [--set <row>:<column>=<value>]... [--file <file>]"
}

func (cmd *Update) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] update [options] --url <URL> --sheet <sheet> --set <row>:<column>=<value> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Updates cells in a worksheet. The edits are applied as a single batch with one update per row.")
	fmt.Println()
	fmt.Println("  Rows are zero-based and exclude the header row. Columns are identified by title or by")
	fmt.Println("  zero-based index as '#<index>'. An edits file is a TSV file with 'row', 'column' and 'value'")
	fmt.Println("  columns.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf(`    %s update --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`+"\n", APP)
	fmt.Println(`                                  --sheet "Tasks" \`)
	fmt.Println(`                                  --set "3:Status=done" \`)
	fmt.Println(`                                  --set "3:#4=2023-04-01"`)
	fmt.Println()
}

func (cmd *Update) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("update")

	flagset.Var(&cmd.set, "set", "Cell edit <row>:<column>=<value> e.g. '3:Status=done'. May be repeated")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file with a list of edits")
	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Lists the edits without updating the worksheet")

	return flagset
}

func (cmd *Update) Execute(args ...any) error {
	ctx, options := unpack(args)

	if err := cmd.configure(options); err != nil {
		return err
	}

	// ... check parameters
	if err := cmd.validate(); err != nil {
		return err
	}

	list := append([]edit{}, cmd.set...)

	if strings.TrimSpace(cmd.file) != "" {
		f, err := os.Open(cmd.file)
		if err != nil {
			return err
		}

		defer f.Close()

		if l, err := tsvToEdits(f); err != nil {
			return fmt.Errorf("invalid edits file %s (%w)", cmd.file, err)
		} else {
			list = append(list, l...)
		}
	}

	if len(list) == 0 {
		return fmt.Errorf("at least one --set or --file edit is required")
	}

	// ... stage and save
	w, _, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	if err := stage(w, list); err != nil {
		return err
	}

	rows := w.Pending()

	if cmd.dryrun {
		report(w)
		w.Clear()
		infof("dry run - %v rows in worksheet '%s' not updated", rows, w.Name())

		return nil
	}

	if err := w.Save(ctx); err != nil {
		errorf("worksheet '%s' not updated (%v rows pending)", w.Name(), w.Pending())
		return err
	}

	infof("Updated %v rows in worksheet '%s'", rows, w.Name())

	return nil
}

func stage(w *worksheet.Worksheet, list []edit) error {
	for _, e := range list {
		column, err := resolveColumn(w, e.column)
		if err != nil {
			return fmt.Errorf("invalid edit %v:%v (%w)", e.row, e.column, err)
		}

		if err := w.AssignValue(e.row, column, e.value); err != nil {
			return fmt.Errorf("invalid edit %v:%v (%w)", e.row, e.column, err)
		}
	}

	return nil
}

func report(w *worksheet.Worksheet) {
	changes := w.Changes()

	rows := []int{}
	for row := range changes {
		rows = append(rows, row)
	}

	sort.Ints(rows)

	for _, row := range rows {
		columns := []int{}
		for column := range changes[row] {
			columns = append(columns, column)
		}

		sort.Ints(columns)

		for _, column := range columns {
			title, _ := w.ColumnTitle(column)
			current := ""
			if cell, err := w.At(row, column); err == nil {
				current = cell.String()
			}

			fmt.Printf("  %-5v %-20s %q -> %q\n", row, title, current, changes[row][column])
		}
	}
}
