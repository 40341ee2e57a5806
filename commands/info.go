package commands

import (
	"flag"
	"fmt"
)

var InfoCmd = Info{
	command: command{
		url:   "",
		sheet: "",
		debug: false,
	},
}

type Info struct {
	command
}

func (cmd *Info) Name() string {
	return "info"
}

func (cmd *Info) Description() string {
	return "Displays the worksheet dimensions and column titles"
}

func (cmd *Info) Usage() string {
	return "--url <url> --sheet <sheet>"
}

func (cmd *Info) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] info [options] --url <URL> --sheet <sheet>\n", APP)
	fmt.Println()
	fmt.Println("  Displays the worksheet ID, the number of rows and columns, the column titles and the")
	fmt.Println("  latest spreadsheet revision")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
}

func (cmd *Info) FlagSet() *flag.FlagSet {
	return cmd.flagset("info")
}

func (cmd *Info) Execute(args ...any) error {
	ctx, options := unpack(args)

	if err := cmd.configure(options); err != nil {
		return err
	}

	if err := cmd.validate(); err != nil {
		return err
	}

	w, google, err := cmd.open(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  %-10s %v\n", "ID", w.ID())
	fmt.Printf("  %-10s %v\n", "sheet", w.Name())
	fmt.Printf("  %-10s %v\n", "rows", w.NumRows())
	fmt.Printf("  %-10s %v\n", "columns", w.NumColumns())

	if revision, err := google.Revision(ctx); err != nil {
		warnf("unable to retrieve spreadsheet revision (%v)", err)
	} else {
		fmt.Printf("  %-10s %v  %v\n", "revision", revision.ID, revision.Modified.Format("2006-01-02 15:04:05 MST"))
	}

	fmt.Println()
	for i := 0; i < w.NumColumns(); i++ {
		title, _ := w.ColumnTitle(i)
		fmt.Printf("  #%-4v %s\n", i, title)
	}
	fmt.Println()

	return nil
}
