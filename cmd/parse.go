package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundiff"
	"github.com/etnz/fundiff/renderer"
	"github.com/google/subcommands"
)

type parseCmd struct {
	fund    string
	attempt int
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "display the holdings extracted from a disclosure workbook" }
func (*parseCmd) Usage() string {
	return `fdiff parse [-f <fund>] [-a <attempt>] <file>

  Extracts the fund's holdings from a local disclosure workbook and prints
  them by section, with the detected columns. Use -v to follow the rows
  skipped by the extraction.
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "f", fundiff.DefaultFund, "Fund code, see 'fdiff funds'.")
	f.IntVar(&c.attempt, "a", 0, "Index of the first candidate sheet to try.")
}

func (c *parseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: parse takes exactly one workbook file")
		return subcommands.ExitUsageError
	}
	file := f.Arg(0)

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if _, ok := lookupFund(cfg, c.fund); !ok {
		return subcommands.ExitUsageError
	}

	x := newParser(cfg, logger()).ParseFrom(file, c.fund, c.attempt)
	printMarkdown(renderer.ExtractionMarkdown(file, x))
	if x.Status == fundiff.Unreadable {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
