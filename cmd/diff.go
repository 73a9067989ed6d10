package cmd

import (
	"context"
	"flag"

	"github.com/etnz/fundiff/renderer"
	"github.com/google/subcommands"
)

type diffCmd struct {
	periodFlags
	sections bool
}

func (*diffCmd) Name() string     { return "diff" }
func (*diffCmd) Synopsis() string { return "compare the holdings of a fund between two monthly disclosures" }
func (*diffCmd) Usage() string {
	return `fdiff diff [-f <fund>] [-x <months>] [-y <months>] [-old <file>] [-new <file>] [-sections=false]

  Downloads the disclosures of month -x and month -y before today (by default
  two months ago and last month), extracts the fund's holdings and prints the
  changes: companies traded first, then by decreasing change of weight.

  Local workbooks can be given with -old and -new instead.
`
}

func (c *diffCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.BoolVar(&c.sections, "sections", true, "Also print the section-wise breakdown.")
}

func (c *diffCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	comparison, status := c.compare(ctx, logger())
	if status != subcommands.ExitSuccess {
		return status
	}
	printMarkdown(renderer.ComparisonMarkdown(comparison, c.sections))
	return subcommands.ExitSuccess
}
