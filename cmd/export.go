package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundiff/renderer"
	"github.com/google/subcommands"
)

type exportCmd struct {
	periodFlags
	query string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "print the comparison of two disclosures as JSON" }
func (*exportCmd) Usage() string {
	return `fdiff export [-f <fund>] [-x <months>] [-y <months>] [-old <file>] [-new <file>] [-q <jsonpath>]

  Same comparison as 'fdiff diff', printed as a JSON document with the
  fields "fund", "old", "new", "flat" and "sections".

  -q selects a part of the document, for instance the names of the traded
  companies:

    fdiff export -q '$.flat[?(@.has_traded)].name'
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.StringVar(&c.query, "q", "", "JSONPath expression selecting a part of the document.")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	comparison, status := c.compare(ctx, logger())
	if status != subcommands.ExitSuccess {
		return status
	}
	doc, err := renderer.ComparisonJSON(comparison)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding comparison: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.query != "" {
		if doc, err = renderer.Query(doc, c.query); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	fmt.Println(string(doc))
	return subcommands.ExitSuccess
}
