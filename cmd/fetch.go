package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fetchCmd struct {
	months int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download a monthly disclosure into the cache directory" }
func (*fetchCmd) Usage() string {
	return `fdiff fetch [-m <months>]

  Downloads the disclosure published -m months ago (xlsx, or xls when no
  xlsx is published) and prints its local path. A disclosure already in the
  cache directory is not downloaded again.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.months, "m", 1, "Months ago of the disclosure.")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	file, err := newFetcher(cfg, logger()).Fetch(ctx, c.months)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(file)
	return subcommands.ExitSuccess
}
