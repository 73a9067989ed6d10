package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundiff/renderer"
	"github.com/google/subcommands"
)

type fundsCmd struct{}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "list the fund codes and their worksheets" }
func (*fundsCmd) Usage() string {
	return `fdiff funds

  Lists the known funds, with the worksheet names tried in order.
  The list can be replaced in the configuration file.
`
}

func (*fundsCmd) SetFlags(_ *flag.FlagSet) {}

func (*fundsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.FundsMarkdown(cfg.Funds))
	return subcommands.ExitSuccess
}
