package cmd

import (
	"flag"

	"github.com/etnz/fundiff"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// fundCodes completes fund codes, read from the configuration when a completion is requested.
// The default funds are used when it cannot be loaded.
type fundCodes struct{}

func (fundCodes) Predict(_ string) []string {
	cfg, err := loadConfig()
	if err != nil {
		cfg = fundiff.DefaultConfig()
	}
	return cfg.Funds.Codes()
}

// flagPredictor returns the completion of a flag value, by flag name.
func flagPredictor(f *flag.Flag) complete.Predictor {
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	switch f.Name {
	case "f":
		return fundCodes{}
	case "old", "new":
		return predict.Files("*.xls*")
	case "config":
		return predict.Files("*.y*ml")
	case "cache-dir":
		return predict.Dirs("*")
	}
	return predict.Something
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) { flags[f.Name] = flagPredictor(f) })
	return flags
}

// Completion returns the shell completion of the commander's subcommands and flags.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		sub := &complete.Command{Flags: flagPredictors(fs)}
		if cmd.Name() == "parse" {
			sub.Args = predict.Files("*.xls*")
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

// Registered reports whether name is a subcommand of the commander.
func Registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}
