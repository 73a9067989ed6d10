// Package cmd implements the CLI application comparing mutual fund disclosures.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundiff"
	"github.com/etnz/fundiff/ppfas"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&diffCmd{}, "reports")
	c.Register(&exportCmd{}, "reports")
	c.Register(&explainCmd{}, "reports")

	c.Register(&parseCmd{}, "workbooks")
	c.Register(&fetchCmd{}, "workbooks")
	c.Register(&fundsCmd{}, "workbooks")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile = flag.String("config", os.Getenv(EnvConfig), "Path to the YAML configuration file.")
	cacheDir   = flag.String("cache-dir", os.Getenv(EnvCacheDir), "Directory where downloaded reports are kept. Defaults to the OS temporary directory.")
	Verbose    = flag.Bool("v", os.Getenv(EnvVerbose) == "true", "Verbose output: detected columns, skipped rows, downloads.")
)

// logger returns the console logger on stderr, at debug level in verbose mode.
func logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if *Verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// loadConfig reads the configuration file selected by the global flags.
func loadConfig() (fundiff.Config, error) {
	cfg, err := fundiff.LoadConfig(*configFile)
	if err != nil {
		return cfg, fmt.Errorf("cannot load configuration: %w", err)
	}
	return cfg, nil
}

// newParser returns the workbook parser for the configuration.
func newParser(cfg fundiff.Config, log zerolog.Logger) *fundiff.Parser {
	p := cfg.Parser()
	p.Log = log
	return p
}

// newFetcher returns the report downloader for the configuration.
func newFetcher(cfg fundiff.Config, log zerolog.Logger) *ppfas.Fetcher {
	f := ppfas.NewFetcher(*cacheDir, log)
	f.BaseURL = cfg.BaseURL
	return f
}

// printMarkdown renders md on the terminal, or prints it raw when it cannot be rendered.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// lookupFund returns the fund with code, printing an error when unknown.
func lookupFund(cfg fundiff.Config, code string) (fundiff.Fund, bool) {
	f, ok := cfg.Funds.Lookup(code)
	if !ok {
		_, err := cfg.Funds.Sheets(code)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return f, ok
}
