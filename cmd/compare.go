package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/fundiff"
	"github.com/etnz/fundiff/date"
	"github.com/etnz/fundiff/ppfas"
	"github.com/etnz/fundiff/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// DownloadFailureMessage is printed when a disclosure cannot be downloaded.
const DownloadFailureMessage = "Unable to download one or both files."

// periodFlags selects the fund and the two disclosures to compare.
type periodFlags struct {
	fund    string
	old     int
	new     int
	oldFile string
	newFile string
}

func (p *periodFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.fund, "f", fundiff.DefaultFund, "Fund code, see 'fdiff funds'.")
	f.IntVar(&p.old, "x", 2, "Months ago of the old disclosure.")
	f.IntVar(&p.new, "y", 1, "Months ago of the new disclosure.")
	f.StringVar(&p.oldFile, "old", "", "Local workbook of the old disclosure. Overrides -x.")
	f.StringVar(&p.newFile, "new", "", "Local workbook of the new disclosure. Overrides -y.")
}

// period is one side of a comparison.
type period struct {
	label string
	file  string
}

// resolve returns the local file of a disclosure, downloading it if needed.
func resolve(ctx context.Context, fetcher *ppfas.Fetcher, file string, monthsAgo int) (period, error) {
	if file != "" {
		return period{label: filepath.Base(file), file: file}, nil
	}
	today := date.Today
	if fetcher.Today != nil {
		today = fetcher.Today
	}
	label := ppfas.ReportDate(today(), monthsAgo).String()
	file, err := fetcher.Fetch(ctx, monthsAgo)
	return period{label: label, file: file}, err
}

// compare downloads, extracts and compares both disclosures.
// Failures are reported on stderr and returned as an exit status.
func (p *periodFlags) compare(ctx context.Context, log zerolog.Logger) (renderer.Comparison, subcommands.ExitStatus) {
	var c renderer.Comparison
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return c, subcommands.ExitFailure
	}
	fund, ok := lookupFund(cfg, p.fund)
	if !ok {
		return c, subcommands.ExitUsageError
	}
	c.Fund = fund

	fetcher := newFetcher(cfg, log)
	oldPeriod, oldErr := resolve(ctx, fetcher, p.oldFile, p.old)
	newPeriod, newErr := resolve(ctx, fetcher, p.newFile, p.new)
	if err := errors.Join(oldErr, newErr); err != nil {
		fmt.Fprintln(os.Stderr, DownloadFailureMessage)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return c, subcommands.ExitFailure
	}
	c.Old, c.New = oldPeriod.label, newPeriod.label

	parser := newParser(cfg, log)
	oldX := parser.Parse(oldPeriod.file, fund.Code)
	newX := parser.Parse(newPeriod.file, fund.Code)
	if oldX.Empty() || newX.Empty() {
		fmt.Fprintln(os.Stderr, renderer.ExtractFailureMessage)
		for _, x := range []struct {
			period
			fundiff.Extraction
		}{{oldPeriod, oldX}, {newPeriod, newX}} {
			log.Warn().Str("file", x.file).Str("sheet", x.Sheet).Stringer("status", x.Status).AnErr("error", x.Err).Msg("extraction")
		}
		return c, subcommands.ExitFailure
	}

	c.Flat, c.BySection = fundiff.Diff(oldX.Sections, newX.Sections)
	return c, subcommands.ExitSuccess
}
