package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundiff/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

const analystInstruction = `You are a mutual fund analyst covering Indian equity and debt funds.
You explain portfolio changes to retail investors in plain words, without recommendations.`

const explainPrompt = `Below is the change of the portfolio of %s
between the disclosures of %s and %s. "Change (%%)" is the change of weight in the
net assets, shown only when shares were traded; "Change (Shares)" is the number of
shares bought or sold.

Summarize in a few short paragraphs what the fund manager did: main purchases,
main sales, new and exited positions, and shifts between sections.

%s`

type explainCmd struct {
	periodFlags
	model  string
	search bool
}

func (*explainCmd) Name() string { return "explain" }
func (*explainCmd) Synopsis() string {
	return "ask Gemini to comment the changes between two disclosures"
}
func (*explainCmd) Usage() string {
	return `fdiff explain [-f <fund>] [-x <months>] [-y <months>] [-old <file>] [-new <file>] [-model <model>] [-search]

  Compares two disclosures like 'fdiff diff' and asks Gemini to summarize the
  fund manager's moves. Requires a Gemini API key in GEMINI_API_KEY or
  GOOGLE_API_KEY.
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	c.periodFlags.SetFlags(f)
	f.StringVar(&c.model, "model", "gemini-2.5-flash", "Gemini model used for the commentary.")
	f.BoolVar(&c.search, "search", false, "Let Gemini ground the commentary with Google Search.")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	comparison, status := c.compare(ctx, logger())
	if status != subcommands.ExitSuccess {
		return status
	}
	if len(comparison.Flat) == 0 {
		fmt.Println(renderer.NoChangesMessage)
		return subcommands.ExitSuccess
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	name := comparison.Fund.Name
	if name == "" {
		name = comparison.Fund.Code
	}
	prompt := fmt.Sprintf(explainPrompt, name, comparison.Old, comparison.New, renderer.ComparisonMarkdown(comparison, true))
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: analystInstruction}}},
	}
	if c.search {
		config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating commentary:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(resp.Text())
	return subcommands.ExitSuccess
}
