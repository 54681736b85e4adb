package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"context-summarizer/internal/app"
)

type summarizeOutput struct {
	Source    string `json:"source"`
	MediaType string `json:"media_type"`
	Summary   string `json:"summary"`
}

func newSummarizeCmd(opts *rootOptions) *cobra.Command {
	var docType string

	cmd := &cobra.Command{
		Use:   "summarize [file|-]",
		Short: "Summarize a document or piped text",
		Long: "Extracts the text of a TXT, PDF or HTML file (or reads stdin) and produces one " +
			"summary of it. Long documents are split into overlapping chunks that are " +
			"summarized separately and then recombined.",
		Example: "  ai summarize report.pdf\n  cat notes.txt | ai summarize -\n  ai summarize page --type html -o json",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "-"
			if len(args) > 0 {
				source = args[0]
			}

			data, mediaType, err := readInput(cmd, source, docType)
			if err != nil {
				return err
			}

			return opts.withServices(cmd, func(ctx context.Context, svc *app.Services) error {
				text, err := svc.Extract.ExtractText(ctx, mediaType, data)
				if err != nil {
					return fmt.Errorf("could not extract text: %w", err)
				}

				summary, err := svc.Summarize.SummarizeText(ctx, text)
				if err != nil {
					return err
				}

				return printResult(cmd, opts.output, summary, summarizeOutput{
					Source:    source,
					MediaType: mediaType,
					Summary:   summary,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&docType, "type", "t", "", "document type: txt, pdf, html or a media type (default: from extension)")
	return cmd
}
