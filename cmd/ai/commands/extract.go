package commands

import (
	"context"

	"github.com/spf13/cobra"

	"context-summarizer/internal/app"
)

type extractOutput struct {
	Source    string `json:"source"`
	MediaType string `json:"media_type"`
	Text      string `json:"text"`
}

func newExtractCmd(opts *rootOptions) *cobra.Command {
	var docType string

	cmd := &cobra.Command{
		Use:     "extract <file>",
		Short:   "Print the plain text of a TXT, PDF or HTML document",
		Example: "  ai extract report.pdf\n  ai extract article.html -o json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, mediaType, err := readInput(cmd, args[0], docType)
			if err != nil {
				return err
			}

			return opts.withServices(cmd, func(ctx context.Context, svc *app.Services) error {
				text, err := svc.Extract.ExtractText(ctx, mediaType, data)
				if err != nil {
					return err
				}
				return printResult(cmd, opts.output, text, extractOutput{
					Source:    args[0],
					MediaType: mediaType,
					Text:      text,
				})
			})
		},
	}

	cmd.Flags().StringVarP(&docType, "type", "t", "", "document type: txt, pdf, html or a media type (default: from extension)")
	return cmd
}
