package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"context-summarizer/internal/app"
	"context-summarizer/internal/usecase/qa"
)

// noAnswer is printed in text mode when the context holds no answer.
const noAnswer = "(no answer found in context)"

type askOutput struct {
	Question string `json:"question"`
	Result   string `json:"result"`
	Found    bool   `json:"found"`
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var (
		passage  string
		question string
		prompt   string
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer a question from a context passage",
		Long: "Answers a question using only the given context. Pass --context and --question, " +
			"or a full --prompt containing \"Context:\" and \"Question:\" lines.",
		Example: "  ai ask --context \"The sky is blue.\" --question \"What color is the sky?\"\n" +
			"  ai ask --prompt $'Context: The sky is blue.\\nQuestion: What color is the sky?'",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p qa.Prompt
			switch {
			case prompt != "" && (passage != "" || question != ""):
				return errors.New("use either --prompt or --context/--question, not both")
			case prompt != "":
				parsed, err := qa.ParsePrompt(prompt)
				if err != nil {
					return err
				}
				p = parsed
			default:
				p = qa.Prompt{Context: passage, Question: question}
				if err := p.Validate(); err != nil {
					return err
				}
			}

			return opts.withServices(cmd, func(ctx context.Context, svc *app.Services) error {
				result, err := svc.QA.Answer(ctx, p)
				if err != nil {
					return err
				}

				text := result
				if text == "" {
					text = noAnswer
				}
				return printResult(cmd, opts.output, text, askOutput{
					Question: p.Question,
					Result:   result,
					Found:    result != "",
				})
			})
		},
	}

	cmd.Flags().StringVarP(&passage, "context", "c", "", "context passage the answer must come from")
	cmd.Flags().StringVarP(&question, "question", "q", "", "question to answer")
	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "full prompt with \"Context:\" and \"Question:\" lines")
	return cmd
}
