// Package commands implements the ai command line interface.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"context-summarizer/internal/app"
	"context-summarizer/internal/config"
	"context-summarizer/internal/observability/logging"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// BuildFunc creates the services a command runs against.
type BuildFunc func(ctx context.Context, logger *slog.Logger) (*app.Services, error)

// buildFromEnv loads .env, the environment and CONFIG_FILE, then builds the
// configured services.
func buildFromEnv(ctx context.Context, logger *slog.Logger) (*app.Services, error) {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, &cfg.LLM, logger)
}

type rootOptions struct {
	output  string
	timeout time.Duration
	build   BuildFunc
}

// Execute runs the root command with the environment-configured services.
func Execute() error {
	return NewRootCmd(buildFromEnv).Execute()
}

// NewRootCmd creates the root command. Subcommands obtain their services from build.
func NewRootCmd(build BuildFunc) *cobra.Command {
	opts := &rootOptions{build: build}

	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Summarize documents and answer questions with a language model",
		Long: "Summarizes arbitrarily long documents by chunking them, summarizing each chunk " +
			"and recombining the partial summaries. Also extracts text from PDF, TXT and HTML " +
			"files and answers questions about a context passage.\n\n" +
			"The model provider is selected with LLM_PROVIDER and QA_PROVIDER " +
			"(openai, claude, ollama, gemini or noop).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != OutputText && opts.output != OutputJSON {
				return fmt.Errorf("invalid --output %q: must be %q or %q", opts.output, OutputText, OutputJSON)
			}
			if opts.timeout <= 0 {
				return fmt.Errorf("--timeout must be positive")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", OutputText, "output format: text or json")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Minute, "overall time limit for the command")

	cmd.AddCommand(newSummarizeCmd(opts))
	cmd.AddCommand(newAskCmd(opts))
	cmd.AddCommand(newExtractCmd(opts))

	return cmd
}

// withServices runs fn against freshly built services under the command timeout.
func (o *rootOptions) withServices(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Services) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
	defer cancel()

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	svc, err := o.build(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("failed to close model clients", slog.Any("error", err))
		}
	}()

	return fn(ctx, svc)
}
