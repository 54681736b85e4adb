// Package logging builds the service's slog loggers: JSON on stdout for the
// API server, text on stderr for the CLI. Request-scoped loggers carry the
// request id and, when a span is recording, the trace id.
//
//	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
//	slog.SetDefault(logger)
//
//	func (s *Service) Answer(ctx context.Context, p qa.Prompt) {
//	    logger := logging.WithRequestID(ctx, s.logger)
//	    logger.Info("answering question")
//	}
package logging
