package pipeline

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// Logger returns the logger of the running pipeline, tagged with the run id
// and the step name. It falls back to slog.Default outside a run.
func Logger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}
