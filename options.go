package stem

import "log/slog"

// ContextOption configures a Context during creation.
//
// Example:
//
//	// Default: package logger, no per-call error checks
//	ctx, err := stem.NewContext(driver)
//
//	// Debug build: log every driver error flag
//	ctx, err := stem.NewContext(driver, stem.WithDebug(true), stem.WithLogger(l))
type ContextOption func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	logger *slog.Logger
	debug  bool
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{
		logger: nil, // Will be set to Logger() if nil
	}
}

// WithLogger sets the logger of one Context, overriding the package logger
// configured with [SetLogger].
func WithLogger(l *slog.Logger) ContextOption {
	return func(o *contextOptions) {
		o.logger = l
	}
}

// WithDebug enables the driver error check. When on, the Context reads
// every pending driver error flag after each driver call and logs it at
// error level with the name of the call. The check never changes results;
// it is a development aid and costs one extra driver round trip per call.
func WithDebug(enabled bool) ContextOption {
	return func(o *contextOptions) {
		o.debug = enabled
	}
}
