package slidetext

import "log/slog"

// ExtractOptions holds configuration for an extraction run.
type ExtractOptions struct {
	logger *slog.Logger

	// Readiness gate
	skipReadiness bool // Do not probe the engine before a full run

	// Picture handling
	maxImageBytes int64 // Pictures larger than this are counted but not recognized; 0 means no limit
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		logger:        slog.Default(),
		skipReadiness: false,
		maxImageBytes: 0,
	}
}

// clone creates a copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	return ExtractOptions{
		logger:        o.logger,
		skipReadiness: o.skipReadiness,
		maxImageBytes: o.maxImageBytes,
	}
}
