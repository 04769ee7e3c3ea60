// Package logging provides the structured logger used across hitsuite.
//
// It provides functionality for:
//   - Leveled text or JSON logging backed by log/slog
//   - Component, request and auth scoped child loggers
//   - Carrying a logger through context.Context, defaulting to a discard logger
package logging
