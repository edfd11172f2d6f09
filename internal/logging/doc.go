// Package logging wraps log/slog with the handlers and attribute helpers
// used across the client: a console handler for interactive use, a JSON
// handler for log files, component loggers, and standardized field keys so
// submission and review flows log consistently.
package logging
