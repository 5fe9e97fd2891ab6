// Package logger provides structured logging for the application.
//
// It builds on log/slog with a JSON handler and carries a request-scoped
// logger and request id through context.Context.
package logger
