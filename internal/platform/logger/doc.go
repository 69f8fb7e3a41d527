// Package logger configures log/slog for both binaries and carries
// request-scoped loggers through context.Context.
//
// The server logs JSON to stdout; the terminal client logs text to stderr so
// it never interleaves with command output.
package logger
