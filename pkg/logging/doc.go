// Package logging provides structured logging configuration for ewsparse.
//
// This package wraps log/slog so that the parser and the CLI log the same
// way. It supports configurable log levels, text or JSON output, and fanning
// records out to several handlers.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatJSON,
//	})
//
//	parser := ews.NewParser(ews.WithLogger(logger))
//
// # Integration
//
// Components accept a *slog.Logger through an option or setter. If no logger
// is provided they use logging.Nop().
package logging
