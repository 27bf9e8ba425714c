// Package logger provides a structured logging facility based on Zap.
//
// The debug level selects Zap's development configuration (ISO8601 times,
// caller, stack traces); any other level uses the production configuration
// at that level. Logs are written to stderr so that stdout only carries the
// run summary.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log.Info("Starting import", zap.String("source", "ldif"))
package logger
