// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Components receive a *zap.Logger and name it after themselves
// (store, catalog, registry, theme, http, ws) so log lines can be
// filtered per component.
//
// Example Usage:
//
//	logger := logging.NewFromSettings("info", false)
//	logger.Info("Server starting", zap.String("port", "8000"))
//	router.Use(logging.RequestLogger(logger.Logger))
package logging
