// Package logging provides structured logging configuration for mockgate.
//
// This package wraps log/slog so the server, the registry and every handler
// log the same way.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatJSON,
//	})
//
//	logger.Info("server started", "addr", srv.Addr())
//
// Components accept a *slog.Logger through an option. If none is provided
// they use logging.Nop().
package logging
