// Package logger provides a structured logging facility based on Zap.
//
// It builds a configured logger for either development (console) or
// production (json) use, and integrates with the Fiber HTTP layer:
// WithRequestID extracts the request id set by the requestid middleware
// and attaches it to log entries so all logs for one request correlate.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("pipeline started")
//
//	// In a request handler:
//	l := logger.WithRequestID(log, c)
//	l.Error("handler failed", zap.Error(err))
package logger
