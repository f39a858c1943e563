// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance for the harness CLI and for the embedded
// server, plus helpers that scope a logger to an HTTP request or to the test suite
// that initialised the server.
//
// # Context Awareness
//
// WithRayID extracts the RayID from a Fiber context so that every line logged while
// serving a request can be correlated. WithSuite tags lifecycle logs (start, stop,
// restart, type registration) with the suite token passed to the harness.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log.Info("embedded server started")
//
//	// In tests:
//	log := logger.NewTesting(t)
package logger
