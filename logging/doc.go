// Package logging provides a minimal logging interface and adapters.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// used by the transport endpoints, agents and deliberation helpers. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - With for binding agent / component attributes
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	ear, err := transport.NewEar(cfg.Network, peers, handler, func(o *transport.EarOptions) {
//		o.Logger = logging.With(logger, "agent", "Alice")
//	})
package logging
