// Package pkg provides shared utilities for the softdrv driver layer.
//
// This package contains common functionality used by the capability
// interfaces, the probe protocol and the bus walkers, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error values for device and probe errors
//   - Component identifiers for log filtering
//
// # Logging
//
// The logging subsystem wraps [log/slog] with driver-layer context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentProbe, "registered a new device", "type", "Block")
//
// # Errors
//
// Device errors are defined as sentinel values and are usually wrapped with
// context by the code that returns them:
//
//	if errors.Is(err, pkg.ErrAgain) {
//	    // Nothing to receive yet
//	}
//
// [Kind] maps any error to the error kind it represents.
package pkg
