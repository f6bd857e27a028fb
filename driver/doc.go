// Package driver defines the capability interfaces every device driver
// implements.
//
// A driver instance always satisfies [BaseDriverOps], which reports the
// device category and a stable name, plus exactly one category-specific
// capability set:
//
//   - [NetDriverOps] for network interface controllers
//   - [BlockDriverOps] for block storage devices
//   - [DisplayDriverOps] for graphics framebuffers
//
// # Non-Blocking Contract
//
// Capability methods never block indefinitely. An operation that cannot be
// serviced returns an explicit outcome instead:
//
//   - [pkg.ErrUnsupported] when the driver does not implement the operation
//   - [pkg.ErrAgain] when the operation would block (queue full, no data)
//
// DeviceType and DeviceName must be pure and stable for the lifetime of the
// instance.
//
// # Concurrency
//
// The interfaces make no synchronization guarantee. A device instance is
// owned by exactly one consuming subsystem; concurrent use from several
// goroutines is only safe when the concrete driver documents it.
package driver
