package pkg

import "errors"

// Device operation errors. Every capability method reports failure with one
// of these, possibly wrapped with context.
var (
	// ErrAgain indicates the operation would block; try again later.
	ErrAgain = errors.New("try again")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrBadState indicates the device is in the wrong state for the operation.
	ErrBadState = errors.New("bad internal state")

	// ErrInvalidParam indicates an invalid parameter or argument.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrIO indicates an input/output error reported by hardware.
	ErrIO = errors.New("I/O error")

	// ErrNoMemory indicates insufficient memory or buffer space.
	ErrNoMemory = errors.New("not enough memory")

	// ErrResourceBusy indicates the device or resource is busy.
	ErrResourceBusy = errors.New("resource busy")

	// ErrUnsupported indicates the device does not implement the operation.
	ErrUnsupported = errors.New("unsupported operation")
)

// Probe errors.
var (
	// ErrNoDevice indicates a probe found no hardware. It is a valid empty
	// result, not a failure.
	ErrNoDevice = errors.New("no device")

	// ErrProbeFailed indicates a driver or bus probe hit a hardware or I/O
	// fault. The entry is skipped and probing continues.
	ErrProbeFailed = errors.New("probe failed")

	// ErrCapacity indicates a second device was offered to a category that
	// holds at most one device. Initialization aborts.
	ErrCapacity = errors.New("device category capacity exceeded")
)

// Configuration errors.
var (
	// ErrInvalidConfig indicates an inconsistent or malformed feature set.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ErrorKind classifies an error by the device error kind it carries.
type ErrorKind int

// Error kinds.
const (
	KindNone          ErrorKind = iota // No error
	KindUnsupported                    // Operation not implemented
	KindNoDevice                       // Probe found nothing
	KindProbeFailure                   // Probe hit a fault
	KindCapacity                       // Static category already occupied
	KindDevice                         // Any other device operation error
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnsupported:
		return "unsupported-operation"
	case KindNoDevice:
		return "no-device"
	case KindProbeFailure:
		return "probe-failure"
	case KindCapacity:
		return "capacity-violation"
	default:
		return "device-error"
	}
}

// Kind returns the error kind carried by err.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrCapacity):
		return KindCapacity
	case errors.Is(err, ErrNoDevice):
		return KindNoDevice
	case errors.Is(err, ErrProbeFailed):
		return KindProbeFailure
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	default:
		return KindDevice
	}
}
