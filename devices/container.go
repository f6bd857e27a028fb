package devices

import (
	"iter"

	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

// Container holds the devices of one category.
type Container[T driver.BaseDriverOps] interface {
	// Push adds a device.
	Push(dev T) error

	// Len returns the number of devices held.
	Len() int

	// IsEmpty reports whether no device is held.
	IsEmpty() bool

	// Get returns the i-th device.
	Get(i int) (T, bool)

	// All iterates over the devices with their index.
	All() iter.Seq2[int, T]
}

// Ensure both strategies, and the one selected for this build, implement
// Container.
var (
	_ Container[driver.NetDriverOps]     = (*StaticContainer[driver.NetDriverOps])(nil)
	_ Container[driver.BlockDriverOps]   = (*DynamicContainer[driver.BlockDriverOps])(nil)
	_ Container[driver.DisplayDriverOps] = (*DeviceContainer[driver.DisplayDriverOps])(nil)
)

// =============================================================================
// Static Container
// =============================================================================

// StaticContainer holds at most one device in a fixed slot.
type StaticContainer[T driver.BaseDriverOps] struct {
	dev T
	ok  bool
}

// Push stores dev in the empty slot. If the slot is occupied it returns an
// error wrapping pkg.ErrCapacity and leaves the container unchanged.
func (c *StaticContainer[T]) Push(dev T) error {
	if c.ok {
		return errors.Wrapf(pkg.ErrCapacity, "%v device %q rejected, already holding %q",
			dev.DeviceType(), dev.DeviceName(), c.dev.DeviceName())
	}
	c.dev = dev
	c.ok = true
	return nil
}

// Len returns 0 or 1.
func (c *StaticContainer[T]) Len() int {
	if c.ok {
		return 1
	}
	return 0
}

// IsEmpty reports whether the slot is empty.
func (c *StaticContainer[T]) IsEmpty() bool {
	return !c.ok
}

// Get returns the device in the slot when i is 0.
func (c *StaticContainer[T]) Get(i int) (T, bool) {
	if i != 0 || !c.ok {
		var zero T
		return zero, false
	}
	return c.dev, true
}

// All yields the device in the slot, if any.
func (c *StaticContainer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if c.ok {
			yield(0, c.dev)
		}
	}
}

// =============================================================================
// Dynamic Container
// =============================================================================

// DynamicContainer holds any number of devices in arrival order.
type DynamicContainer[T driver.BaseDriverOps] struct {
	devs []T
}

// Push appends dev. It never fails.
func (c *DynamicContainer[T]) Push(dev T) error {
	c.devs = append(c.devs, dev)
	return nil
}

// Len returns the number of devices.
func (c *DynamicContainer[T]) Len() int {
	return len(c.devs)
}

// IsEmpty reports whether no device is held.
func (c *DynamicContainer[T]) IsEmpty() bool {
	return len(c.devs) == 0
}

// Get returns the i-th device in arrival order.
func (c *DynamicContainer[T]) Get(i int) (T, bool) {
	if i < 0 || i >= len(c.devs) {
		var zero T
		return zero, false
	}
	return c.devs[i], true
}

// All yields the devices in arrival order.
func (c *DynamicContainer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, dev := range c.devs {
			if !yield(i, dev) {
				return
			}
		}
	}
}
