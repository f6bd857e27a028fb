package devices

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
	"github.com/ardnew/softdrv/pkg/config"
)

// AllDevices holds every device found during initialization, one container
// per enabled category. The container of a disabled category is nil.
type AllDevices struct {
	Net     *DeviceContainer[driver.NetDriverOps]
	Block   *DeviceContainer[driver.BlockDriverOps]
	Display *DeviceContainer[driver.DisplayDriverOps]

	features  config.Features
	probeErrs *multierror.Error
}

// Option configures Init.
type Option func(*options)

type options struct {
	drivers []Driver
	custom  bool
	buses   []Bus
}

// WithDrivers replaces the static registry with drivers, probed in the
// given order.
func WithDrivers(drivers ...Driver) Option {
	return func(o *options) {
		o.drivers = drivers
		o.custom = true
	}
}

// WithBuses adds buses probed after the static registry, in the given order.
func WithBuses(buses ...Bus) Option {
	return func(o *options) {
		o.buses = append(o.buses, buses...)
	}
}

// Init probes every driver of the registry selected by f, then every bus,
// and returns the populated aggregate. A device offered to a category that
// is already full aborts initialization with an error wrapping
// pkg.ErrCapacity; every device probed up to that point, the rejected one
// included, is closed if it implements io.Closer. Init panics if a container holds a device whose reported
// type differs from its category.
func Init(f config.Features, opts ...Option) (*AllDevices, error) {
	f.Normalize()
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(err, "initialize device drivers")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if !o.custom {
		o.drivers = Registry(f)
	}

	pkg.LogInfo(pkg.ComponentDriver, "initialize device drivers")
	pkg.LogInfo(pkg.ComponentDriver, "device model", "model", DeviceModel().String())

	all := newAllDevices(f)
	if err := all.probe(o.drivers, o.buses); err != nil {
		pkg.LogError(pkg.ComponentDriver, "device initialization aborted", "error", err)
		all.closeAll()
		return nil, err
	}
	all.assertTags()
	all.logSummary()
	return all, nil
}

func newAllDevices(f config.Features) *AllDevices {
	a := &AllDevices{features: f}
	if f.Net {
		a.Net = &DeviceContainer[driver.NetDriverOps]{}
	}
	if f.Block {
		a.Block = &DeviceContainer[driver.BlockDriverOps]{}
	}
	if f.Display {
		a.Display = &DeviceContainer[driver.DisplayDriverOps]{}
	}
	return a
}

// Features returns the feature set the aggregate was built from.
func (a *AllDevices) Features() config.Features {
	return a.features
}

// ProbeErrors returns the failures recorded while probing, or nil. The
// entries were skipped; initialization still succeeded.
func (a *AllDevices) ProbeErrors() error {
	return a.probeErrs.ErrorOrNil()
}

// Len returns the number of devices of category t.
func (a *AllDevices) Len(t driver.DeviceType) int {
	switch t {
	case driver.Net:
		if a.Net != nil {
			return a.Net.Len()
		}
	case driver.Block:
		if a.Block != nil {
			return a.Block.Len()
		}
	case driver.Display:
		if a.Display != nil {
			return a.Display.Len()
		}
	}
	return 0
}

// TakeNet hands the network container to the caller and clears it from
// the aggregate.
func (a *AllDevices) TakeNet() *DeviceContainer[driver.NetDriverOps] {
	c := a.Net
	a.Net = nil
	return c
}

// TakeBlock hands the block container to the caller and clears it from
// the aggregate.
func (a *AllDevices) TakeBlock() *DeviceContainer[driver.BlockDriverOps] {
	c := a.Block
	a.Block = nil
	return c
}

// TakeDisplay hands the display container to the caller and clears it
// from the aggregate.
func (a *AllDevices) TakeDisplay() *DeviceContainer[driver.DisplayDriverOps] {
	c := a.Display
	a.Display = nil
	return c
}

// probe runs the static registry phase, then the bus phase. Only a
// capacity violation is returned; other failures are recorded and skipped.
func (a *AllDevices) probe(drivers []Driver, buses []Bus) error {
	for _, d := range drivers {
		dev, err := d.Probe()
		switch {
		case errors.Is(err, pkg.ErrNoDevice):
			pkg.LogDebug(pkg.ComponentProbe, "no device found", "driver", d.Name)
			continue
		case err != nil:
			a.probeFailed("driver probe failed", "driver", d.Name, err)
			continue
		case dev == nil:
			a.probeFailed("driver probe failed", "driver", d.Name,
				errors.New("probe returned neither a device nor an error"))
			continue
		}
		if err := a.addDevice(dev); err != nil {
			if errors.Is(err, pkg.ErrCapacity) {
				closeDevice(dev.Base())
				return errors.Wrapf(err, "driver %s", d.Name)
			}
			a.probeFailed("driver probe failed", "driver", d.Name, err)
			continue
		}
		pkg.LogInfo(pkg.ComponentProbe, "registered a new device",
			"type", dev.Type().String(), "name", dev.Base().DeviceName())
	}

	for _, bus := range buses {
		name := bus.Name()
		for dev, err := range bus.Probe() {
			if err == nil && dev == nil {
				err = errors.New("bus yielded neither a device nor an error")
			}
			if err != nil {
				a.probeFailed("bus probe failed", "bus", name, err)
				continue
			}
			if err := a.addDevice(dev); err != nil {
				if errors.Is(err, pkg.ErrCapacity) {
					closeDevice(dev.Base())
					return errors.Wrapf(err, "bus %s", name)
				}
				a.probeFailed("bus probe failed", "bus", name, err)
				continue
			}
			pkg.LogInfo(pkg.ComponentProbe, "registered a new device",
				"type", dev.Type().String(), "name", dev.Base().DeviceName(), "bus", name)
		}
	}
	return nil
}

// probeFailed logs and records a skipped entry. The recorded error always
// matches pkg.ErrProbeFailed.
func (a *AllDevices) probeFailed(msg, key, source string, err error) {
	if !errors.Is(err, pkg.ErrProbeFailed) {
		err = fmt.Errorf("%w: %w", pkg.ErrProbeFailed, err)
	}
	err = errors.Wrapf(err, "%s %s", key, source)
	pkg.LogWarn(pkg.ComponentProbe, msg, key, source, "error", err)
	a.probeErrs = multierror.Append(a.probeErrs, err)
}

// addDevice stores dev in the container of its category.
func (a *AllDevices) addDevice(dev Device) error {
	switch d := dev.(type) {
	case NetDevice:
		if a.Net == nil {
			return errCategoryDisabled(dev)
		}
		return a.Net.Push(d.Dev)
	case BlockDevice:
		if a.Block == nil {
			return errCategoryDisabled(dev)
		}
		return a.Block.Push(d.Dev)
	case DisplayDevice:
		if a.Display == nil {
			return errCategoryDisabled(dev)
		}
		return a.Display.Push(d.Dev)
	default:
		panic(fmt.Sprintf("devices: unknown device variant %T", dev))
	}
}

// closeAll closes every held device that implements io.Closer.
func (a *AllDevices) closeAll() {
	closeCategory(a.Net)
	closeCategory(a.Block)
	closeCategory(a.Display)
}

func closeCategory[T driver.BaseDriverOps](c *DeviceContainer[T]) {
	if c == nil {
		return
	}
	for _, dev := range c.All() {
		closeDevice(dev)
	}
}

func closeDevice(dev driver.BaseDriverOps) {
	c, ok := dev.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		pkg.LogWarn(pkg.ComponentDriver, "close device failed",
			"type", dev.DeviceType().String(), "name", dev.DeviceName(), "error", err)
	}
}

func errCategoryDisabled(dev Device) error {
	return errors.Wrapf(pkg.ErrProbeFailed, "%v device %q: category not enabled",
		dev.Type(), dev.Base().DeviceName())
}

func (a *AllDevices) assertTags() {
	assertCategory(driver.Net, a.Net)
	assertCategory(driver.Block, a.Block)
	assertCategory(driver.Display, a.Display)
}

func assertCategory[T driver.BaseDriverOps](t driver.DeviceType, c *DeviceContainer[T]) {
	if c == nil {
		return
	}
	for i, dev := range c.All() {
		if got := dev.DeviceType(); got != t {
			panic(fmt.Sprintf("devices: %v container entry %d (%q) reports type %v",
				t, i, dev.DeviceName(), got))
		}
	}
}

func (a *AllDevices) logSummary() {
	logCategory(pkg.ComponentNet, a.Net, "number of NICs", "NIC")
	logCategory(pkg.ComponentBlock, a.Block, "number of block devices", "block device")
	logCategory(pkg.ComponentDisplay, a.Display, "number of graphics devices", "graphics device")

	args := make([]any, 0, 2*len(driver.DeviceTypes)+2)
	for _, t := range driver.DeviceTypes {
		args = append(args, strings.ToLower(t.String()), a.Len(t))
	}
	if a.probeErrs != nil {
		args = append(args, "failures", a.probeErrs.Len())
	}
	pkg.LogInfo(pkg.ComponentDriver, "device summary", args...)
}

func logCategory[T driver.BaseDriverOps](component pkg.Component, c *DeviceContainer[T], count, item string) {
	if c == nil {
		return
	}
	pkg.LogDebug(component, count, "count", c.Len())
	for i, dev := range c.All() {
		pkg.LogDebug(component, item, "index", i, "name", dev.DeviceName())
	}
}
