package devices

import (
	"fmt"

	"github.com/ardnew/softdrv/driver"
)

// Device is one driver instance tagged with its category. The variants are
// NetDevice, BlockDevice and DisplayDevice; no other type implements Device.
//
// The tag always equals the DeviceType reported by the wrapped driver.
type Device interface {
	// Type returns the category tag.
	Type() driver.DeviceType

	// Base returns the wrapped driver.
	Base() driver.BaseDriverOps

	device()
}

// NetDevice wraps a network driver.
type NetDevice struct {
	Dev driver.NetDriverOps
}

// BlockDevice wraps a block storage driver.
type BlockDevice struct {
	Dev driver.BlockDriverOps
}

// DisplayDevice wraps a display driver.
type DisplayDevice struct {
	Dev driver.DisplayDriverOps
}

func (NetDevice) Type() driver.DeviceType { return driver.Net }
func (BlockDevice) Type() driver.DeviceType { return driver.Block }
func (DisplayDevice) Type() driver.DeviceType { return driver.Display }

func (d NetDevice) Base() driver.BaseDriverOps { return d.Dev }
func (d BlockDevice) Base() driver.BaseDriverOps { return d.Dev }
func (d DisplayDevice) Base() driver.BaseDriverOps { return d.Dev }

func (NetDevice) device() {}
func (BlockDevice) device() {}
func (DisplayDevice) device() {}

// mustMatch panics when a driver reports a category other than tag.
func mustMatch(tag driver.DeviceType, dev driver.BaseDriverOps) {
	if got := dev.DeviceType(); got != tag {
		panic(fmt.Sprintf("devices: driver %q reports type %v, tagged %v",
			dev.DeviceName(), got, tag))
	}
}

// NewNet tags a network driver. It panics if the driver does not report
// driver.Net.
func NewNet(dev driver.NetDriverOps) Device {
	mustMatch(driver.Net, dev)
	return NetDevice{Dev: dev}
}

// NewBlock tags a block driver. It panics if the driver does not report
// driver.Block.
func NewBlock(dev driver.BlockDriverOps) Device {
	mustMatch(driver.Block, dev)
	return BlockDevice{Dev: dev}
}

// NewDisplay tags a display driver. It panics if the driver does not report
// driver.Display.
func NewDisplay(dev driver.DisplayDriverOps) Device {
	mustMatch(driver.Display, dev)
	return DisplayDevice{Dev: dev}
}

// Wrap tags dev according to the category it reports. It panics if dev
// does not implement the capability set of that category.
func Wrap(dev driver.BaseDriverOps) Device {
	switch t := dev.DeviceType(); t {
	case driver.Net:
		if d, ok := dev.(driver.NetDriverOps); ok {
			return NetDevice{Dev: d}
		}
	case driver.Block:
		if d, ok := dev.(driver.BlockDriverOps); ok {
			return BlockDevice{Dev: d}
		}
	case driver.Display:
		if d, ok := dev.(driver.DisplayDriverOps); ok {
			return DisplayDevice{Dev: d}
		}
	}
	panic(fmt.Sprintf("devices: driver %q (%T) does not implement the %v capability set",
		dev.DeviceName(), dev, dev.DeviceType()))
}
