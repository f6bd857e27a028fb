package devices

import (
	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/driver/diskimg"
	"github.com/ardnew/softdrv/driver/dummy"
	"github.com/ardnew/softdrv/driver/loopnet"
	"github.com/ardnew/softdrv/driver/memfb"
	"github.com/ardnew/softdrv/driver/ramdisk"
	"github.com/ardnew/softdrv/pkg"
	"github.com/ardnew/softdrv/pkg/config"
)

// ProbeFunc discovers the single global instance of a driver's device. It
// returns pkg.ErrNoDevice when the hardware is absent.
type ProbeFunc func() (Device, error)

// Driver is a statically registered driver.
type Driver struct {
	Name  string
	Type  driver.DeviceType
	Probe ProbeFunc
}

// Registry returns the drivers selected by f in probe order: ramdisk,
// disk-image, loopback, memfb. An enabled category without any enabled
// driver is represented by its dummy driver, which never finds a device.
// Drivers of disabled categories are never included.
func Registry(f config.Features) []Driver {
	var drivers []Driver
	found := map[driver.DeviceType]bool{}

	add := func(enabled bool, d Driver) {
		if enabled && f.Enabled(d.Type) {
			drivers = append(drivers, d)
			found[d.Type] = true
		}
	}

	add(f.Drivers.Ramdisk, Driver{Name: ramdisk.Name, Type: driver.Block, Probe: probeRamdisk(f.Ramdisk)})
	add(f.Drivers.DiskImage, Driver{Name: diskimg.Name, Type: driver.Block, Probe: probeDiskImage(f.DiskImage)})
	add(f.Drivers.Loopback, Driver{Name: loopnet.Name, Type: driver.Net, Probe: probeLoopback(f.Loopback)})
	add(f.Drivers.MemFB, Driver{Name: memfb.Name, Type: driver.Display, Probe: probeMemFB(f.MemFB)})

	for _, t := range f.Categories() {
		if !found[t] {
			drivers = append(drivers, DummyDriver(t))
		}
	}
	return drivers
}

// DummyDriver returns the fallback driver of category t. Its probe always
// reports pkg.ErrNoDevice.
func DummyDriver(t driver.DeviceType) Driver {
	return Driver{
		Name: dummy.For(t).DeviceName(),
		Type: t,
		Probe: func() (Device, error) {
			return nil, pkg.ErrNoDevice
		},
	}
}

func probeRamdisk(c config.Ramdisk) ProbeFunc {
	return func() (Device, error) {
		size, err := c.Bytes()
		if err != nil {
			return nil, err
		}
		dev, err := ramdisk.New(size, c.BlockSize)
		if err != nil {
			return nil, err
		}
		return NewBlock(dev), nil
	}
}

func probeDiskImage(c config.DiskImage) ProbeFunc {
	return func() (Device, error) {
		dev, err := diskimg.Open(c.Path, c.BlockSize, c.ReadOnly)
		if err != nil {
			return nil, err
		}
		return NewBlock(dev), nil
	}
}

func probeLoopback(c config.Loopback) ProbeFunc {
	return func() (Device, error) {
		mac, err := c.Address()
		if err != nil {
			return nil, err
		}
		dev, err := loopnet.New(loopnet.Config{
			QueueSize: c.QueueSize,
			BufSize:   c.BufSize,
			MAC:       mac,
		})
		if err != nil {
			return nil, err
		}
		return NewNet(dev), nil
	}
}

func probeMemFB(c config.MemFB) ProbeFunc {
	return func() (Device, error) {
		dev, err := memfb.New(memfb.Config{
			Width:          c.Width,
			Height:         c.Height,
			DoubleBuffered: c.DoubleBuffered,
		})
		if err != nil {
			return nil, err
		}
		return NewDisplay(dev), nil
	}
}
