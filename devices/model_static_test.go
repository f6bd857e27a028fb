//go:build !dyn

package devices

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/driver/diskimg"
	"github.com/ardnew/softdrv/driver/ramdisk"
	"github.com/ardnew/softdrv/pkg"
	"github.com/ardnew/softdrv/pkg/config"
)

func TestDeviceModel_Static(t *testing.T) {
	assert.Equal(t, ModelStatic, DeviceModel())
}

func TestInit_CapacityFromRegistry(t *testing.T) {
	all, err := Init(config.Features{Net: true}, WithDrivers(
		fixedDriver("first", NewNet(newFakeNet("eth0"))),
		fixedDriver("second", NewNet(newFakeNet("eth1"))),
	))
	assert.Nil(t, all)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrCapacity)
	assert.Equal(t, pkg.KindCapacity, pkg.Kind(err))
	assert.Contains(t, err.Error(), "driver second")
}

func TestInit_CapacityFromBus(t *testing.T) {
	bus := newMockBus("test", entry{dev: NewNet(newFakeNet("eth1"))})

	all, err := Init(config.Default(), WithBuses(bus))
	assert.Nil(t, all)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkg.ErrCapacity)
	assert.Contains(t, err.Error(), "bus test")
}

func TestInit_StaticOnePerCategory(t *testing.T) {
	bus := newMockBus("test", entry{dev: NewNet(newFakeNet("eth0"))})

	all, err := Init(config.Features{Net: true}, WithDrivers(), WithBuses(bus))
	require.NoError(t, err)
	assert.Equal(t, 1, all.Len(driver.Net))
}

func TestInit_CapacityClosesDevices(t *testing.T) {
	held := &closableNet{fakeNet: newFakeNet("eth0")}
	rejected := &closableNet{fakeNet: newFakeNet("eth1")}
	bus := newMockBus("test", entry{dev: NewNet(rejected)})

	all, err := Init(config.Features{Net: true},
		WithDrivers(fixedDriver("first", NewNet(held))), WithBuses(bus))
	assert.Nil(t, all)
	require.ErrorIs(t, err, pkg.ErrCapacity)
	assert.Equal(t, 1, held.closed)
	assert.Equal(t, 1, rejected.closed)
}

func TestInit_CapacityReleasesDiskImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 4*512), 0o644))

	f := config.Features{
		Drivers:   config.Drivers{DiskImage: true},
		DiskImage: config.DiskImage{Path: path, BlockSize: 512},
	}
	rd, err := ramdisk.New(64*1024, ramdisk.DefaultBlockSize)
	require.NoError(t, err)
	bus := newMockBus("test", entry{dev: NewBlock(rd)})

	all, err := Init(f, WithBuses(bus))
	assert.Nil(t, all)
	require.ErrorIs(t, err, pkg.ErrCapacity)

	dev, err := diskimg.Open(path, 512, false)
	require.NoError(t, err, "aborted Init left the image open")
	require.NoError(t, dev.Close())
}
