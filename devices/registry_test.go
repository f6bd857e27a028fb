package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/driver/dummy"
	"github.com/ardnew/softdrv/pkg"
	"github.com/ardnew/softdrv/pkg/config"
)

func driverNames(drivers []Driver) []string {
	names := make([]string, len(drivers))
	for i, d := range drivers {
		names[i] = d.Name
	}
	return names
}

func TestRegistry(t *testing.T) {
	all := config.Default()
	all.Display = true
	all.Drivers = config.Drivers{Ramdisk: true, DiskImage: true, Loopback: true, MemFB: true}
	all.DiskImage.Path = "disk.img"

	tests := []struct {
		name     string
		features config.Features
		want     []string
	}{
		{
			name:     "default",
			features: config.Default(),
			want:     []string{"ramdisk", "loopback"},
		},
		{
			name:     "every driver",
			features: all,
			want:     []string{"ramdisk", "disk-image", "loopback", "memfb"},
		},
		{
			name:     "enabled categories without drivers",
			features: config.Features{Net: true, Display: true},
			want:     []string{dummy.NetName, dummy.DisplayName},
		},
		{
			name:     "driver of disabled category",
			features: config.Features{Net: true, Drivers: config.Drivers{MemFB: true}},
			want:     []string{dummy.NetName},
		},
		{
			name:     "nothing enabled",
			features: config.Features{},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := driverNames(Registry(tt.features))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_ProbeRamdisk(t *testing.T) {
	f := config.Features{
		Block:   true,
		Drivers: config.Drivers{Ramdisk: true},
		Ramdisk: config.Ramdisk{Size: "8KiB", BlockSize: 1024},
	}

	drivers := Registry(f)
	require.Len(t, drivers, 1)
	assert.Equal(t, driver.Block, drivers[0].Type)

	dev, err := drivers[0].Probe()
	require.NoError(t, err)
	blk, ok := dev.(BlockDevice)
	require.True(t, ok)
	assert.Equal(t, "ramdisk", blk.Dev.DeviceName())
	assert.Equal(t, uint64(8), blk.Dev.NumBlocks())
	assert.Equal(t, 1024, blk.Dev.BlockSize())
}

func TestRegistry_ProbeMissingDiskImage(t *testing.T) {
	f := config.Features{
		Block:     true,
		Drivers:   config.Drivers{DiskImage: true},
		DiskImage: config.DiskImage{Path: t.TempDir() + "/absent.img", BlockSize: 512},
	}

	drivers := Registry(f)
	require.Len(t, drivers, 1)
	_, err := drivers[0].Probe()
	assert.ErrorIs(t, err, pkg.ErrNoDevice)
}

func TestDummyDriver(t *testing.T) {
	for _, typ := range driver.DeviceTypes {
		d := DummyDriver(typ)
		assert.Equal(t, typ, d.Type)
		assert.Equal(t, dummy.For(typ).DeviceName(), d.Name)

		dev, err := d.Probe()
		assert.Nil(t, dev)
		assert.ErrorIs(t, err, pkg.ErrNoDevice)
	}
}
