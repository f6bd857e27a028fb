package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

func TestDefault(t *testing.T) {
	f := Default()

	assert.True(t, f.Net)
	assert.True(t, f.Block)
	assert.False(t, f.Display)
	assert.True(t, f.Drivers.Ramdisk)
	assert.True(t, f.Drivers.Loopback)
	assert.False(t, f.Buses.PCI)
	assert.Equal(t, "/sys", f.PCI.SysfsRoot)

	size, err := f.Ramdisk.Bytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(4<<20), size)

	require.NoError(t, f.Validate())
	assert.Equal(t, []driver.DeviceType{driver.Net, driver.Block}, f.Categories())
}

func TestNormalize(t *testing.T) {
	f := Features{Drivers: Drivers{MemFB: true, DiskImage: true}}
	f.Normalize()

	assert.False(t, f.Net)
	assert.True(t, f.Block)
	assert.True(t, f.Display)
}

func TestEnabled(t *testing.T) {
	f := Features{Net: true}
	assert.True(t, f.Enabled(driver.Net))
	assert.False(t, f.Enabled(driver.Block))
	assert.False(t, f.Enabled(driver.Display))
	assert.False(t, f.Enabled(driver.DeviceType(9)))
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
net: false
display: true
drivers:
  loopback: false
  memfb: true
ramdisk:
  size: 16MiB
memfb:
  width: 320
  height: 200
  double-buffered: true
`)
	f, err := Parse(data, FormatYAML)
	require.NoError(t, err)

	assert.False(t, f.Net)
	assert.True(t, f.Display)
	assert.True(t, f.Drivers.Ramdisk, "unset keys keep their default")
	assert.Equal(t, uint32(320), f.MemFB.Width)
	assert.True(t, f.MemFB.DoubleBuffered)

	size, err := f.Ramdisk.Bytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(16<<20), size)
}

func TestParse_TOML(t *testing.T) {
	data := []byte(`
net = true

[drivers]
loopback = true
ramdisk = false

[loopback]
queue-size = 8
mac = "52:54:00:00:00:01"

[buses]
pci = true

[pci]
sysfs-root = "/tmp/sys"
`)
	f, err := Parse(data, FormatTOML)
	require.NoError(t, err)

	assert.False(t, f.Drivers.Ramdisk)
	assert.Equal(t, 8, f.Loopback.QueueSize)
	assert.True(t, f.Buses.PCI)
	assert.Equal(t, "/tmp/sys", f.PCI.SysfsRoot)

	mac, err := f.Loopback.Address()
	require.NoError(t, err)
	assert.Equal(t, driver.EthernetAddress{0x52, 0x54, 0, 0, 0, 1}, mac)
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Default(), f)
}

func TestParse_UnknownKeys(t *testing.T) {
	_, err := Parse([]byte("bogus: true\n"), FormatYAML)
	assert.ErrorIs(t, err, pkg.ErrInvalidConfig)

	_, err = Parse([]byte("bogus = true\n"), FormatTOML)
	assert.ErrorIs(t, err, pkg.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Features)
	}{
		{"ramdisk size", func(f *Features) { f.Ramdisk.Size = "lots" }},
		{"ramdisk block size", func(f *Features) { f.Ramdisk.BlockSize = 500 }},
		{"ramdisk below one block", func(f *Features) {
			f.Ramdisk.Size = "256"
			f.Ramdisk.BlockSize = 512
		}},
		{"disk image path", func(f *Features) { f.Drivers.DiskImage = true }},
		{"loopback queue", func(f *Features) { f.Loopback.QueueSize = 0 }},
		{"loopback mac", func(f *Features) { f.Loopback.MAC = "zz:zz" }},
		{"memfb geometry", func(f *Features) { f.Drivers.MemFB = true; f.MemFB.Width = 0 }},
		{"devtree path", func(f *Features) { f.Buses.DevTree = true }},
		{"pci root", func(f *Features) { f.Buses.PCI = true; f.PCI.SysfsRoot = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Default()
			tt.mutate(&f)
			assert.ErrorIs(t, f.Validate(), pkg.ErrInvalidConfig)
		})
	}
}

func TestValidate_RamdiskOneBlock(t *testing.T) {
	f := Default()
	f.Ramdisk.Size = "4KiB"
	f.Ramdisk.BlockSize = 4096
	assert.NoError(t, f.Validate())

	f.Ramdisk.BlockSize = 8192
	err := f.Validate()
	assert.ErrorIs(t, err, pkg.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "smaller than one 8192-byte block")
}

func TestValidate_ReportsAll(t *testing.T) {
	f := Default()
	f.Ramdisk.BlockSize = 3
	f.Loopback.QueueSize = -1

	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ramdisk block-size")
	assert.Contains(t, err.Error(), "loopback queue-size")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "softdrv.yml")
	require.NoError(t, os.WriteFile(path, []byte("display: true\n"), 0644))
	f, err := Load(path)
	require.NoError(t, err)
	assert.True(t, f.Display)

	_, err = Load(filepath.Join(dir, "softdrv.ini"))
	assert.ErrorIs(t, err, pkg.ErrInvalidConfig)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.yaml", FormatYAML, false},
		{"a.YML", FormatYAML, false},
		{"dir/a.toml", FormatTOML, false},
		{"a.json", 0, true},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if tt.wantErr {
			assert.Error(t, err, tt.path)
			continue
		}
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}
