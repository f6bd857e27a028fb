package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/docker/go-units"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

//go:embed defconfig.yaml
var defconfig []byte

// Features is the build configuration of the driver layer: which device
// categories exist, which drivers and buses are available, and their
// parameters. It is resolved once before probing and never changes after.
type Features struct {
	Net     bool `yaml:"net" toml:"net"`
	Block   bool `yaml:"block" toml:"block"`
	Display bool `yaml:"display" toml:"display"`

	Drivers Drivers `yaml:"drivers" toml:"drivers"`
	Buses   Buses   `yaml:"buses" toml:"buses"`

	Ramdisk   Ramdisk   `yaml:"ramdisk" toml:"ramdisk"`
	DiskImage DiskImage `yaml:"disk-image" toml:"disk-image"`
	Loopback  Loopback  `yaml:"loopback" toml:"loopback"`
	MemFB     MemFB     `yaml:"memfb" toml:"memfb"`
	DevTree   DevTree   `yaml:"devtree" toml:"devtree"`
	PCI       PCI       `yaml:"pci" toml:"pci"`
}

// Drivers selects the statically registered drivers.
type Drivers struct {
	Ramdisk   bool `yaml:"ramdisk" toml:"ramdisk"`
	DiskImage bool `yaml:"disk-image" toml:"disk-image"`
	Loopback  bool `yaml:"loopback" toml:"loopback"`
	MemFB     bool `yaml:"memfb" toml:"memfb"`
}

// Buses selects the buses probed after the static registry.
type Buses struct {
	DevTree bool `yaml:"devtree" toml:"devtree"`
	PCI     bool `yaml:"pci" toml:"pci"`
}

// Ramdisk configures the RAM disk driver.
type Ramdisk struct {
	Size      string `yaml:"size" toml:"size"` // Human size, e.g. "4MiB"
	BlockSize int    `yaml:"block-size" toml:"block-size"`
}

// Bytes returns the configured size in bytes.
func (r Ramdisk) Bytes() (uint64, error) {
	n, err := units.RAMInBytes(r.Size)
	if err != nil {
		return 0, errors.Wrapf(pkg.ErrInvalidConfig, "ramdisk size %q: %v", r.Size, err)
	}
	if n <= 0 {
		return 0, errors.Wrapf(pkg.ErrInvalidConfig, "ramdisk size %q must be positive", r.Size)
	}
	return uint64(n), nil
}

// DiskImage configures the disk image driver.
type DiskImage struct {
	Path      string `yaml:"path" toml:"path"`
	BlockSize int    `yaml:"block-size" toml:"block-size"`
	ReadOnly  bool   `yaml:"read-only" toml:"read-only"`
}

// Loopback configures the loopback network driver.
type Loopback struct {
	QueueSize int    `yaml:"queue-size" toml:"queue-size"`
	BufSize   int    `yaml:"buf-size" toml:"buf-size"`
	MAC       string `yaml:"mac" toml:"mac"` // Empty selects a random address
}

// Address returns the configured MAC address, or the zero address when
// none is configured.
func (l Loopback) Address() (driver.EthernetAddress, error) {
	if l.MAC == "" {
		return driver.EthernetAddress{}, nil
	}
	mac, err := driver.ParseEthernetAddress(l.MAC)
	if err != nil {
		return mac, errors.Wrapf(pkg.ErrInvalidConfig, "loopback mac: %v", err)
	}
	return mac, nil
}

// MemFB configures the memory framebuffer driver.
type MemFB struct {
	Width          uint32 `yaml:"width" toml:"width"`
	Height         uint32 `yaml:"height" toml:"height"`
	DoubleBuffered bool   `yaml:"double-buffered" toml:"double-buffered"`
}

// DevTree configures the device-tree bus.
type DevTree struct {
	Path string `yaml:"path" toml:"path"`
}

// PCI configures the PCI bus.
type PCI struct {
	SysfsRoot string `yaml:"sysfs-root" toml:"sysfs-root"`
}

// Format identifies a configuration file syntax.
type Format int

// Configuration formats.
const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, errors.Wrapf(pkg.ErrInvalidConfig, "unknown configuration format %q", filepath.Ext(path))
	}
}

// Default returns the feature set compiled into the binary.
func Default() Features {
	var f Features
	if err := decode(defconfig, FormatYAML, &f); err != nil {
		panic(fmt.Sprintf("config: invalid embedded defconfig: %v", err))
	}
	f.Normalize()
	return f
}

// Load reads the configuration file at path on top of Default, then
// normalizes and validates the result.
func Load(path string) (Features, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Features{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Features{}, errors.Wrap(err, "read configuration")
	}
	f, err := Parse(data, format)
	if err != nil {
		return Features{}, errors.Wrapf(err, "%s", path)
	}
	pkg.LogDebug(pkg.ComponentConfig, "configuration loaded", "path", path)
	return f, nil
}

// Parse decodes data on top of Default, then normalizes and validates the
// result.
func Parse(data []byte, format Format) (Features, error) {
	f := Default()
	if err := decode(data, format, &f); err != nil {
		return Features{}, err
	}
	f.Normalize()
	if err := f.Validate(); err != nil {
		return Features{}, err
	}
	return f, nil
}

func decode(data []byte, format Format, f *Features) error {
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && err != io.EOF {
			return errors.Wrapf(pkg.ErrInvalidConfig, "yaml: %v", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return errors.Wrapf(pkg.ErrInvalidConfig, "toml: %v", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.Wrapf(pkg.ErrInvalidConfig, "toml: unknown key %q", undecoded[0].String())
		}
	default:
		return errors.Wrapf(pkg.ErrInvalidConfig, "unknown format %d", format)
	}
	return nil
}

// Normalize enables every category that has an enabled driver.
func (f *Features) Normalize() {
	if f.Drivers.Loopback {
		f.Net = true
	}
	if f.Drivers.Ramdisk || f.Drivers.DiskImage {
		f.Block = true
	}
	if f.Drivers.MemFB {
		f.Display = true
	}
}

// Enabled reports whether the category t is part of the build.
func (f *Features) Enabled(t driver.DeviceType) bool {
	switch t {
	case driver.Net:
		return f.Net
	case driver.Block:
		return f.Block
	case driver.Display:
		return f.Display
	default:
		return false
	}
}

// Categories returns the enabled categories in canonical order.
func (f *Features) Categories() []driver.DeviceType {
	var types []driver.DeviceType
	for _, t := range driver.DeviceTypes {
		if f.Enabled(t) {
			types = append(types, t)
		}
	}
	return types
}

// Validate checks the parameters of every enabled driver and bus. All
// problems are reported together.
func (f *Features) Validate() error {
	var result *multierror.Error

	invalid := func(format string, args ...any) {
		result = multierror.Append(result, errors.Wrapf(pkg.ErrInvalidConfig, format, args...))
	}

	if f.Drivers.Ramdisk {
		size, err := f.Ramdisk.Bytes()
		if err != nil {
			result = multierror.Append(result, err)
		}
		if !validBlockSize(f.Ramdisk.BlockSize) {
			invalid("ramdisk block-size %d is not a power of two", f.Ramdisk.BlockSize)
		} else if err == nil && size < uint64(f.Ramdisk.BlockSize) {
			invalid("ramdisk size %q is smaller than one %d-byte block",
				f.Ramdisk.Size, f.Ramdisk.BlockSize)
		}
	}
	if f.Drivers.DiskImage {
		if f.DiskImage.Path == "" {
			invalid("disk-image path is empty")
		}
		if !validBlockSize(f.DiskImage.BlockSize) {
			invalid("disk-image block-size %d is not a power of two", f.DiskImage.BlockSize)
		}
	}
	if f.Drivers.Loopback {
		if f.Loopback.QueueSize <= 0 {
			invalid("loopback queue-size %d must be positive", f.Loopback.QueueSize)
		}
		if f.Loopback.BufSize <= 0 {
			invalid("loopback buf-size %d must be positive", f.Loopback.BufSize)
		}
		if _, err := f.Loopback.Address(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if f.Drivers.MemFB && (f.MemFB.Width == 0 || f.MemFB.Height == 0) {
		invalid("memfb geometry %dx%d", f.MemFB.Width, f.MemFB.Height)
	}
	if f.Buses.DevTree && f.DevTree.Path == "" {
		invalid("devtree bus enabled without a path")
	}
	if f.Buses.PCI && f.PCI.SysfsRoot == "" {
		invalid("pci bus enabled without a sysfs root")
	}

	return result.ErrorOrNil()
}

func validBlockSize(n int) bool {
	return n > 0 && n&(n-1) == 0
}
