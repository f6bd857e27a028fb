package pci

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/devices"
	"github.com/ardnew/softdrv/pkg"
)

// Name is the bus name reported in log records.
const Name = "pci"

// Base class codes, in the top byte of Function.Class.
const (
	ClassStorage uint32 = 0x01 << 16
	ClassNetwork uint32 = 0x02 << 16
	ClassDisplay uint32 = 0x03 << 16

	// ClassMaskBase selects the base class byte.
	ClassMaskBase uint32 = 0xff0000
)

// Function identifies one PCI function.
type Function struct {
	Address  string // Domain:bus:device.function, e.g. 0000:00:03.0
	Path     string // Sysfs directory
	Vendor   uint16
	Device   uint16
	Class    uint32 // Base class, subclass and programming interface
	Revision uint8
}

// String returns the address and IDs of the function.
func (f Function) String() string {
	return fmt.Sprintf("%s [%04x:%04x] class %06x", f.Address, f.Vendor, f.Device, f.Class)
}

// ProbeFunc builds the device of a matched function.
type ProbeFunc func(fn Function) (devices.Device, error)

// Match selects functions by ID. A zero Vendor or Device matches any ID.
// Class is compared under ClassMask; a zero mask matches any class.
type Match struct {
	Vendor    uint16
	Device    uint16
	Class     uint32
	ClassMask uint32
	Probe     ProbeFunc
}

// Matches reports whether fn satisfies m.
func (m Match) Matches(fn Function) bool {
	if m.Vendor != 0 && m.Vendor != fn.Vendor {
		return false
	}
	if m.Device != 0 && m.Device != fn.Device {
		return false
	}
	return fn.Class&m.ClassMask == m.Class&m.ClassMask
}

// Bus enumerates the PCI functions listed in sysfs.
type Bus struct {
	root  string
	table []Match
}

var _ devices.Bus = (*Bus)(nil)

// New returns a bus reading <sysfsRoot>/bus/pci/devices. Functions are
// matched against table in order; the first match wins.
func New(sysfsRoot string, table []Match) *Bus {
	return &Bus{root: sysfsRoot, table: table}
}

// Name returns "pci".
func (b *Bus) Name() string {
	return Name
}

// Probe yields the device of every matched function in address order. A
// function whose attributes cannot be read, or whose probe fails, is
// yielded as a probe failure. A missing device directory means the system
// has no PCI bus and yields nothing.
func (b *Bus) Probe() iter.Seq2[devices.Device, error] {
	return func(yield func(devices.Device, error) bool) {
		dir := filepath.Join(b.root, DevicesPath)
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				pkg.LogDebug(pkg.ComponentBus, "no PCI bus", "path", dir)
				return
			}
			yield(nil, errors.Wrapf(pkg.ErrProbeFailed, "read %s: %v", dir, err))
			return
		}

		for _, entry := range entries {
			fn, err := parseFunction(filepath.Join(dir, entry.Name()))
			if err != nil {
				err = errors.Wrapf(pkg.ErrProbeFailed, "function %s: %v", entry.Name(), err)
				if !yield(nil, err) {
					return
				}
				continue
			}

			m, ok := b.match(fn)
			if !ok {
				pkg.LogDebug(pkg.ComponentBus, "no driver for function", "function", fn.String())
				continue
			}
			dev, err := m.Probe(fn)
			if err != nil {
				err = fmt.Errorf("function %s: %w: %w", fn.Address, pkg.ErrProbeFailed, err)
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(dev, nil) {
				return
			}
		}
	}
}

func (b *Bus) match(fn Function) (Match, bool) {
	for _, m := range b.table {
		if m.Matches(fn) {
			return m, true
		}
	}
	return Match{}, false
}
