package pci

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DevicesPath is the PCI device directory relative to the sysfs root.
const DevicesPath = "bus/pci/devices"

// =============================================================================
// Sysfs Parsing
// =============================================================================

// parseFunction reads the identification attributes of the PCI function at
// sysfsPath.
func parseFunction(sysfsPath string) (Function, error) {
	fn := Function{
		Address: filepath.Base(sysfsPath),
		Path:    sysfsPath,
	}

	vendor, err := readSysfsHexUint16(filepath.Join(sysfsPath, "vendor"))
	if err != nil {
		return fn, errors.Wrap(err, "vendor")
	}
	fn.Vendor = vendor

	device, err := readSysfsHexUint16(filepath.Join(sysfsPath, "device"))
	if err != nil {
		return fn, errors.Wrap(err, "device")
	}
	fn.Device = device

	class, err := readSysfsHex(filepath.Join(sysfsPath, "class"), 24)
	if err != nil {
		return fn, errors.Wrap(err, "class")
	}
	fn.Class = uint32(class)

	// Optional attribute; older kernels lack it.
	if rev, err := readSysfsHex(filepath.Join(sysfsPath, "revision"), 8); err == nil {
		fn.Revision = uint8(rev)
	}

	return fn, nil
}

// =============================================================================
// Sysfs Read Helpers
// =============================================================================

// readSysfsString reads a string from a sysfs attribute file.
func readSysfsString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readSysfsHex reads a hexadecimal value from a sysfs attribute file.
func readSysfsHex(path string, bitSize int) (uint64, error) {
	s, err := readSysfsString(path)
	if err != nil {
		return 0, err
	}
	// Remove any "0x" prefix
	s = strings.TrimPrefix(s, "0x")
	return strconv.ParseUint(s, 16, bitSize)
}

// readSysfsHexUint16 reads a hexadecimal uint16 from a sysfs attribute file.
func readSysfsHexUint16(path string) (uint16, error) {
	v, err := readSysfsHex(path, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
