// Package pci implements a device bus over the Linux sysfs PCI device
// directory.
//
// Each entry of <root>/bus/pci/devices is a PCI function identified by its
// vendor, device and class attributes:
//
//	/sys/bus/pci/devices/0000:00:03.0/vendor   0x1af4
//	/sys/bus/pci/devices/0000:00:03.0/device   0x1000
//	/sys/bus/pci/devices/0000:00:03.0/class    0x020000
//
// Functions are matched against a [Match] table and handed to the probe
// function of the first matching entry. The root is configurable so a fake
// tree can stand in for /sys.
package pci
