package pci

import (
	"github.com/ardnew/softdrv/devices"
	"github.com/ardnew/softdrv/driver/loopnet"
	"github.com/ardnew/softdrv/driver/memfb"
	"github.com/ardnew/softdrv/driver/ramdisk"
)

// VirtioVendor is the PCI vendor ID of virtio functions.
const VirtioVendor = 0x1af4

// Emulated device parameters of the virtio functions in DefaultTable.
const (
	VirtioBlockSize = 16 << 20
	VirtioFBWidth   = 1024
	VirtioFBHeight  = 768
)

// DefaultTable matches virtio network, storage and display functions and
// backs each with the in-memory driver of its category.
func DefaultTable() []Match {
	return []Match{
		{Vendor: VirtioVendor, Class: ClassNetwork, ClassMask: ClassMaskBase, Probe: probeVirtioNet},
		{Vendor: VirtioVendor, Class: ClassStorage, ClassMask: ClassMaskBase, Probe: probeVirtioBlock},
		{Vendor: VirtioVendor, Class: ClassDisplay, ClassMask: ClassMaskBase, Probe: probeVirtioGPU},
	}
}

func probeVirtioNet(Function) (devices.Device, error) {
	dev, err := loopnet.New(loopnet.Config{})
	if err != nil {
		return nil, err
	}
	return devices.NewNet(dev), nil
}

func probeVirtioBlock(Function) (devices.Device, error) {
	dev, err := ramdisk.New(VirtioBlockSize, ramdisk.DefaultBlockSize)
	if err != nil {
		return nil, err
	}
	return devices.NewBlock(dev), nil
}

func probeVirtioGPU(Function) (devices.Device, error) {
	dev, err := memfb.New(memfb.Config{Width: VirtioFBWidth, Height: VirtioFBHeight})
	if err != nil {
		return nil, err
	}
	return devices.NewDisplay(dev), nil
}
