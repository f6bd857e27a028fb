package inventory

import (
	"github.com/google/uuid"

	"github.com/ardnew/softdrv/devices"
	"github.com/ardnew/softdrv/driver"
)

// Inventory is a snapshot of the devices found at boot.
type Inventory struct {
	BootID     string     `yaml:"boot-id" cbor:"1,keyasint"`
	Model      string     `yaml:"model" cbor:"2,keyasint"`
	Categories []Category `yaml:"categories" cbor:"3,keyasint"`
	Failures   []string   `yaml:"failures,omitempty" cbor:"4,keyasint,omitempty"`
}

// Category lists the devices of one enabled category.
type Category struct {
	Type    string  `yaml:"type" cbor:"1,keyasint"`
	Devices []Entry `yaml:"devices" cbor:"2,keyasint"`
}

// Entry describes one device.
type Entry struct {
	Index   int          `yaml:"index" cbor:"1,keyasint"`
	Name    string       `yaml:"name" cbor:"2,keyasint"`
	Net     *NetInfo     `yaml:"net,omitempty" cbor:"3,keyasint,omitempty"`
	Block   *BlockInfo   `yaml:"block,omitempty" cbor:"4,keyasint,omitempty"`
	Display *DisplayInfo `yaml:"display,omitempty" cbor:"5,keyasint,omitempty"`
}

// NetInfo holds network device details.
type NetInfo struct {
	MAC     string `yaml:"mac" cbor:"1,keyasint"`
	RxQueue int    `yaml:"rx-queue" cbor:"2,keyasint"`
	TxQueue int    `yaml:"tx-queue" cbor:"3,keyasint"`
}

// BlockInfo holds block device details.
type BlockInfo struct {
	Blocks    uint64 `yaml:"blocks" cbor:"1,keyasint"`
	BlockSize int    `yaml:"block-size" cbor:"2,keyasint"`
}

// Capacity returns the device size in bytes.
func (b BlockInfo) Capacity() uint64 {
	return b.Blocks * uint64(b.BlockSize)
}

// DisplayInfo holds display device details.
type DisplayInfo struct {
	Width     uint32 `yaml:"width" cbor:"1,keyasint"`
	Height    uint32 `yaml:"height" cbor:"2,keyasint"`
	Stride    uint32 `yaml:"stride" cbor:"3,keyasint"`
	Size      int    `yaml:"size" cbor:"4,keyasint"`
	NeedFlush bool   `yaml:"need-flush" cbor:"5,keyasint"`
}

// Take snapshots the containers still held by a. Categories whose
// container was handed off or is disabled are omitted.
func Take(a *devices.AllDevices) Inventory {
	inv := Inventory{
		BootID: uuid.NewString(),
		Model:  devices.DeviceModel().String(),
	}

	if a.Net != nil {
		c := Category{Type: driver.Net.String(), Devices: []Entry{}}
		for i, dev := range a.Net.All() {
			c.Devices = append(c.Devices, Entry{
				Index: i,
				Name:  dev.DeviceName(),
				Net: &NetInfo{
					MAC:     dev.MACAddress().String(),
					RxQueue: dev.RxQueueSize(),
					TxQueue: dev.TxQueueSize(),
				},
			})
		}
		inv.Categories = append(inv.Categories, c)
	}

	if a.Block != nil {
		c := Category{Type: driver.Block.String(), Devices: []Entry{}}
		for i, dev := range a.Block.All() {
			c.Devices = append(c.Devices, Entry{
				Index: i,
				Name:  dev.DeviceName(),
				Block: &BlockInfo{
					Blocks:    dev.NumBlocks(),
					BlockSize: dev.BlockSize(),
				},
			})
		}
		inv.Categories = append(inv.Categories, c)
	}

	if a.Display != nil {
		c := Category{Type: driver.Display.String(), Devices: []Entry{}}
		for i, dev := range a.Display.All() {
			info := dev.Info()
			c.Devices = append(c.Devices, Entry{
				Index: i,
				Name:  dev.DeviceName(),
				Display: &DisplayInfo{
					Width:     info.Width,
					Height:    info.Height,
					Stride:    info.Stride,
					Size:      info.Size,
					NeedFlush: dev.NeedFlush(),
				},
			})
		}
		inv.Categories = append(inv.Categories, c)
	}

	if err := a.ProbeErrors(); err != nil {
		inv.Failures = failures(err)
	}
	return inv
}

// failures flattens an aggregated probe error into one line per failure.
func failures(err error) []string {
	var errs []error
	if u, ok := err.(interface{ WrappedErrors() []error }); ok {
		errs = u.WrappedErrors()
	} else {
		errs = []error{err}
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.Error()
	}
	return lines
}
