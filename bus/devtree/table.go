package devtree

import (
	"github.com/ardnew/softdrv/devices"
	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/driver/diskimg"
	"github.com/ardnew/softdrv/driver/loopnet"
	"github.com/ardnew/softdrv/driver/memfb"
	"github.com/ardnew/softdrv/driver/ramdisk"
)

// Compatible strings of the built-in drivers.
const (
	CompatibleRamdisk   = "softdrv,ramdisk"
	CompatibleDiskImage = "softdrv,disk-image"
	CompatibleLoopnet   = "softdrv,loopnet"
	CompatibleMemFB     = "softdrv,memfb"
)

// RamdiskProps are the properties of a ramdisk node.
type RamdiskProps struct {
	Size      Size `prop:"size"`
	BlockSize int  `prop:"block-size"`
}

// DiskImageProps are the properties of a disk image node.
type DiskImageProps struct {
	Path      string `prop:"path"`
	BlockSize int    `prop:"block-size"`
	ReadOnly  bool   `prop:"read-only"`
}

// LoopnetProps are the properties of a loopback network node.
type LoopnetProps struct {
	QueueSize int    `prop:"queue-size"`
	BufSize   int    `prop:"buf-size"`
	MAC       string `prop:"mac"`
}

// MemFBProps are the properties of a memory framebuffer node.
type MemFBProps struct {
	Width          uint32 `prop:"width"`
	Height         uint32 `prop:"height"`
	DoubleBuffered bool   `prop:"double-buffered"`
}

// DefaultTable returns the factories of the built-in drivers.
func DefaultTable() Table {
	return Table{
		CompatibleRamdisk:   newRamdisk,
		CompatibleDiskImage: newDiskImage,
		CompatibleLoopnet:   newLoopnet,
		CompatibleMemFB:     newMemFB,
	}
}

func newRamdisk(node Node) (devices.Device, error) {
	props := RamdiskProps{BlockSize: ramdisk.DefaultBlockSize}
	if err := node.Decode(&props); err != nil {
		return nil, err
	}
	dev, err := ramdisk.New(uint64(props.Size), props.BlockSize)
	if err != nil {
		return nil, err
	}
	return devices.NewBlock(dev), nil
}

func newDiskImage(node Node) (devices.Device, error) {
	props := DiskImageProps{BlockSize: ramdisk.DefaultBlockSize}
	if err := node.Decode(&props); err != nil {
		return nil, err
	}
	dev, err := diskimg.Open(props.Path, props.BlockSize, props.ReadOnly)
	if err != nil {
		return nil, err
	}
	return devices.NewBlock(dev), nil
}

func newLoopnet(node Node) (devices.Device, error) {
	var props LoopnetProps
	if err := node.Decode(&props); err != nil {
		return nil, err
	}
	var mac driver.EthernetAddress
	if props.MAC != "" {
		var err error
		if mac, err = driver.ParseEthernetAddress(props.MAC); err != nil {
			return nil, err
		}
	}
	dev, err := loopnet.New(loopnet.Config{
		QueueSize: props.QueueSize,
		BufSize:   props.BufSize,
		MAC:       mac,
	})
	if err != nil {
		return nil, err
	}
	return devices.NewNet(dev), nil
}

func newMemFB(node Node) (devices.Device, error) {
	var props MemFBProps
	if err := node.Decode(&props); err != nil {
		return nil, err
	}
	dev, err := memfb.New(memfb.Config{
		Width:          props.Width,
		Height:         props.Height,
		DoubleBuffered: props.DoubleBuffered,
	})
	if err != nil {
		return nil, err
	}
	return devices.NewDisplay(dev), nil
}
