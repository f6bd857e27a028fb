package dummy

import (
	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

// Device names reported by the fallback devices.
const (
	NetName     = "dummy-net"
	BlockName   = "dummy-block"
	DisplayName = "dummy-display"
)

// Net is the fallback network device.
type Net struct{}

// Block is the fallback block device.
type Block struct{}

// Display is the fallback display device.
type Display struct{}

// Ensure the fallback devices implement their capability interfaces.
var (
	_ driver.NetDriverOps     = Net{}
	_ driver.BlockDriverOps   = Block{}
	_ driver.DisplayDriverOps = Display{}
)

func unreachable(op string) {
	panic("dummy: " + op + " called on a fallback device")
}

// DeviceType returns driver.Net.
func (Net) DeviceType() driver.DeviceType { return driver.Net }

// DeviceName returns NetName.
func (Net) DeviceName() string { return NetName }

// MACAddress panics: a fallback device has no hardware address.
func (Net) MACAddress() driver.EthernetAddress {
	unreachable("MACAddress")
	return driver.EthernetAddress{}
}

// CanTransmit returns false.
func (Net) CanTransmit() bool { return false }

// CanReceive returns false.
func (Net) CanReceive() bool { return false }

// RxQueueSize returns 0.
func (Net) RxQueueSize() int { return 0 }

// TxQueueSize returns 0.
func (Net) TxQueueSize() int { return 0 }

// RecycleRxBuffer returns pkg.ErrUnsupported.
func (Net) RecycleRxBuffer(*driver.NetBuf) error { return pkg.ErrUnsupported }

// RecycleTxBuffers returns pkg.ErrUnsupported.
func (Net) RecycleTxBuffers() error { return pkg.ErrUnsupported }

// Transmit returns pkg.ErrUnsupported.
func (Net) Transmit(*driver.NetBuf) error { return pkg.ErrUnsupported }

// Receive returns pkg.ErrUnsupported.
func (Net) Receive() (*driver.NetBuf, error) { return nil, pkg.ErrUnsupported }

// AllocTxBuffer returns pkg.ErrUnsupported.
func (Net) AllocTxBuffer(int) (*driver.NetBuf, error) { return nil, pkg.ErrUnsupported }

// DeviceType returns driver.Block.
func (Block) DeviceType() driver.DeviceType { return driver.Block }

// DeviceName returns BlockName.
func (Block) DeviceName() string { return BlockName }

// NumBlocks returns 0.
func (Block) NumBlocks() uint64 { return 0 }

// BlockSize returns 0.
func (Block) BlockSize() int { return 0 }

// ReadBlock returns pkg.ErrUnsupported.
func (Block) ReadBlock(uint64, []byte) error { return pkg.ErrUnsupported }

// WriteBlock returns pkg.ErrUnsupported.
func (Block) WriteBlock(uint64, []byte) error { return pkg.ErrUnsupported }

// Flush returns pkg.ErrUnsupported.
func (Block) Flush() error { return pkg.ErrUnsupported }

// DeviceType returns driver.Display.
func (Display) DeviceType() driver.DeviceType { return driver.Display }

// DeviceName returns DisplayName.
func (Display) DeviceName() string { return DisplayName }

// Info panics: a fallback device has no framebuffer geometry.
func (Display) Info() driver.DisplayInfo {
	unreachable("Info")
	return driver.DisplayInfo{}
}

// FrameBuffer panics: a fallback device has no framebuffer.
func (Display) FrameBuffer() driver.FrameBuffer {
	unreachable("FrameBuffer")
	return driver.FrameBuffer{}
}

// NeedFlush returns false.
func (Display) NeedFlush() bool { return false }

// Flush returns pkg.ErrUnsupported.
func (Display) Flush() error { return pkg.ErrUnsupported }

// For returns the fallback device of the given category.
func For(t driver.DeviceType) driver.BaseDriverOps {
	switch t {
	case driver.Net:
		return Net{}
	case driver.Block:
		return Block{}
	case driver.Display:
		return Display{}
	default:
		panic("dummy: unknown device type " + t.String())
	}
}
