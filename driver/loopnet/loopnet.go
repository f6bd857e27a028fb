package loopnet

import (
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

// Name is the device name reported by every loopback interface.
const Name = "loopback"

// Defaults applied by New for zero Config fields.
const (
	DefaultQueueSize = 64
	DefaultBufSize   = 1526 // Ethernet frame with VLAN tag and FCS
)

// Config configures a loopback interface.
type Config struct {
	QueueSize int                    // Receive queue depth
	BufSize   int                    // Capacity of each packet buffer
	MAC       driver.EthernetAddress // Zero selects a random local address
}

// Stats counts packets that crossed the interface.
type Stats struct {
	TxPackets uint64
	TxBytes   uint64
	RxPackets uint64
	RxBytes   uint64
	TxDropped uint64 // Transmit attempts refused with pkg.ErrAgain
}

// Device is a network interface that delivers every transmitted frame back
// to its own receive queue.
type Device struct {
	mac       driver.EthernetAddress
	pool      *driver.NetBufPool
	rxQueue   []*driver.NetBuf
	queueSize int
	stats     Stats
	mutex     sync.Mutex
}

// Ensure Device implements driver.NetDriverOps.
var _ driver.NetDriverOps = (*Device)(nil)

// New creates a loopback interface. The buffer pool holds twice the queue
// depth so that a full receive queue still leaves buffers for transmit.
func New(cfg Config) (*Device, error) {
	if cfg.QueueSize == 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.BufSize == 0 {
		cfg.BufSize = DefaultBufSize
	}
	if cfg.QueueSize < 0 || cfg.BufSize < 0 {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "queue size %d, buffer size %d",
			cfg.QueueSize, cfg.BufSize)
	}
	if cfg.MAC == (driver.EthernetAddress{}) {
		cfg.MAC = RandomMAC()
	}
	if cfg.MAC.IsMulticast() {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "multicast address %s", cfg.MAC)
	}

	pool, err := driver.NewNetBufPool(2*cfg.QueueSize, cfg.BufSize)
	if err != nil {
		return nil, err
	}

	return &Device{
		mac:       cfg.MAC,
		pool:      pool,
		rxQueue:   make([]*driver.NetBuf, 0, cfg.QueueSize),
		queueSize: cfg.QueueSize,
	}, nil
}

// RandomMAC returns a locally administered unicast address taken from the
// node field of a random UUID.
func RandomMAC() driver.EthernetAddress {
	id := uuid.New()
	var mac driver.EthernetAddress
	copy(mac[:], id[10:16])
	mac[0] = mac[0]&^0x01 | 0x02
	return mac
}

// DeviceType returns driver.Net.
func (d *Device) DeviceType() driver.DeviceType {
	return driver.Net
}

// DeviceName returns Name.
func (d *Device) DeviceName() string {
	return Name
}

// MACAddress returns the interface address.
func (d *Device) MACAddress() driver.EthernetAddress {
	return d.mac
}

// CanTransmit reports whether the receive queue has room for another frame.
func (d *Device) CanTransmit() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.rxQueue) < d.queueSize
}

// CanReceive reports whether a frame is waiting.
func (d *Device) CanReceive() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.rxQueue) > 0
}

// RxQueueSize returns the receive queue depth.
func (d *Device) RxQueueSize() int {
	return d.queueSize
}

// TxQueueSize returns the transmit queue depth, which equals the receive
// queue depth.
func (d *Device) TxQueueSize() int {
	return d.queueSize
}

// RecycleRxBuffer returns a received buffer to the pool. A buffer still
// waiting on the receive queue is rejected with pkg.ErrBadState.
func (d *Device) RecycleRxBuffer(buf *driver.NetBuf) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.queued(buf) {
		return errors.Wrap(pkg.ErrBadState, "buffer is still on the receive queue")
	}
	return d.pool.Free(buf)
}

// RecycleTxBuffers does nothing: transmitted buffers move straight to the
// receive queue.
func (d *Device) RecycleTxBuffers() error {
	return nil
}

// Transmit moves buf onto the receive queue.
func (d *Device) Transmit(buf *driver.NetBuf) error {
	if buf == nil || buf.Pool() != d.pool {
		return errors.Wrap(pkg.ErrInvalidParam, "buffer was not allocated by this device")
	}

	if !buf.InUse() {
		return errors.Wrap(pkg.ErrBadState, "buffer is not allocated")
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.queued(buf) {
		return errors.Wrap(pkg.ErrBadState, "buffer is already on the receive queue")
	}
	if len(d.rxQueue) >= d.queueSize {
		d.stats.TxDropped++
		return pkg.ErrAgain
	}
	d.rxQueue = append(d.rxQueue, buf)
	d.stats.TxPackets++
	d.stats.TxBytes += uint64(len(buf.Packet()))
	return nil
}

// queued reports whether buf is on the receive queue. The caller holds
// d.mutex.
func (d *Device) queued(buf *driver.NetBuf) bool {
	for _, b := range d.rxQueue {
		if b == buf {
			return true
		}
	}
	return false
}

// Receive takes the oldest frame off the receive queue.
func (d *Device) Receive() (*driver.NetBuf, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.rxQueue) == 0 {
		return nil, pkg.ErrAgain
	}
	buf := d.rxQueue[0]
	copy(d.rxQueue, d.rxQueue[1:])
	d.rxQueue[len(d.rxQueue)-1] = nil
	d.rxQueue = d.rxQueue[:len(d.rxQueue)-1]

	d.stats.RxPackets++
	d.stats.RxBytes += uint64(len(buf.Packet()))
	return buf, nil
}

// AllocTxBuffer takes a buffer of size bytes from the pool.
func (d *Device) AllocTxBuffer(size int) (*driver.NetBuf, error) {
	return d.pool.Alloc(size)
}

// Stats returns a snapshot of the packet counters.
func (d *Device) Stats() Stats {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.stats
}
