package driver

import (
	"net"
	"sync"

	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/pkg"
)

// EthernetAddress is a 48-bit IEEE 802 MAC address.
type EthernetAddress [6]byte

// ParseEthernetAddress parses a MAC address in colon, dash or dot notation.
func ParseEthernetAddress(s string) (EthernetAddress, error) {
	var addr EthernetAddress
	hw, err := net.ParseMAC(s)
	if err != nil {
		return addr, errors.Wrapf(pkg.ErrInvalidParam, "%v", err)
	}
	if len(hw) != len(addr) {
		return addr, errors.Wrapf(pkg.ErrInvalidParam, "%q is not a 48-bit address", s)
	}
	copy(addr[:], hw)
	return addr, nil
}

// String returns the address in colon notation.
func (a EthernetAddress) String() string {
	return net.HardwareAddr(a[:]).String()
}

// IsMulticast reports whether the group bit is set.
func (a EthernetAddress) IsMulticast() bool {
	return a[0]&0x01 != 0
}

// IsLocal reports whether the locally administered bit is set.
func (a EthernetAddress) IsLocal() bool {
	return a[0]&0x02 != 0
}

// NetDriverOps is the capability set of network interface controllers.
//
// Buffers move between the driver and its owner: AllocTxBuffer hands out a
// buffer, Transmit takes it back, Receive hands out a received buffer and
// RecycleRxBuffer returns it to the driver.
type NetDriverOps interface {
	BaseDriverOps

	// MACAddress returns the hardware address of the interface.
	MACAddress() EthernetAddress

	// CanTransmit reports whether Transmit would accept a buffer now.
	CanTransmit() bool

	// CanReceive reports whether Receive would return a buffer now.
	CanReceive() bool

	// RxQueueSize returns the size of the receive queue.
	RxQueueSize() int

	// TxQueueSize returns the size of the transmit queue.
	TxQueueSize() int

	// RecycleRxBuffer gives a received buffer back to the driver.
	RecycleRxBuffer(buf *NetBuf) error

	// RecycleTxBuffers reclaims buffers whose transmission completed.
	RecycleTxBuffers() error

	// Transmit queues buf for transmission. Returns pkg.ErrAgain when the
	// transmit queue is full.
	Transmit(buf *NetBuf) error

	// Receive returns the next received buffer. Returns pkg.ErrAgain when
	// nothing has been received.
	Receive() (*NetBuf, error)

	// AllocTxBuffer returns a buffer able to hold a packet of size bytes.
	AllocTxBuffer(size int) (*NetBuf, error)
}

// NetBuf is a packet buffer owned by a NetBufPool.
type NetBuf struct {
	pool  *NetBufPool
	index int
	raw   []byte
	n     int
	free  bool
}

// Packet returns the packet bytes.
func (b *NetBuf) Packet() []byte {
	return b.raw[:b.n]
}

// Capacity returns the maximum packet length the buffer can hold.
func (b *NetBuf) Capacity() int {
	return len(b.raw)
}

// SetPacketLen sets the packet length.
func (b *NetBuf) SetPacketLen(n int) error {
	if n < 0 || n > len(b.raw) {
		return errors.Wrapf(pkg.ErrInvalidParam, "packet length %d exceeds capacity %d",
			n, len(b.raw))
	}
	b.n = n
	return nil
}

// Pool returns the pool the buffer belongs to.
func (b *NetBuf) Pool() *NetBufPool {
	return b.pool
}

// InUse reports whether the buffer is allocated, that is, handed out by
// Alloc and not yet returned with Free.
func (b *NetBuf) InUse() bool {
	b.pool.mutex.Lock()
	defer b.pool.mutex.Unlock()
	return !b.free
}

// NetBufPool is a fixed set of equally sized packet buffers. All buffer
// memory is allocated up front.
type NetBufPool struct {
	bufs    []NetBuf
	free    []int
	bufSize int
	mutex   sync.Mutex
}

// NewNetBufPool allocates count buffers of bufSize bytes each.
func NewNetBufPool(count, bufSize int) (*NetBufPool, error) {
	if count <= 0 || bufSize <= 0 {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "pool of %d buffers of %d bytes",
			count, bufSize)
	}
	p := &NetBufPool{
		bufs:    make([]NetBuf, count),
		free:    make([]int, 0, count),
		bufSize: bufSize,
	}
	mem := make([]byte, count*bufSize)
	for i := range p.bufs {
		p.bufs[i] = NetBuf{
			pool:  p,
			index: i,
			raw:   mem[i*bufSize : (i+1)*bufSize : (i+1)*bufSize],
			free:  true,
		}
		p.free = append(p.free, count-1-i)
	}
	return p, nil
}

// BufSize returns the capacity of each buffer.
func (p *NetBufPool) BufSize() int {
	return p.bufSize
}

// Capacity returns the total number of buffers.
func (p *NetBufPool) Capacity() int {
	return len(p.bufs)
}

// Available returns the number of free buffers.
func (p *NetBufPool) Available() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.free)
}

// Alloc takes a free buffer and sets its packet length to size.
func (p *NetBufPool) Alloc(size int) (*NetBuf, error) {
	if size < 0 || size > p.bufSize {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "buffer of %d bytes exceeds pool buffer size %d",
			size, p.bufSize)
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if len(p.free) == 0 {
		return nil, pkg.ErrNoMemory
	}
	i := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	b := &p.bufs[i]
	b.free = false
	b.n = size
	return b, nil
}

// Free returns buf to the pool.
func (p *NetBufPool) Free(buf *NetBuf) error {
	if buf == nil || buf.pool != p {
		return errors.Wrap(pkg.ErrInvalidParam, "buffer does not belong to this pool")
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if buf.free {
		return errors.Wrapf(pkg.ErrBadState, "buffer %d already free", buf.index)
	}
	buf.free = true
	buf.n = 0
	p.free = append(p.free, buf.index)
	return nil
}
