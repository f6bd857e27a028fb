package loopnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

func newTestDevice(t *testing.T, queueSize int) *Device {
	t.Helper()
	dev, err := New(Config{
		QueueSize: queueSize,
		BufSize:   128,
		MAC:       driver.EthernetAddress{0x02, 0, 0, 0, 0, 1},
	})
	require.NoError(t, err)
	return dev
}

func sendFrame(t *testing.T, dev *Device, payload string) error {
	t.Helper()
	buf, err := dev.AllocTxBuffer(len(payload))
	require.NoError(t, err)
	copy(buf.Packet(), payload)
	return dev.Transmit(buf)
}

func TestNew_Defaults(t *testing.T) {
	dev, err := New(Config{})
	require.NoError(t, err)

	assert.Equal(t, driver.Net, dev.DeviceType())
	assert.Equal(t, Name, dev.DeviceName())
	assert.Equal(t, DefaultQueueSize, dev.RxQueueSize())
	assert.Equal(t, DefaultQueueSize, dev.TxQueueSize())

	mac := dev.MACAddress()
	assert.NotEqual(t, driver.EthernetAddress{}, mac)
	assert.True(t, mac.IsLocal())
	assert.False(t, mac.IsMulticast())
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Config{QueueSize: -1})
	assert.ErrorIs(t, err, pkg.ErrInvalidParam)

	_, err = New(Config{MAC: driver.EthernetAddress{0x01, 0, 0x5e, 0, 0, 1}})
	assert.ErrorIs(t, err, pkg.ErrInvalidParam)
}

func TestRandomMAC(t *testing.T) {
	a, b := RandomMAC(), RandomMAC()
	assert.NotEqual(t, a, b)
	for _, mac := range []driver.EthernetAddress{a, b} {
		assert.True(t, mac.IsLocal())
		assert.False(t, mac.IsMulticast())
	}
}

func TestDevice_Loopback(t *testing.T) {
	dev := newTestDevice(t, 4)

	assert.True(t, dev.CanTransmit())
	assert.False(t, dev.CanReceive())

	_, err := dev.Receive()
	assert.ErrorIs(t, err, pkg.ErrAgain)

	require.NoError(t, sendFrame(t, dev, "first"))
	require.NoError(t, sendFrame(t, dev, "second"))
	assert.True(t, dev.CanReceive())

	rx, err := dev.Receive()
	require.NoError(t, err)
	assert.Equal(t, "first", string(rx.Packet()))
	require.NoError(t, dev.RecycleRxBuffer(rx))

	rx, err = dev.Receive()
	require.NoError(t, err)
	assert.Equal(t, "second", string(rx.Packet()))
	require.NoError(t, dev.RecycleRxBuffer(rx))

	assert.False(t, dev.CanReceive())
	assert.NoError(t, dev.RecycleTxBuffers())

	stats := dev.Stats()
	assert.Equal(t, uint64(2), stats.TxPackets)
	assert.Equal(t, uint64(2), stats.RxPackets)
	assert.Equal(t, uint64(len("first")+len("second")), stats.RxBytes)
}

func TestDevice_QueueFull(t *testing.T) {
	dev := newTestDevice(t, 2)

	require.NoError(t, sendFrame(t, dev, "a"))
	require.NoError(t, sendFrame(t, dev, "b"))
	assert.False(t, dev.CanTransmit())

	err := sendFrame(t, dev, "c")
	assert.ErrorIs(t, err, pkg.ErrAgain)
	assert.Equal(t, uint64(1), dev.Stats().TxDropped)

	rx, err := dev.Receive()
	require.NoError(t, err)
	require.NoError(t, dev.RecycleRxBuffer(rx))
	assert.True(t, dev.CanTransmit())
}

func TestDevice_BufferExhaustion(t *testing.T) {
	dev := newTestDevice(t, 1)

	// Pool holds twice the queue depth
	_, err := dev.AllocTxBuffer(10)
	require.NoError(t, err)
	_, err = dev.AllocTxBuffer(10)
	require.NoError(t, err)
	_, err = dev.AllocTxBuffer(10)
	assert.ErrorIs(t, err, pkg.ErrNoMemory)

	_, err = dev.AllocTxBuffer(129)
	assert.ErrorIs(t, err, pkg.ErrInvalidParam)
}

func TestDevice_ForeignBuffer(t *testing.T) {
	dev := newTestDevice(t, 2)
	other := newTestDevice(t, 2)

	buf, err := other.AllocTxBuffer(8)
	require.NoError(t, err)

	assert.ErrorIs(t, dev.Transmit(buf), pkg.ErrInvalidParam)
	assert.ErrorIs(t, dev.Transmit(nil), pkg.ErrInvalidParam)
	assert.ErrorIs(t, dev.RecycleRxBuffer(buf), pkg.ErrInvalidParam)
}

func TestDevice_TransmitFreedBuffer(t *testing.T) {
	dev := newTestDevice(t, 4)

	buf, err := dev.AllocTxBuffer(4)
	require.NoError(t, err)
	copy(buf.Packet(), "AAAA")
	require.NoError(t, dev.Transmit(buf))

	rx, err := dev.Receive()
	require.NoError(t, err)
	require.Same(t, buf, rx)
	require.NoError(t, dev.RecycleRxBuffer(rx))
	assert.False(t, buf.InUse())

	assert.ErrorIs(t, dev.Transmit(buf), pkg.ErrBadState)
	assert.False(t, dev.CanReceive(), "rejected buffer must not reach the receive queue")

	// The pool hands the buffer out once, not twice
	next, err := dev.AllocTxBuffer(4)
	require.NoError(t, err)
	copy(next.Packet(), "BBBB")
	_, err = dev.Receive()
	assert.ErrorIs(t, err, pkg.ErrAgain)
	assert.Equal(t, uint64(1), dev.Stats().TxPackets)
}

func TestDevice_TransmitQueuedBuffer(t *testing.T) {
	dev := newTestDevice(t, 4)

	buf, err := dev.AllocTxBuffer(4)
	require.NoError(t, err)
	require.NoError(t, dev.Transmit(buf))

	assert.ErrorIs(t, dev.Transmit(buf), pkg.ErrBadState)
	assert.ErrorIs(t, dev.RecycleRxBuffer(buf), pkg.ErrBadState)
	assert.True(t, buf.InUse(), "queued buffer stays allocated")

	rx, err := dev.Receive()
	require.NoError(t, err)
	require.Same(t, buf, rx)
	_, err = dev.Receive()
	assert.ErrorIs(t, err, pkg.ErrAgain, "buffer was queued once")

	require.NoError(t, dev.RecycleRxBuffer(rx))
	assert.ErrorIs(t, dev.RecycleRxBuffer(rx), pkg.ErrBadState, "double recycle")
}
