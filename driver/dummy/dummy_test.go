package dummy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

func TestNet(t *testing.T) {
	var dev driver.NetDriverOps = Net{}

	assert.Equal(t, driver.Net, dev.DeviceType())
	assert.Equal(t, NetName, dev.DeviceName())

	assert.False(t, dev.CanTransmit())
	assert.False(t, dev.CanReceive())
	assert.Zero(t, dev.RxQueueSize())
	assert.Zero(t, dev.TxQueueSize())

	assert.ErrorIs(t, dev.Transmit(nil), pkg.ErrUnsupported)
	assert.ErrorIs(t, dev.RecycleRxBuffer(nil), pkg.ErrUnsupported)
	assert.ErrorIs(t, dev.RecycleTxBuffers(), pkg.ErrUnsupported)

	buf, err := dev.Receive()
	assert.Nil(t, buf)
	assert.ErrorIs(t, err, pkg.ErrUnsupported)

	buf, err = dev.AllocTxBuffer(64)
	assert.Nil(t, buf)
	assert.ErrorIs(t, err, pkg.ErrUnsupported)

	assert.Panics(t, func() { dev.MACAddress() })
}

func TestBlock(t *testing.T) {
	var dev driver.BlockDriverOps = Block{}

	assert.Equal(t, driver.Block, dev.DeviceType())
	assert.Equal(t, BlockName, dev.DeviceName())
	assert.Zero(t, dev.NumBlocks())
	assert.Zero(t, dev.BlockSize())

	buf := []byte{1, 2, 3, 4}
	assert.ErrorIs(t, dev.ReadBlock(0, buf), pkg.ErrUnsupported)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf, "read must not touch the buffer")
	assert.ErrorIs(t, dev.WriteBlock(0, buf), pkg.ErrUnsupported)
	assert.ErrorIs(t, dev.Flush(), pkg.ErrUnsupported)
}

func TestDisplay(t *testing.T) {
	var dev driver.DisplayDriverOps = Display{}

	assert.Equal(t, driver.Display, dev.DeviceType())
	assert.Equal(t, DisplayName, dev.DeviceName())
	assert.False(t, dev.NeedFlush())
	assert.ErrorIs(t, dev.Flush(), pkg.ErrUnsupported)

	assert.Panics(t, func() { dev.Info() })
	assert.Panics(t, func() { dev.FrameBuffer() })
}

func TestDeterministic(t *testing.T) {
	// Repeated calls give identical results and leave no state behind.
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, Block{}.Flush(), pkg.ErrUnsupported)
		assert.False(t, Net{}.CanReceive())
		assert.Zero(t, Block{}.NumBlocks())
	}
}

func TestFor(t *testing.T) {
	for _, typ := range driver.DeviceTypes {
		dev := For(typ)
		assert.Equal(t, typ, dev.DeviceType())
	}
	assert.IsType(t, Net{}, For(driver.Net))
	assert.IsType(t, Block{}, For(driver.Block))
	assert.IsType(t, Display{}, For(driver.Display))
	assert.Panics(t, func() { For(driver.DeviceType(7)) })
}
