package ramdisk

import (
	"bytes"
	"testing"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		size       uint64
		blockSize  int
		wantBlocks uint64
		wantErr    bool
	}{
		{"exact", 4096, 512, 8, false},
		{"rounded down", 4096 + 100, 512, 8, false},
		{"large blocks", 1 << 20, 4096, 256, false},
		{"too small", 100, 512, 0, true},
		{"zero block size", 4096, 0, 0, true},
		{"odd block size", 4096, 500, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, err := New(tt.size, tt.blockSize)
			if tt.wantErr {
				assert.ErrorIs(t, err, pkg.ErrInvalidParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBlocks, dev.NumBlocks())
			assert.Equal(t, tt.blockSize, dev.BlockSize())
		})
	}
}

func TestDevice_Identity(t *testing.T) {
	dev, err := New(4096, 512)
	require.NoError(t, err)

	assert.Equal(t, driver.Block, dev.DeviceType())
	assert.Equal(t, Name, dev.DeviceName())
}

func TestDevice_ReadWrite(t *testing.T) {
	dev, err := New(8*512, 512)
	require.NoError(t, err)

	// Fresh disk reads as zeros
	buf := make([]byte, 512)
	require.NoError(t, dev.ReadBlock(3, buf))
	assert.Equal(t, make([]byte, 512), buf)

	// Multi-block write then read back
	data := bytes.Repeat([]byte{0xA5}, 1024)
	require.NoError(t, dev.WriteBlock(2, data))

	got := make([]byte, 1024)
	require.NoError(t, dev.ReadBlock(2, got))
	assert.Equal(t, data, got)

	// Neighbouring blocks are untouched
	require.NoError(t, dev.ReadBlock(4, buf))
	assert.Equal(t, make([]byte, 512), buf)

	assert.NoError(t, dev.Flush())
}

func TestDevice_OutOfRange(t *testing.T) {
	dev, err := New(8*512, 512)
	require.NoError(t, err)

	assert.ErrorIs(t, dev.ReadBlock(8, make([]byte, 512)), pkg.ErrInvalidParam)
	assert.ErrorIs(t, dev.WriteBlock(7, make([]byte, 1024)), pkg.ErrInvalidParam)
	assert.ErrorIs(t, dev.ReadBlock(0, make([]byte, 10)), pkg.ErrInvalidParam)
}

func TestDevice_ReadOnly(t *testing.T) {
	dev, err := New(8*512, 512)
	require.NoError(t, err)

	dev.SetReadOnly(true)
	assert.True(t, dev.IsReadOnly())
	assert.ErrorIs(t, dev.WriteBlock(0, make([]byte, 512)), pkg.ErrBadState)
	assert.NoError(t, dev.ReadBlock(0, make([]byte, 512)))

	dev.SetReadOnly(false)
	assert.NoError(t, dev.WriteBlock(0, make([]byte, 512)))
}

func TestFromImage(t *testing.T) {
	image := bytes.Repeat([]byte{1, 2, 3, 4}, 256)
	dev, err := FromImage(image, 512)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), dev.NumBlocks())

	// The disk owns a copy
	image[0] = 0xFF
	buf := make([]byte, 512)
	require.NoError(t, dev.ReadBlock(0, buf))
	assert.Equal(t, byte(1), buf[0])

	_, err = FromImage(image[:100], 512)
	assert.ErrorIs(t, err, pkg.ErrInvalidParam)
}
