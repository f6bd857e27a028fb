package ramdisk

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

// Name is the device name reported by every RAM disk.
const Name = "ramdisk"

// DefaultBlockSize is the block size used when none is configured.
const DefaultBlockSize = 512

// Device is a block device backed by an in-memory buffer.
type Device struct {
	data      []byte
	blockSize int
	readOnly  bool
	mutex     sync.RWMutex
}

// Ensure Device implements driver.BlockDriverOps.
var _ driver.BlockDriverOps = (*Device)(nil)

// New creates a RAM disk of size bytes divided into blocks of blockSize
// bytes. The size is rounded down to a whole number of blocks.
func New(size uint64, blockSize int) (*Device, error) {
	if blockSize <= 0 || blockSize&(blockSize-1) != 0 {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "block size %d is not a power of two",
			blockSize)
	}
	blocks := size / uint64(blockSize)
	if blocks == 0 {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "%d bytes is smaller than one %d-byte block",
			size, blockSize)
	}
	return &Device{
		data:      make([]byte, blocks*uint64(blockSize)),
		blockSize: blockSize,
	}, nil
}

// FromImage creates a RAM disk holding a copy of image. The image length
// must be a non-zero multiple of blockSize.
func FromImage(image []byte, blockSize int) (*Device, error) {
	if blockSize <= 0 || len(image) == 0 || len(image)%blockSize != 0 {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "image of %d bytes with block size %d",
			len(image), blockSize)
	}
	data := make([]byte, len(image))
	copy(data, image)
	return &Device{data: data, blockSize: blockSize}, nil
}

// DeviceType returns driver.Block.
func (d *Device) DeviceType() driver.DeviceType {
	return driver.Block
}

// DeviceName returns Name.
func (d *Device) DeviceName() string {
	return Name
}

// NumBlocks returns the number of blocks.
func (d *Device) NumBlocks() uint64 {
	return uint64(len(d.data) / d.blockSize)
}

// BlockSize returns the block size.
func (d *Device) BlockSize() int {
	return d.blockSize
}

// ReadBlock copies blocks from memory into buf.
func (d *Device) ReadBlock(blockID uint64, buf []byte) error {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	if _, err := driver.CheckBlockRange(d.NumBlocks(), d.blockSize, blockID, buf); err != nil {
		return err
	}
	offset := blockID * uint64(d.blockSize)
	copy(buf, d.data[offset:offset+uint64(len(buf))])
	return nil
}

// WriteBlock copies blocks from buf into memory.
func (d *Device) WriteBlock(blockID uint64, buf []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.readOnly {
		return errors.Wrapf(pkg.ErrBadState, "%s is read-only", Name)
	}
	if _, err := driver.CheckBlockRange(d.NumBlocks(), d.blockSize, blockID, buf); err != nil {
		return err
	}
	offset := blockID * uint64(d.blockSize)
	copy(d.data[offset:offset+uint64(len(buf))], buf)
	return nil
}

// Flush is a no-op for memory.
func (d *Device) Flush() error {
	return nil
}

// IsReadOnly returns whether the disk rejects writes.
func (d *Device) IsReadOnly() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.readOnly
}

// SetReadOnly sets the read-only flag.
func (d *Device) SetReadOnly(readOnly bool) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.readOnly = readOnly
}
