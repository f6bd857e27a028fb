package driver

import (
	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/pkg"
)

// BlockDriverOps is the capability set of block storage devices.
type BlockDriverOps interface {
	BaseDriverOps

	// NumBlocks returns the number of blocks on the device.
	NumBlocks() uint64

	// BlockSize returns the size of a block in bytes.
	BlockSize() int

	// ReadBlock reads len(buf)/BlockSize() consecutive blocks starting at
	// blockID into buf. The length of buf must be a non-zero multiple of
	// the block size.
	ReadBlock(blockID uint64, buf []byte) error

	// WriteBlock writes len(buf)/BlockSize() consecutive blocks starting at
	// blockID from buf. The length of buf must be a non-zero multiple of
	// the block size.
	WriteBlock(blockID uint64, buf []byte) error

	// Flush writes any cached data to the backing medium.
	Flush() error
}

// CheckBlockRange validates a block transfer of len(buf) bytes starting at
// blockID against a device of numBlocks blocks of blockSize bytes each.
// It returns the number of blocks covered by buf.
func CheckBlockRange(numBlocks uint64, blockSize int, blockID uint64, buf []byte) (uint64, error) {
	if blockSize <= 0 {
		return 0, pkg.ErrBadState
	}
	if len(buf) == 0 || len(buf)%blockSize != 0 {
		return 0, errors.Wrapf(pkg.ErrInvalidParam, "buffer length %d is not a multiple of block size %d",
			len(buf), blockSize)
	}
	count := uint64(len(buf) / blockSize)
	if blockID >= numBlocks || count > numBlocks-blockID {
		return 0, errors.Wrapf(pkg.ErrInvalidParam, "blocks [%d, %d) out of range (%d blocks)",
			blockID, blockID+count, numBlocks)
	}
	return count, nil
}
