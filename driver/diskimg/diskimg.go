package diskimg

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

// Name is the device name reported by every disk image.
const Name = "disk-image"

// Images opened by this process, keyed by absolute path. An image backs at
// most one Device at a time.
var (
	openImages = make(map[string]struct{})
	openMutex  sync.Mutex
)

func claim(path string) (string, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(pkg.ErrInvalidParam, "disk image %s: %v", path, err)
	}
	openMutex.Lock()
	defer openMutex.Unlock()
	if _, ok := openImages[key]; ok {
		return "", errors.Wrapf(pkg.ErrResourceBusy, "disk image %s is already open", path)
	}
	openImages[key] = struct{}{}
	return key, nil
}

func release(key string) {
	openMutex.Lock()
	defer openMutex.Unlock()
	delete(openImages, key)
}

// Device is a block device backed by a disk image file.
type Device struct {
	file      *os.File
	path      string
	key       string
	blockSize int
	blocks    uint64
	readOnly  bool
	mutex     sync.RWMutex
}

// Ensure Device implements driver.BlockDriverOps.
var _ driver.BlockDriverOps = (*Device)(nil)

// Open opens the disk image at path. Trailing bytes that do not fill a
// whole block are not addressable. If readOnly is true the file is opened
// read-only and writes fail with pkg.ErrBadState. Opening an image that
// another Device still holds fails with pkg.ErrResourceBusy.
func Open(path string, blockSize int, readOnly bool) (_ *Device, err error) {
	if blockSize <= 0 || blockSize&(blockSize-1) != 0 {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "block size %d is not a power of two", blockSize)
	}

	key, err := claim(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			release(key)
		}
	}()

	flags := os.O_RDWR
	if readOnly {
		flags = os.O_RDONLY
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(pkg.ErrNoDevice, "disk image %s", path)
		}
		return nil, errors.Wrapf(pkg.ErrIO, "open %s: %v", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(pkg.ErrIO, "stat %s: %v", path, err)
	}

	blocks := uint64(stat.Size()) / uint64(blockSize)
	if blocks == 0 {
		file.Close()
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "disk image %s is smaller than one block", path)
	}

	return &Device{
		file:      file,
		path:      path,
		key:       key,
		blockSize: blockSize,
		blocks:    blocks,
		readOnly:  readOnly,
	}, nil
}

// DeviceType returns driver.Block.
func (d *Device) DeviceType() driver.DeviceType {
	return driver.Block
}

// DeviceName returns Name.
func (d *Device) DeviceName() string {
	return Name
}

// Path returns the path of the image file.
func (d *Device) Path() string {
	return d.path
}

// NumBlocks returns the number of addressable blocks.
func (d *Device) NumBlocks() uint64 {
	return d.blocks
}

// BlockSize returns the block size.
func (d *Device) BlockSize() int {
	return d.blockSize
}

// ReadBlock reads blocks from the image file.
func (d *Device) ReadBlock(blockID uint64, buf []byte) error {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	if d.file == nil {
		return pkg.ErrBadState
	}
	if _, err := driver.CheckBlockRange(d.blocks, d.blockSize, blockID, buf); err != nil {
		return err
	}

	n, err := d.file.ReadAt(buf, int64(blockID)*int64(d.blockSize))
	if err != nil && !(err == io.EOF && n == len(buf)) {
		return errors.Wrapf(pkg.ErrIO, "read block %d: %v", blockID, err)
	}
	return nil
}

// WriteBlock writes blocks to the image file.
func (d *Device) WriteBlock(blockID uint64, buf []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.file == nil {
		return pkg.ErrBadState
	}
	if d.readOnly {
		return errors.Wrapf(pkg.ErrBadState, "%s is read-only", d.path)
	}
	if _, err := driver.CheckBlockRange(d.blocks, d.blockSize, blockID, buf); err != nil {
		return err
	}

	if _, err := d.file.WriteAt(buf, int64(blockID)*int64(d.blockSize)); err != nil {
		return errors.Wrapf(pkg.ErrIO, "write block %d: %v", blockID, err)
	}
	return nil
}

// Flush syncs file writes to disk.
func (d *Device) Flush() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.file == nil {
		return pkg.ErrBadState
	}
	if d.readOnly {
		return nil
	}
	if err := d.file.Sync(); err != nil {
		return errors.Wrapf(pkg.ErrIO, "sync %s: %v", d.path, err)
	}
	return nil
}

// IsReadOnly returns whether the image was opened read-only.
func (d *Device) IsReadOnly() bool {
	return d.readOnly
}

// Close closes the underlying file and releases the image for another Open.
func (d *Device) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		release(d.key)
		return err
	}
	return nil
}
