package memfb

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

// Name is the device name reported by every memory framebuffer.
const Name = "memfb"

// BytesPerPixel is the pixel size of the BGRA framebuffer format.
const BytesPerPixel = 4

// Config configures a memory framebuffer.
type Config struct {
	Width  uint32
	Height uint32

	// DoubleBuffered makes the framebuffer returned by FrameBuffer a back
	// buffer whose contents become visible on Flush.
	DoubleBuffered bool
}

// Device is a display device backed by host memory.
type Device struct {
	info    driver.DisplayInfo
	back    []byte
	front   []byte
	flushes uint64
	mutex   sync.Mutex
}

// Ensure Device implements driver.DisplayDriverOps.
var _ driver.DisplayDriverOps = (*Device)(nil)

// New allocates a framebuffer of the configured geometry.
func New(cfg Config) (*Device, error) {
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, errors.Wrapf(pkg.ErrInvalidParam, "framebuffer %dx%d", cfg.Width, cfg.Height)
	}
	stride := cfg.Width * BytesPerPixel
	size := int(stride) * int(cfg.Height)

	d := &Device{
		info: driver.DisplayInfo{
			Width:  cfg.Width,
			Height: cfg.Height,
			Stride: stride,
			Size:   size,
		},
		front: make([]byte, size),
	}
	if cfg.DoubleBuffered {
		d.back = make([]byte, size)
	}
	return d, nil
}

// DeviceType returns driver.Display.
func (d *Device) DeviceType() driver.DeviceType {
	return driver.Display
}

// DeviceName returns Name.
func (d *Device) DeviceName() string {
	return Name
}

// Info returns the framebuffer geometry.
func (d *Device) Info() driver.DisplayInfo {
	return d.info
}

// FrameBuffer returns the buffer that drawing code writes to.
func (d *Device) FrameBuffer() driver.FrameBuffer {
	if d.back != nil {
		return driver.NewFrameBuffer(d.back)
	}
	return driver.NewFrameBuffer(d.front)
}

// NeedFlush reports whether the device is double buffered.
func (d *Device) NeedFlush() bool {
	return d.back != nil
}

// Flush copies the back buffer to the visible buffer.
func (d *Device) Flush() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.back != nil {
		copy(d.front, d.back)
	}
	d.flushes++
	return nil
}

// Visible returns the pixels currently shown.
func (d *Device) Visible() []byte {
	return d.front
}

// Flushes returns the number of Flush calls.
func (d *Device) Flushes() uint64 {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.flushes
}
