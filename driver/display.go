package driver

// DisplayInfo describes a framebuffer.
type DisplayInfo struct {
	Width  uint32 // Visible width in pixels
	Height uint32 // Visible height in pixels
	Stride uint32 // Bytes per row
	Size   int    // Framebuffer size in bytes
}

// FrameBuffer is the pixel memory of a display device. Pixels are 32-bit
// little-endian BGRA.
type FrameBuffer struct {
	raw []byte
}

// NewFrameBuffer wraps raw pixel memory.
func NewFrameBuffer(raw []byte) FrameBuffer {
	return FrameBuffer{raw: raw}
}

// Bytes returns the pixel memory.
func (f FrameBuffer) Bytes() []byte {
	return f.raw
}

// Len returns the framebuffer size in bytes.
func (f FrameBuffer) Len() int {
	return len(f.raw)
}

// DisplayDriverOps is the capability set of graphics display devices.
type DisplayDriverOps interface {
	BaseDriverOps

	// Info returns the framebuffer geometry.
	Info() DisplayInfo

	// FrameBuffer returns the framebuffer memory.
	FrameBuffer() FrameBuffer

	// NeedFlush reports whether writes to the framebuffer only become
	// visible after Flush.
	NeedFlush() bool

	// Flush makes framebuffer writes visible.
	Flush() error
}
