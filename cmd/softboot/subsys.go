package main

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/ardnew/softdrv/devices"
	"github.com/ardnew/softdrv/driver"
	"github.com/ardnew/softdrv/pkg"
)

// etherTypeLocal is the IEEE local experimental EtherType.
const etherTypeLocal = 0x88b5

// system holds the device containers after they were handed to their
// subsystems. A nil container means the category is disabled.
type system struct {
	net     *netStack
	block   *blockLayer
	display *console
}

// attach distributes the containers of all to the subsystems.
func attach(all *devices.AllDevices) *system {
	sys := &system{}
	if c := all.TakeNet(); c != nil {
		sys.net = &netStack{nics: c}
	}
	if c := all.TakeBlock(); c != nil {
		sys.block = &blockLayer{disks: c}
	}
	if c := all.TakeDisplay(); c != nil {
		sys.display = &console{fbs: c}
	}
	return sys
}

func (s *system) selftest() error {
	if s.net != nil {
		if err := s.net.selftest(); err != nil {
			return err
		}
	}
	if s.block != nil {
		if err := s.block.selftest(); err != nil {
			return err
		}
	}
	if s.display != nil {
		if err := s.display.selftest(); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Network
// =============================================================================

type netStack struct {
	nics *devices.DeviceContainer[driver.NetDriverOps]
}

// selftest sends one frame addressed to each interface. Interfaces that
// deliver their own frames back must return it unchanged.
func (n *netStack) selftest() error {
	for i, nic := range n.nics.All() {
		frame := testFrame(nic.MACAddress(), i)

		tx, err := nic.AllocTxBuffer(len(frame))
		if err != nil {
			return errors.Wrapf(err, "nic %d: alloc", i)
		}
		copy(tx.Packet(), frame)
		if err := nic.Transmit(tx); err != nil {
			return errors.Wrapf(err, "nic %d: transmit", i)
		}
		if err := nic.RecycleTxBuffers(); err != nil {
			return errors.Wrapf(err, "nic %d: recycle tx", i)
		}

		rx, err := nic.Receive()
		if errors.Is(err, pkg.ErrAgain) {
			pkg.LogDebug(pkg.ComponentNet, "no frame echoed", "nic", i, "name", nic.DeviceName())
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "nic %d: receive", i)
		}
		ok := bytes.Equal(rx.Packet(), frame)
		if err := nic.RecycleRxBuffer(rx); err != nil {
			return errors.Wrapf(err, "nic %d: recycle rx", i)
		}
		if !ok {
			return errors.Wrapf(pkg.ErrIO, "nic %d: echoed frame differs", i)
		}
		pkg.LogInfo(pkg.ComponentNet, "nic ok", "nic", i, "name", nic.DeviceName(),
			"mac", nic.MACAddress().String())
	}
	return nil
}

// testFrame builds a minimum-size Ethernet frame from mac to itself.
func testFrame(mac driver.EthernetAddress, seq int) []byte {
	frame := make([]byte, 60)
	copy(frame[0:6], mac[:])
	copy(frame[6:12], mac[:])
	binary.BigEndian.PutUint16(frame[12:14], etherTypeLocal)
	binary.BigEndian.PutUint32(frame[14:18], uint32(seq))
	copy(frame[18:], name)
	return frame
}

// =============================================================================
// Block
// =============================================================================

type blockLayer struct {
	disks *devices.DeviceContainer[driver.BlockDriverOps]
}

// selftest writes a pattern to the last block of every disk, reads it back
// and restores the original contents. Read-only disks are only read.
func (b *blockLayer) selftest() error {
	for i, disk := range b.disks.All() {
		last := disk.NumBlocks() - 1
		orig := make([]byte, disk.BlockSize())
		if err := disk.ReadBlock(last, orig); err != nil {
			return errors.Wrapf(err, "disk %d: read", i)
		}

		pattern := make([]byte, disk.BlockSize())
		for j := range pattern {
			pattern[j] = byte(j) ^ 0x5a
		}
		err := disk.WriteBlock(last, pattern)
		if errors.Is(err, pkg.ErrBadState) {
			pkg.LogInfo(pkg.ComponentBlock, "disk ok (read-only)", "disk", i, "name", disk.DeviceName())
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "disk %d: write", i)
		}

		got := make([]byte, disk.BlockSize())
		if err := disk.ReadBlock(last, got); err != nil {
			return errors.Wrapf(err, "disk %d: read back", i)
		}
		if !bytes.Equal(got, pattern) {
			return errors.Wrapf(pkg.ErrIO, "disk %d: block %d reads back differently", i, last)
		}
		if err := disk.WriteBlock(last, orig); err != nil {
			return errors.Wrapf(err, "disk %d: restore", i)
		}
		if err := disk.Flush(); err != nil {
			return errors.Wrapf(err, "disk %d: flush", i)
		}
		pkg.LogInfo(pkg.ComponentBlock, "disk ok", "disk", i, "name", disk.DeviceName(),
			"blocks", disk.NumBlocks())
	}
	return nil
}

// =============================================================================
// Display
// =============================================================================

type console struct {
	fbs *devices.DeviceContainer[driver.DisplayDriverOps]
}

// selftest paints a gradient on every framebuffer and flushes it when the
// display requires it.
func (c *console) selftest() error {
	for i, fb := range c.fbs.All() {
		info := fb.Info()
		pixels := fb.FrameBuffer().Bytes()
		if len(pixels) < info.Size {
			return errors.Wrapf(pkg.ErrBadState, "display %d: framebuffer of %d bytes, want %d",
				i, len(pixels), info.Size)
		}
		for y := uint32(0); y < info.Height; y++ {
			row := pixels[y*info.Stride:]
			for x := uint32(0); x < info.Width; x++ {
				px := row[x*4 : x*4+4]
				px[0] = byte(x)
				px[1] = byte(y)
				px[2] = byte(x ^ y)
				px[3] = 0xff
			}
		}
		if fb.NeedFlush() {
			if err := fb.Flush(); err != nil {
				return errors.Wrapf(err, "display %d: flush", i)
			}
		}
		pkg.LogInfo(pkg.ComponentDisplay, "display ok", "display", i, "name", fb.DeviceName(),
			"width", info.Width, "height", info.Height)
	}
	return nil
}
