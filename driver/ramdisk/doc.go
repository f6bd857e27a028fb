// Package ramdisk implements a block device that stores its data in memory.
//
// The disk is sized once at creation and never grows. Reads and writes
// transfer whole blocks; Flush has nothing to do.
//
//	dev, err := ramdisk.New(4<<20, 512)
//	if err != nil {
//	    return err
//	}
//	buf := make([]byte, dev.BlockSize())
//	err = dev.ReadBlock(0, buf)
package ramdisk
