// Package diskimg implements a block device backed by a disk image file.
//
// Blocks map linearly onto the file: block n occupies bytes
// [n*BlockSize, (n+1)*BlockSize). Flush syncs the file to stable storage.
// A missing image is reported as [pkg.ErrNoDevice] so that the probe
// protocol treats it as absent hardware rather than a fault.
package diskimg
