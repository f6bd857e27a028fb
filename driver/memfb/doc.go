// Package memfb implements a display device whose framebuffer lives in
// ordinary memory.
//
// Pixels are 32-bit BGRA, rows are tightly packed. A single-buffered device
// shows writes immediately; a double-buffered device shows them after Flush.
package memfb
