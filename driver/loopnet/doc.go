// Package loopnet implements a loopback network interface.
//
// Every frame passed to Transmit appears, in order, on the receive queue of
// the same device. The device owns a fixed pool of packet buffers; a frame
// goes through the following cycle:
//
//	buf, _ := dev.AllocTxBuffer(len(frame))
//	copy(buf.Packet(), frame)
//	dev.Transmit(buf)          // pkg.ErrAgain when the queue is full
//	rx, _ := dev.Receive()     // pkg.ErrAgain when nothing is queued
//	dev.RecycleRxBuffer(rx)
//
// Without a configured address the interface picks a random locally
// administered unicast MAC address.
package loopnet
