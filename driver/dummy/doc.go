// Package dummy provides fallback devices for each device category.
//
// A fallback device gives a category a concrete driver when the category is
// enabled but no real driver is selected. It is never produced by a probe,
// so no consumer observes it performing I/O. Invoked directly it behaves
// deterministically:
//
//   - mutating and data-returning operations return [pkg.ErrUnsupported]
//   - boolean capability queries return false
//   - size and count queries return 0
//   - MACAddress, Info and FrameBuffer panic, since no safe value exists
//
// The types are zero-sized values; construct them on demand.
package dummy
