package driver

// DeviceType identifies the category of a device.
type DeviceType uint8

// Device categories.
const (
	Net     DeviceType = iota // Network interface controller
	Block                     // Block storage device
	Display                   // Graphics display device
)

// DeviceTypes lists every category in canonical order.
var DeviceTypes = [...]DeviceType{Net, Block, Display}

// String returns the category name.
func (t DeviceType) String() string {
	switch t {
	case Net:
		return "Net"
	case Block:
		return "Block"
	case Display:
		return "Display"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the defined categories.
func (t DeviceType) Valid() bool {
	return t <= Display
}

// BaseDriverOps is the capability shared by every device driver.
type BaseDriverOps interface {
	// DeviceType returns the category of the device.
	DeviceType() DeviceType

	// DeviceName returns the name of the device.
	DeviceName() string
}
