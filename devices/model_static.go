//go:build !dyn

package devices

import "github.com/ardnew/softdrv/driver"

const deviceModel = ModelStatic

// DeviceContainer is the container used for every category. Without the
// dyn build tag it holds at most one device.
type DeviceContainer[T driver.BaseDriverOps] struct {
	StaticContainer[T]
}
