//go:build dyn

package devices

import "github.com/ardnew/softdrv/driver"

const deviceModel = ModelDynamic

// DeviceContainer is the container used for every category. With the dyn
// build tag it holds any number of devices in discovery order.
type DeviceContainer[T driver.BaseDriverOps] struct {
	DynamicContainer[T]
}
