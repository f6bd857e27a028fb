// Package devices discovers the devices of the driver layer and groups them
// by category.
//
// # Tagged Devices
//
// [Device] is a closed sum over the three categories. A variant wraps exactly
// one driver whose reported [driver.DeviceType] equals the variant's tag:
//
//	dev := devices.NewBlock(rd) // panics unless rd reports driver.Block
//
// # Containers
//
// Each category is held in a [DeviceContainer]. Its discipline is chosen at
// build time:
//
//   - default: [StaticContainer], at most one device per category
//   - with the dyn build tag: [DynamicContainer], any number of devices in
//     discovery order
//
// [DeviceModel] reports the discipline compiled into the binary. A second
// device offered to a static container is a capacity violation; [Init]
// aborts with an error wrapping [pkg.ErrCapacity].
//
// # Probing
//
// [Init] runs once at boot. It first calls every driver of the static
// [Registry] in order, then enumerates every [Bus]. A driver that finds no
// hardware reports [pkg.ErrNoDevice]. Any other failure is logged, recorded
// in [AllDevices.ProbeErrors] and skipped.
//
//	all, err := devices.Init(features, devices.WithBuses(tree))
//	if err != nil {
//	    return err
//	}
//	netstack.Init(all.TakeNet())
package devices
