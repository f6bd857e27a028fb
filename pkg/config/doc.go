// Package config holds the build configuration of the driver layer.
//
// [Features] enumerates the device categories, drivers and buses that make
// up a build, together with their parameters. The defaults are embedded in
// the binary from defconfig.yaml; a YAML or TOML file can override any
// subset of them:
//
//	block: true
//	drivers:
//	  ramdisk: true
//	ramdisk:
//	  size: 16MiB
//
// A category is implied by any of its drivers. A category that is enabled
// without a driver still exists; it is served by a fallback device type and
// stays empty after probing.
//
// The container discipline (one device per category or many) is not part of
// Features. It is fixed by the dyn build tag.
package config
