// Package devtree implements a device bus backed by a device tree
// description.
//
// The description is a YAML document listing device nodes. Each node names
// the drivers it is compatible with, most specific first, and carries
// driver properties:
//
//	nodes:
//	  - name: ramdisk@0
//	    compatible: ["board,fast-ram", "softdrv,ramdisk"]
//	    properties:
//	      size: 16MiB
//	      block-size: 4096
//	  - name: fb@0
//	    compatible: ["softdrv,memfb"]
//	    status: disabled
//
// [Bus.Probe] walks the nodes in document order. Disabled nodes and nodes
// without a known compatible string are skipped. A node whose factory
// fails is reported as a probe failure and the walk continues.
//
// Properties are decoded into parameter structs by [Node.Decode] using
// prop struct tags.
package devtree
