package devtree

import (
	"bytes"
	"fmt"
	"iter"
	"os"
	"reflect"

	"github.com/docker/go-units"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ardnew/softdrv/devices"
	"github.com/ardnew/softdrv/pkg"
)

// Name is the bus name reported in log records.
const Name = "devtree"

// Node status values.
const (
	StatusOkay     = "okay"
	StatusDisabled = "disabled"
)

// Node is one device description.
type Node struct {
	Name       string         `yaml:"name"`
	Compatible []string       `yaml:"compatible"`
	Status     string         `yaml:"status"`
	Properties map[string]any `yaml:"properties"`
}

// Enabled reports whether the node should be probed. An empty status means
// okay.
func (n Node) Enabled() bool {
	switch n.Status {
	case "", StatusOkay, "ok":
		return true
	default:
		return false
	}
}

// Decode copies the node properties into the struct pointed to by out,
// matching fields by their prop tag. Strings are converted to numbers and
// booleans where needed, and human-readable sizes such as "4MiB" are
// accepted for Size fields. Unknown properties are an error.
func (n Node) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "prop",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       sizeHook,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "properties decoder")
	}
	if err := dec.Decode(n.Properties); err != nil {
		return errors.Wrapf(pkg.ErrInvalidParam, "node %s properties: %v", n.Name, err)
	}
	return nil
}

// Size is a byte count property. It accepts integers and human-readable
// strings in binary units.
type Size uint64

var sizeType = reflect.TypeOf(Size(0))

func sizeHook(from, to reflect.Type, data any) (any, error) {
	if to != sizeType || from.Kind() != reflect.String {
		return data, nil
	}
	n, err := units.RAMInBytes(data.(string))
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative size %q", data)
	}
	return Size(n), nil
}

// Factory builds the device described by a matched node.
type Factory func(node Node) (devices.Device, error)

// Table maps compatible strings to device factories.
type Table map[string]Factory

// Bus enumerates the enabled nodes of a device tree description.
type Bus struct {
	nodes []Node
	table Table
}

var _ devices.Bus = (*Bus)(nil)

// Parse decodes a YAML device tree of the form
//
//	nodes:
//	  - name: ramdisk@0
//	    compatible: ["softdrv,ramdisk"]
//	    properties: {size: 1MiB}
//
// Node names must be present and unique.
func Parse(data []byte, table Table) (*Bus, error) {
	var doc struct {
		Nodes []Node `yaml:"nodes"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrapf(pkg.ErrInvalidConfig, "device tree: %v", err)
	}

	var result *multierror.Error
	seen := make(map[string]bool, len(doc.Nodes))
	for i, node := range doc.Nodes {
		switch {
		case node.Name == "":
			result = multierror.Append(result,
				errors.Wrapf(pkg.ErrInvalidConfig, "device tree node %d has no name", i))
		case seen[node.Name]:
			result = multierror.Append(result,
				errors.Wrapf(fmt.Errorf("%w: %w", pkg.ErrInvalidConfig, pkg.ErrAlreadyExists),
					"device tree node %s", node.Name))
		}
		seen[node.Name] = true
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Bus{nodes: doc.Nodes, table: table}, nil
}

// New reads and parses the device tree description at path.
func New(path string, table Table) (*Bus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read device tree")
	}
	b, err := Parse(data, table)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	pkg.LogDebug(pkg.ComponentBus, "device tree loaded", "path", path, "nodes", len(b.nodes))
	return b, nil
}

// Name returns "devtree".
func (b *Bus) Name() string {
	return Name
}

// Nodes returns the parsed nodes in document order.
func (b *Bus) Nodes() []Node {
	return b.nodes
}

// Probe yields the device of every enabled node whose compatible list has
// an entry in the table, in document order. The first compatible string
// with a factory wins. A factory error is yielded as a probe failure naming
// the node.
func (b *Bus) Probe() iter.Seq2[devices.Device, error] {
	return func(yield func(devices.Device, error) bool) {
		for _, node := range b.nodes {
			if !node.Enabled() {
				pkg.LogDebug(pkg.ComponentBus, "skipping disabled node", "node", node.Name)
				continue
			}
			factory, compatible := b.lookup(node)
			if factory == nil {
				pkg.LogDebug(pkg.ComponentBus, "no driver for node",
					"node", node.Name, "compatible", node.Compatible)
				continue
			}
			dev, err := factory(node)
			if err != nil {
				err = fmt.Errorf("node %s (%s): %w: %w", node.Name, compatible, pkg.ErrProbeFailed, err)
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(dev, nil) {
				return
			}
		}
	}
}

func (b *Bus) lookup(node Node) (Factory, string) {
	for _, c := range node.Compatible {
		if f, ok := b.table[c]; ok {
			return f, c
		}
	}
	return nil, ""
}
