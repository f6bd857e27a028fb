package main

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/ardnew/softdrv/bus/devtree"
	"github.com/ardnew/softdrv/bus/pci"
	"github.com/ardnew/softdrv/devices"
	"github.com/ardnew/softdrv/pkg"
	"github.com/ardnew/softdrv/pkg/config"
	"github.com/ardnew/softdrv/pkg/inventory"
)

func boot(ctx *cli.Context) error {
	features, err := loadFeatures(ctx.String("config"))
	if err != nil {
		return err
	}
	if path := ctx.String("devtree"); path != "" {
		features.Buses.DevTree = true
		features.DevTree.Path = path
	}
	if dir := ctx.String("sysfs"); dir != "" {
		features.Buses.PCI = true
		features.PCI.SysfsRoot = dir
	}

	format, err := inventory.ParseFormat(ctx.String("format"))
	if err != nil {
		return err
	}

	buses, err := newBuses(features)
	if err != nil {
		return err
	}

	all, err := devices.Init(features, devices.WithBuses(buses...))
	if err != nil {
		return err
	}

	inv := inventory.Take(all)
	sys := attach(all)
	if ctx.Bool("selftest") {
		if err := sys.selftest(); err != nil {
			return errors.Wrap(err, "self-test")
		}
		pkg.LogInfo(componentBoot, "self-test passed")
	}

	return inventory.Encode(ctx.App.Writer, inv, format)
}

// loadFeatures returns the feature set in path, or the built-in defaults
// when path is empty.
func loadFeatures(path string) (config.Features, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newBuses returns the buses enabled in f, device tree first.
func newBuses(f config.Features) ([]devices.Bus, error) {
	var buses []devices.Bus
	if f.Buses.DevTree {
		tree, err := devtree.New(f.DevTree.Path, devtree.DefaultTable())
		if err != nil {
			return nil, err
		}
		buses = append(buses, tree)
	}
	if f.Buses.PCI {
		buses = append(buses, pci.New(f.PCI.SysfsRoot, pci.DefaultTable()))
	}
	return buses, nil
}
