// Command softboot simulates the driver initialization step of a boot.
//
// It resolves the feature set, probes the static driver registry and the
// configured buses, hands each device container to a subsystem and prints
// the device inventory.
//
// Usage:
//
//	softboot [--config FILE] [--devtree FILE] [--sysfs DIR] [--format text|yaml|cbor]
//	         [--log-level LEVEL] [--log-json] [--selftest]
package main

import (
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/ardnew/softdrv/pkg"
	"github.com/ardnew/softdrv/pkg/inventory"
)

const name = "softboot"

// version is set at link time.
var version = "devel"

// Component identifier for boot logging.
const componentBoot pkg.Component = "boot"

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = name
	app.Usage = "initialize the device driver layer and print the device inventory"
	app.Version = version
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "load the feature set from `FILE` (.yaml or .toml)",
		},
		cli.StringFlag{
			Name:  "devtree",
			Usage: "probe the device tree described by `FILE`",
		},
		cli.StringFlag{
			Name:  "sysfs",
			Usage: "probe the PCI functions under the sysfs root `DIR`",
		},
		cli.StringFlag{
			Name:  "format, f",
			Value: string(inventory.FormatText),
			Usage: "inventory output format: text, yaml or cbor",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "minimum log level: debug, info, warn or error",
		},
		cli.BoolFlag{
			Name:  "log-json",
			Usage: "write logs as JSON",
		},
		cli.BoolFlag{
			Name:  "selftest",
			Usage: "exercise every device through its subsystem before printing the inventory",
		},
	}
	app.Before = setupLogging
	app.Action = boot
	return app
}

func setupLogging(ctx *cli.Context) error {
	level, err := pkg.ParseLogLevel(ctx.String("log-level"))
	if err != nil {
		return err
	}
	pkg.SetLogLevel(level)

	format := pkg.LogFormatText
	if ctx.Bool("log-json") {
		format = pkg.LogFormatJSON
	}
	pkg.SetLogOutput(ctx.App.ErrWriter, format)
	return nil
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		pkg.LogError(componentBoot, "boot failed", "error", err)
		os.Exit(1)
	}
}
