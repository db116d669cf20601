package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/saibatizoku/ezo-ph-go/cmd/ezoph/console"
)

var calibrateCmd = cli.Command{
	Name:    "calibrate",
	Aliases: []string{"cal"},
	Usage:   "manage probe calibration",
	Subcommands: cli.Commands{
		calibratePointCmd("mid", "store the mid calibration point (clears previous data)"),
		calibratePointCmd("low", "store the low calibration point"),
		calibratePointCmd("high", "store the high calibration point"),
		&calibrateClearCmd,
		&calibrateStatusCmd,
		&calibrateExportCmd,
		&calibrateImportCmd,
	},
}

func calibratePointCmd(point, usage string) *cli.Command {
	return &cli.Command{
		Name:      point,
		Usage:     usage,
		ArgsUsage: "<pH value>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return console.Exit(1, "usage: ezoph calibrate %s <pH value>", point)
			}
			value, err := strconv.ParseFloat(c.Args().First(), 64)
			if err != nil {
				return console.Exit(1, "invalid pH value %q", c.Args().First())
			}
			ctx := context.Background()
			dev, cleanup, err := openDevice(c)
			if err != nil {
				return console.Exit(1, "transport error: %s", console.Red(err))
			}
			defer cleanup()
			switch point {
			case "mid":
				err = dev.CalibrateMid(ctx, value)
			case "low":
				err = dev.CalibrateLow(ctx, value)
			case "high":
				err = dev.CalibrateHigh(ctx, value)
			}
			if err != nil {
				return console.Exit(1, "calibration error: %s", console.Red(err))
			}
			console.Infof("%s point stored at pH %s", point, console.White(value))
			return nil
		},
	}
}

var calibrateClearCmd = cli.Command{
	Name:  "clear",
	Usage: "wipe stored calibration data",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.ClearCalibration(ctx)
		if err != nil {
			return console.Exit(1, "error clearing calibration: %s", console.Red(err))
		}
		console.Info("calibration cleared")
		return nil
	},
}

var calibrateStatusCmd = cli.Command{
	Name:  "status",
	Usage: "report stored calibration points",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		status, err := dev.GetCalibrationStatus(ctx)
		if err != nil {
			return console.Exit(1, "error getting calibration status: %s", console.Red(err))
		}
		console.Infof("calibration: %s", console.White(status))
		return nil
	},
}

var calibrateExportCmd = cli.Command{
	Name:  "export",
	Usage: "print the calibration export, one line per row",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		info, err := dev.GetExportInfo(ctx)
		if err != nil {
			return console.Exit(1, "error getting export info: %s", console.Red(err))
		}
		console.Infof("exporting %s lines (%s bytes)", console.White(info.Lines), console.White(info.TotalBytes))
		for {
			step, err := dev.ExportCalibration(ctx)
			if err != nil {
				return console.Exit(1, "export error: %s", console.Red(err))
			}
			if step.Done {
				return nil
			}
			console.Print(step.Line)
		}
	},
}

var calibrateImportCmd = cli.Command{
	Name:      "import",
	Usage:     "load previously exported calibration lines",
	ArgsUsage: "<line> [line...]",
	Action: func(c *cli.Context) error {
		if c.NArg() == 0 {
			return console.Exit(1, "usage: ezoph calibrate import <line> [line...]")
		}
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		for _, line := range c.Args().Slice() {
			err = dev.ImportCalibration(ctx, line)
			if err != nil {
				return console.Exit(1, "error importing %q: %s", line, console.Red(err))
			}
		}
		// the chip reboots once the last line lands
		console.Infof("imported %s lines", console.White(c.NArg()))
		return nil
	},
}
