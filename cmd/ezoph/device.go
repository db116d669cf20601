package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/saibatizoku/ezo-ph-go/cmd/ezoph/console"
)

var deviceCmd = cli.Command{
	Name:    "device",
	Aliases: []string{"dev"},
	Usage:   "chip-level operations",
	Subcommands: cli.Commands{
		&deviceInfoCmd,
		&deviceStatusCmd,
		&deviceSlopeCmd,
		&deviceFindCmd,
		&deviceSleepCmd,
		&deviceFactoryCmd,
		&deviceAddressCmd,
		&deviceLedCmd,
		&devicePlockCmd,
	},
}

var deviceInfoCmd = cli.Command{
	Name:  "info",
	Usage: "report chip model and firmware version",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		info, err := dev.GetInfo(ctx)
		if err != nil {
			return console.Exit(1, "error getting device info: %s", console.Red(err))
		}
		console.PInfof(console.PictoChip, "device %s firmware %s", console.White(info.Device), console.White(info.Firmware))
		return nil
	},
}

var deviceStatusCmd = cli.Command{
	Name:  "status",
	Usage: "report restart reason and supply voltage",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		status, err := dev.GetStatus(ctx)
		if err != nil {
			return console.Exit(1, "error getting device status: %s", console.Red(err))
		}
		console.Infof("last restart: %s", console.White(status.Restart))
		console.Infof("vcc: %s V", console.White(status.Vcc))
		return nil
	},
}

var deviceSlopeCmd = cli.Command{
	Name:  "slope",
	Usage: "report probe slope against an ideal probe",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		slope, err := dev.GetSlope(ctx)
		if err != nil {
			return console.Exit(1, "error getting slope: %s", console.Red(err))
		}
		console.Infof("acid end: %s%%", console.White(slope.AcidEnd))
		console.Infof("base end: %s%%", console.White(slope.BaseEnd))
		return nil
	},
}

var deviceFindCmd = cli.Command{
	Name:  "find",
	Usage: "blink the chip LED for identification",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.Find(ctx)
		if err != nil {
			return console.Exit(1, "error blinking led: %s", console.Red(err))
		}
		console.PInfof(console.PictoFlash, "led blinking")
		return nil
	},
}

var deviceSleepCmd = cli.Command{
	Name:  "sleep",
	Usage: "power the chip down until the next bus transaction",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.Sleep(ctx)
		if err != nil {
			return console.Exit(1, "error entering sleep: %s", console.Red(err))
		}
		console.Info("chip sleeping")
		return nil
	},
}

var deviceFactoryCmd = cli.Command{
	Name:  "factory",
	Usage: "wipe settings and calibration, then reboot the chip",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "yes",
			Usage: "skip confirmation",
		},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("wipe calibration and settings?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Info("aborted")
				return nil
			}
		}
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.FactoryReset(ctx)
		if err != nil {
			return console.Exit(1, "error resetting chip: %s", console.Red(err))
		}
		console.PInfof(console.PictoWarning, " chip reset to factory defaults")
		return nil
	},
}

var deviceAddressCmd = cli.Command{
	Name:      "address",
	Usage:     "move the chip to a new 7-bit I2C address",
	ArgsUsage: "<address>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "yes",
			Usage: "skip confirmation",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "usage: ezoph device address <address>")
		}
		addr, err := strconv.ParseUint(c.Args().First(), 0, 8)
		if err != nil {
			return console.Exit(1, "invalid address %q", c.Args().First())
		}
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("move the chip to a new address? update your profiles afterwards")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.Info("aborted")
				return nil
			}
		}
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.ChangeAddress(ctx, byte(addr))
		if err != nil {
			return console.Exit(1, "error changing address: %s", console.Red(err))
		}
		console.Infof("chip now at %s", console.White(strconv.FormatUint(addr, 10)))
		return nil
	},
}

var deviceLedCmd = cli.Command{
	Name:      "led",
	Usage:     "control the status LED",
	ArgsUsage: "on|off|status",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		switch c.Args().First() {
		case "on":
			err = dev.SetLed(ctx, true)
		case "off":
			err = dev.SetLed(ctx, false)
		case "status", "":
			var on bool
			on, err = dev.GetLed(ctx)
			if err == nil {
				state := "off"
				if on {
					state = "on"
				}
				console.PInfof(console.PictoFlash, "led %s", console.White(state))
				return nil
			}
		default:
			return console.Exit(1, "usage: ezoph device led on|off|status")
		}
		if err != nil {
			return console.Exit(1, "led error: %s", console.Red(err))
		}
		return nil
	},
}

var devicePlockCmd = cli.Command{
	Name:      "plock",
	Usage:     "control the protocol lock (pin the chip to I2C mode)",
	ArgsUsage: "on|off|status",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		switch c.Args().First() {
		case "on":
			err = dev.SetProtocolLock(ctx, true)
		case "off":
			err = dev.SetProtocolLock(ctx, false)
		case "status", "":
			var locked bool
			locked, err = dev.GetProtocolLock(ctx)
			if err == nil {
				state := "off"
				if locked {
					state = "on"
				}
				console.Infof("protocol lock %s", console.White(state))
				return nil
			}
		default:
			return console.Exit(1, "usage: ezoph device plock on|off|status")
		}
		if err != nil {
			return console.Exit(1, "protocol lock error: %s", console.Red(err))
		}
		return nil
	},
}
