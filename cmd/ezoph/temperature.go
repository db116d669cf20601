package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/saibatizoku/ezo-ph-go/cmd/ezoph/console"
)

var temperatureCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Usage:   "manage temperature compensation",
	Subcommands: cli.Commands{
		&temperatureSetCmd,
		&temperatureGetCmd,
	},
}

var temperatureSetCmd = cli.Command{
	Name:      "set",
	Usage:     "set the compensation temperature (not persisted across restarts)",
	ArgsUsage: "<celsius>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "usage: ezoph temperature set <celsius>")
		}
		celsius, err := strconv.ParseFloat(c.Args().First(), 64)
		if err != nil {
			return console.Exit(1, "invalid temperature %q", c.Args().First())
		}
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		err = dev.SetCompensation(ctx, celsius)
		if err != nil {
			return console.Exit(1, "error setting compensation: %s", console.Red(err))
		}
		console.PInfof(console.PictoThermometer, " compensation set to %s", console.White(celsius))
		return nil
	},
}

var temperatureGetCmd = cli.Command{
	Name:  "get",
	Usage: "report the compensation temperature in use",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		temp, err := dev.GetCompensation(ctx)
		if err != nil {
			return console.Exit(1, "error getting compensation: %s", console.Red(err))
		}
		console.PInfof(console.PictoThermometer, " compensation %s", console.White(temp))
		return nil
	},
}
