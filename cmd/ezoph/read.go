package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/saibatizoku/ezo-ph-go/cmd/ezoph/console"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"r"},
	Usage:   "take a single pH measurement",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:  "temp",
			Usage: "set temperature compensation (Celsius) before reading",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		dev, cleanup, err := openDevice(c)
		if err != nil {
			return console.Exit(1, "transport error: %s", console.Red(err))
		}
		defer cleanup()
		if c.IsSet("temp") {
			err = dev.SetCompensation(ctx, c.Float64("temp"))
			if err != nil {
				return console.Exit(1, "error setting compensation: %s", console.Red(err))
			}
		}
		v, err := dev.GetPH(ctx)
		if err != nil {
			return console.Exit(1, "error getting pH read: %s", console.Red(err))
		}
		console.PInfof(console.PictoTestTube, "pH %s", console.White(v))
		return nil
	},
}
