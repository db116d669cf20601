package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"

	"github.com/saibatizoku/ezo-ph-go"
	"github.com/saibatizoku/ezo-ph-go/adapter"
	"github.com/saibatizoku/ezo-ph-go/i2c"
	"github.com/saibatizoku/ezo-ph-go/ph"
)

// openDevice builds the configured transport and a driver on top of
// it. The returned cleanup releases transport resources and must run
// after the last exchange.
func openDevice(c *cli.Context) (*ph.Device, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.deviceOpts()
	if err != nil {
		return nil, nil, err
	}
	bus, cleanup, err := openBus(cfg)
	if err != nil {
		return nil, nil, err
	}
	return ph.NewDevice(bus, opts...), cleanup, nil
}

func openBus(cfg Config) (ezoph.I2CBus, func(), error) {
	switch cfg.Adapter {
	case "mcp2221":
		bridge := adapter.NewMCP2221()
		return bridge, func() {
			_ = bridge.Release(context.Background())
		}, nil
	case "i2cdev":
		bus, err := i2c.NewGenericBus(cfg.Bus)
		if err != nil {
			return nil, nil, err
		}
		return bus, func() {
			_ = bus.Close()
		}, nil
	case "nanopi":
		busNum := 0
		if cfg.Bus != "" {
			n, err := strconv.Atoi(cfg.Bus)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid gobot bus number %q: %w", cfg.Bus, err)
			}
			busNum = n
		}
		npi := nanopi.NewNeoAdaptor()
		if err := npi.I2cBusAdaptor.Connect(); err != nil {
			return nil, nil, fmt.Errorf("adaptor connect error: %w", err)
		}
		bus := i2c.NewAdaptorBus(npi, busNum)
		return bus, func() {
			_ = bus.Release(context.Background())
			_ = npi.I2cBusAdaptor.Finalize()
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown adapter %q", cfg.Adapter)
}
