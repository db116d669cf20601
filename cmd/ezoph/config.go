package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saibatizoku/ezo-ph-go/ph"
	"github.com/urfave/cli/v2"
)

// Config is the yaml device profile. Flags override file values.
type Config struct {
	Adapter      string       `yaml:"adapter"`
	Bus          string       `yaml:"bus"`
	Address      string       `yaml:"address"`
	ResponseSize int          `yaml:"response_size"`
	Delays       DelaysConfig `yaml:"delays"`
}

type DelaysConfig struct {
	Reading     Duration `yaml:"reading"`
	Calibration Duration `yaml:"calibration"`
	Query       Duration `yaml:"query"`
}

// Duration parses "900ms"-style values from yaml.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func defaultConfig() Config {
	return Config{
		Adapter: "mcp2221",
	}
}

func loadConfig(c *cli.Context) (Config, error) {
	cfg := defaultConfig()
	if path := c.String("config"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("could not read config %s: %w", path, err)
		}
		if err = yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("could not parse config %s: %w", path, err)
		}
	}
	if adapter := c.String("adapter"); adapter != "" {
		cfg.Adapter = adapter
	}
	if bus := c.String("bus"); bus != "" {
		cfg.Bus = bus
	}
	if address := c.String("address"); address != "" {
		cfg.Address = address
	}
	return cfg, nil
}

func (cfg Config) address() (byte, error) {
	if cfg.Address == "" {
		return ph.DefaultAddress, nil
	}
	addr, err := strconv.ParseUint(cfg.Address, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", cfg.Address, err)
	}
	return byte(addr), nil
}

func (cfg Config) deviceOpts() ([]ph.DeviceOpt, error) {
	addr, err := cfg.address()
	if err != nil {
		return nil, err
	}
	opts := []ph.DeviceOpt{ph.WithAddress(addr)}
	if cfg.ResponseSize > 0 {
		opts = append(opts, ph.WithResponseSize(cfg.ResponseSize))
	}
	if cfg.Delays.Reading > 0 {
		opts = append(opts, ph.WithReadingDelay(time.Duration(cfg.Delays.Reading)))
	}
	if cfg.Delays.Calibration > 0 {
		opts = append(opts, ph.WithCalibrationDelay(time.Duration(cfg.Delays.Calibration)))
	}
	if cfg.Delays.Query > 0 {
		opts = append(opts, ph.WithQueryDelay(time.Duration(cfg.Delays.Query)))
	}
	return opts, nil
}
