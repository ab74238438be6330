// Package config loads the bridge configuration from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jdginn/rcposc/devices/yamaha"
	"github.com/jdginn/rcposc/logging"
)

type Config struct {
	Console ConsoleConfig `yaml:"console"`
	OSC     OSCConfig     `yaml:"osc"`
	Connect ConnectConfig `yaml:"connect"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConsoleConfig is the RCP side.
type ConsoleConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type OSCConfig struct {
	OutHost string `yaml:"out_host"`
	OutPort int    `yaml:"out_port"`
	InHost  string `yaml:"in_host"`
	InPort  int    `yaml:"in_port"`
	// MetaControl lets OSC peers change bridge settings under /meta instead of
	// having those messages forwarded to the console.
	MetaControl bool `yaml:"meta_control"`
}

// ConnectConfig bounds the initial TCP connection attempts. There is no
// reconnect once a session has started.
type ConnectConfig struct {
	Attempts     int           `yaml:"attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
	Multiplier   float64       `yaml:"multiplier"`
	Jitter       bool          `yaml:"jitter"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string            `yaml:"level"`
	Levels map[string]string `yaml:"levels"`
}

func Default() Config {
	return Config{
		Console: ConsoleConfig{Port: yamaha.DefaultPort},
		OSC: OSCConfig{
			OutHost:     "127.0.0.1",
			OutPort:     3999,
			InHost:      "0.0.0.0",
			InPort:      4000,
			MetaControl: true,
		},
		Connect: ConnectConfig{
			Attempts:     5,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2,
			Jitter:       true,
		},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values. The result is not validated.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Console.Host == "" {
		errs = append(errs, errors.New("console.host is required"))
	}
	errs = append(errs,
		validatePort("console.port", c.Console.Port),
		validatePort("osc.out_port", c.OSC.OutPort),
		validatePort("osc.in_port", c.OSC.InPort),
	)
	if c.OSC.OutHost == "" {
		errs = append(errs, errors.New("osc.out_host is required"))
	}
	if c.Connect.Attempts < 1 {
		errs = append(errs, fmt.Errorf("connect.attempts must be at least 1, got %d", c.Connect.Attempts))
	}
	if c.Connect.InitialDelay < 0 || c.Connect.MaxDelay < 0 {
		errs = append(errs, errors.New("connect delays must not be negative"))
	}
	if c.Logging.Level != "" {
		if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
			errs = append(errs, fmt.Errorf("logging.level: %w", err))
		}
	}
	for cat, lvl := range c.Logging.Levels {
		if _, err := logging.ParseCategory(cat); err != nil {
			errs = append(errs, fmt.Errorf("logging.levels: %w", err))
		}
		if _, err := logging.ParseLevel(lvl); err != nil {
			errs = append(errs, fmt.Errorf("logging.levels.%s: %w", cat, err))
		}
	}
	return errors.Join(errs...)
}

func validatePort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be in 1..65535, got %d", name, port)
	}
	return nil
}

// ConsoleAddr is the console's host:port.
func (c Config) ConsoleAddr() string {
	return net.JoinHostPort(c.Console.Host, strconv.Itoa(c.Console.Port))
}

// OSCOutAddr is where translated console messages are sent.
func (c Config) OSCOutAddr() string {
	return net.JoinHostPort(c.OSC.OutHost, strconv.Itoa(c.OSC.OutPort))
}

// OSCInAddr is the local address OSC peers send commands to.
func (c Config) OSCInAddr() string {
	return net.JoinHostPort(c.OSC.InHost, strconv.Itoa(c.OSC.InPort))
}

// ApplyLogging pushes the configured levels into the logging package.
func (c Config) ApplyLogging() error {
	if c.Logging.Level != "" {
		lvl, err := logging.ParseLevel(c.Logging.Level)
		if err != nil {
			return err
		}
		logging.SetAllLevels(lvl)
	}
	for name, raw := range c.Logging.Levels {
		cat, err := logging.ParseCategory(name)
		if err != nil {
			return err
		}
		lvl, err := logging.ParseLevel(raw)
		if err != nil {
			return err
		}
		logging.SetCategoryLevel(cat, lvl)
	}
	return nil
}
