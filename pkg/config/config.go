package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/funcompany/justlog-go/pkg/record"
	"github.com/funcompany/justlog-go/pkg/shipper"
)

// ErrNoSinks is returned by Validate when the configuration enables
// no output at all.
var ErrNoSinks = errors.New("configuration enables no sinks")

// Network configures the collector endpoint. A nil Network section
// disables network shipping entirely.
type Network struct {
	// Host is the collector hostname. Required.
	Host string `yaml:"host"`

	// Port is the collector TCP port. Defaults to 9300.
	Port int `yaml:"port"`

	// Timeout bounds each connect and write. Defaults to 20s.
	Timeout time.Duration `yaml:"timeout"`

	// UseTLS wraps the connection in TLS. Defaults to true; set
	// use_tls: false explicitly for plaintext development collectors.
	UseTLS *bool `yaml:"use_tls"`

	// AllowUntrustedServer skips certificate verification.
	AllowUntrustedServer bool `yaml:"allow_untrusted_server"`

	// LogActivity enables verbose socket diagnostics.
	LogActivity bool `yaml:"log_activity"`

	// AuthToken travels as a payload field for hosted collectors.
	AuthToken string `yaml:"auth_token"`

	// FlushInterval is the automatic flush period. Defaults to 5s;
	// a negative value disables the timer.
	FlushInterval time.Duration `yaml:"flush_interval"`

	// BufferCapacity bounds the delivery buffer. Defaults to 1000;
	// a negative value removes the bound.
	BufferCapacity int `yaml:"buffer_capacity"`

	// OverflowPolicy is "drop-oldest" (default) or "reject-new".
	OverflowPolicy string `yaml:"overflow_policy"`
}

// Config is the YAML file surface.
type Config struct {
	// Level is the minimum severity that gets logged. Defaults to
	// "verbose".
	Level string `yaml:"level"`

	// Console enables the stdout sink.
	Console bool `yaml:"console"`

	// File is the binary capture file path. Empty disables the sink.
	File string `yaml:"file"`

	// Network configures the collector endpoint. Nil disables it.
	Network *Network `yaml:"network"`

	// Fields are attached to every record.
	Fields map[string]any `yaml:"fields"`

	// App, Platform and Device populate the record metadata.
	App      string `yaml:"app_version"`
	Platform string `yaml:"platform_version"`
	Device   string `yaml:"device_type"`
}

// Default returns a configuration that logs to the console only.
func Default() Config {
	return Config{
		Level:   record.LevelVerbose.String(),
		Console: true,
	}
}

// Load reads and validates a YAML configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	conf := Default()
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// Validate checks the configuration for inconsistencies.
func (c Config) Validate() error {
	if !c.Console && c.File == "" && c.Network == nil {
		return ErrNoSinks
	}
	if c.Level != "" {
		if _, err := record.ParseLevel(c.Level); err != nil {
			return err
		}
	}
	if n := c.Network; n != nil {
		if n.Host == "" {
			return errors.New("network.host is required")
		}
		if n.Port < 0 || n.Port > 65535 {
			return fmt.Errorf("network.port %d out of range", n.Port)
		}
		if _, err := parseOverflowPolicy(n.OverflowPolicy); err != nil {
			return err
		}
	}
	return nil
}

// minLevel returns the parsed level floor.
func (c Config) minLevel() record.Level {
	if c.Level == "" {
		return record.LevelVerbose
	}
	lvl, err := record.ParseLevel(c.Level)
	if err != nil {
		return record.LevelVerbose
	}
	return lvl
}

// shipperConfig maps the network section onto a shipper configuration.
func (n *Network) shipperConfig() shipper.Config {
	conf := shipper.DefaultConfig()
	conf.Host = n.Host
	if n.Port != 0 {
		conf.Port = n.Port
	}
	if n.Timeout != 0 {
		conf.Timeout = n.Timeout
	}
	if n.UseTLS != nil {
		conf.UseTLS = *n.UseTLS
	}
	conf.AllowUntrustedServer = n.AllowUntrustedServer
	conf.LogActivity = n.LogActivity
	if n.FlushInterval != 0 {
		conf.FlushInterval = n.FlushInterval
	}
	if n.BufferCapacity != 0 {
		conf.BufferCapacity = n.BufferCapacity
	}
	if policy, err := parseOverflowPolicy(n.OverflowPolicy); err == nil {
		conf.OverflowPolicy = policy
	}
	return conf
}

func parseOverflowPolicy(s string) (shipper.OverflowPolicy, error) {
	switch s {
	case "", "drop-oldest":
		return shipper.DropOldest, nil
	case "reject-new":
		return shipper.RejectNew, nil
	default:
		return 0, fmt.Errorf("unknown overflow policy %q", s)
	}
}
