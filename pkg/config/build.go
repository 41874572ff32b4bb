package config

import (
	"fmt"
	"os"

	"github.com/funcompany/justlog-go/pkg/logger"
	"github.com/funcompany/justlog-go/pkg/record"
	"github.com/funcompany/justlog-go/pkg/shipper"
	"github.com/funcompany/justlog-go/pkg/sink"
)

// Build assembles a ready Logger from the configuration. The caller
// owns the returned logger and must Close it; closing also closes the
// file sink and the network shipper.
func (c Config) Build() (*logger.Logger, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var sinks []sink.Sink
	if c.Console {
		sinks = append(sinks, sink.NewConsoleSink(os.Stdout))
	}
	if c.File != "" {
		fs, err := sink.NewFileSink(c.File)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		sinks = append(sinks, fs)
	}

	opts := logger.Options{
		Sinks:    sinks,
		Fields:   c.Fields,
		MinLevel: c.minLevel(),
	}
	if c.App != "" || c.Platform != "" || c.Device != "" {
		opts.Metadata = record.StaticMetadata{
			App:      c.App,
			Platform: c.Platform,
			Device:   c.Device,
		}
	}

	if c.Network != nil {
		ship, err := shipper.New(c.Network.shipperConfig())
		if err != nil {
			closeSinks(sinks)
			return nil, fmt.Errorf("starting shipper: %w", err)
		}
		opts.Sinks = append(opts.Sinks, ship)
		opts.AuthToken = c.Network.AuthToken
	}

	return logger.New(opts), nil
}

func closeSinks(sinks []sink.Sink) {
	for _, s := range sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			c.Close()
		}
	}
}
