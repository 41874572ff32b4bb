// Command justlog-demo is an interactive playground for the logging
// stack. It builds a logger from a YAML config file (or flags) and
// drives it from a readline prompt: log at any level, attach fields
// and errors, force a network send, cancel one, and watch the shipper
// state.
//
// Usage:
//
//	justlog-demo [flags]
//
// Examples:
//
//	# Console-only playground
//	justlog-demo
//
//	# Ship to a local plaintext collector
//	justlog-demo -host 127.0.0.1 -no-tls
//
//	# Full configuration from a file
//	justlog-demo -config justlog.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/funcompany/justlog-go/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	host := flag.String("host", "", "Collector host (enables the network sink)")
	port := flag.Int("port", 0, "Collector port")
	noTLS := flag.Bool("no-tls", false, "Connect without TLS")
	filePath := flag.String("file", "", "Binary capture file path")
	flag.Parse()

	conf := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		conf = loaded
	}
	if *host != "" {
		if conf.Network == nil {
			conf.Network = &config.Network{}
		}
		conf.Network.Host = *host
	}
	if conf.Network != nil {
		if *port != 0 {
			conf.Network.Port = *port
		}
		if *noTLS {
			useTLS := false
			conf.Network.UseTLS = &useTLS
		}
	}
	if *filePath != "" {
		conf.File = *filePath
	}

	log, err := conf.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	repl, err := newREPL(log, conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	repl.Run()

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing logger: %v\n", err)
		os.Exit(1)
	}
}
