// Command justlog-collect is a development log collector. It listens
// for shipper connections, reads newline-delimited JSON records and
// pretty-prints them to stdout. It can announce itself on the local
// network via mDNS so clients find it without configuration.
//
// Usage:
//
//	justlog-collect [flags]
//
// Examples:
//
//	# Plaintext collector on the default port
//	justlog-collect
//
//	# TLS collector with an existing certificate
//	justlog-collect -cert server.pem -key server-key.pem
//
//	# Advertise on the local network
//	justlog-collect -advertise -instance justlog-devbox
package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/funcompany/justlog-go/pkg/discovery"
	"github.com/funcompany/justlog-go/pkg/shipper"
)

func main() {
	addr := flag.String("addr", fmt.Sprintf(":%d", shipper.DefaultPort), "Listen address")
	certFile := flag.String("cert", "", "TLS certificate file (enables TLS together with -key)")
	keyFile := flag.String("key", "", "TLS private key file")
	advertise := flag.Bool("advertise", false, "Advertise the collector via mDNS")
	instance := flag.String("instance", "justlog-collect", "mDNS instance name")
	quiet := flag.Bool("quiet", false, "Count records without printing them")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var tlsConf *tls.Config
	if *certFile != "" || *keyFile != "" {
		if *certFile == "" || *keyFile == "" {
			logger.Error("both -cert and -key are required for TLS")
			os.Exit(1)
		}
		cert, err := tls.LoadX509KeyPair(*certFile, *keyFile)
		if err != nil {
			logger.Error("failed to load certificate", "error", err)
			os.Exit(1)
		}
		tlsConf = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	server := NewServer(ServerConfig{
		Address:   *addr,
		TLSConfig: tlsConf,
		Logger:    logger,
		OnRecord: func(connID string, line []byte) {
			if !*quiet {
				fmt.Println(formatRecord(line))
			}
		},
	})

	if err := server.Start(); err != nil {
		logger.Error("failed to start collector", "error", err)
		os.Exit(1)
	}

	var adv *discovery.Advertiser
	if *advertise {
		port := listenPort(server.Addr())
		adv = &discovery.Advertiser{}
		if err := adv.Advertise(*instance, port, tlsConf != nil); err != nil {
			logger.Error("failed to advertise", "error", err)
			server.Stop()
			os.Exit(1)
		}
		logger.Info("advertising", "instance", *instance, "port", port)
	}

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	<-sigC

	if adv != nil {
		adv.Shutdown()
	}
	server.Stop()
	logger.Info("collector stopped", "received", server.Received())
}

func listenPort(addr net.Addr) int {
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return shipper.DefaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return shipper.DefaultPort
	}
	return port
}
