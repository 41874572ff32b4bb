package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

const (
	// ServiceType is the mDNS service type for log collectors.
	ServiceType = "_justlog._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultTTL is the DNS record TTL for advertisements.
	DefaultTTL = 120 * time.Second
)

// TXT record keys.
const (
	txtKeyTLS     = "tls"
	txtKeyVersion = "v"
)

// Collector describes a discovered log collector.
type Collector struct {
	// Instance is the advertised instance name.
	Instance string

	// Host is the collector's mDNS hostname.
	Host string

	// Addresses holds the collector's IP addresses as strings.
	Addresses []string

	// Port is the collector's TCP port.
	Port int

	// TLS reports whether the collector expects a TLS connection.
	TLS bool
}

// Advertiser announces a collector on the local network.
type Advertiser struct {
	mu     sync.Mutex
	server *zeroconf.Server
}

// Advertise starts announcing the collector. tlsEnabled lands in the
// TXT record so browsers know how to connect. Call Shutdown to stop.
func (a *Advertiser) Advertise(instance string, port int, tlsEnabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	txt := []string{
		fmt.Sprintf("%s=%d", txtKeyTLS, boolTo01(tlsEnabled)),
		fmt.Sprintf("%s=1", txtKeyVersion),
	}

	server, err := zeroconf.Register(
		instance,
		ServiceType,
		Domain,
		port,
		txt,
		nil, // all interfaces
		zeroconf.TTL(uint32(DefaultTTL.Seconds())),
	)
	if err != nil {
		return fmt.Errorf("failed to register collector service: %w", err)
	}

	a.server = server
	return nil
}

// Shutdown stops the advertisement. Safe to call multiple times.
func (a *Advertiser) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// Browse searches for collectors until ctx is cancelled. A collector
// is emitted when first seen and again whenever a later announcement
// adds addresses; emitted values are never mutated afterwards.
func Browse(ctx context.Context) (<-chan *Collector, error) {
	out := make(chan *Collector)

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		defer close(out)

		seen := make(map[string]*Collector)

		for {
			select {
			case entry, ok := <-entries:
				if !ok {
					return
				}
				c := entryToCollector(entry)
				if existing, found := seen[c.Instance]; found {
					merged := mergeCollector(existing, c)
					if len(merged.Addresses) == len(existing.Addresses) {
						continue
					}
					c = merged
				}
				seen[c.Instance] = c
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}

			case entry, ok := <-removed:
				if !ok {
					continue
				}
				delete(seen, entry.Instance)

			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = zeroconf.Browse(ctx, ServiceType, Domain, entries, removed)
	}()

	return out, nil
}

func entryToCollector(entry *zeroconf.ServiceEntry) *Collector {
	addrs := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	for _, ip := range entry.AddrIPv6 {
		addrs = append(addrs, ip.String())
	}

	return &Collector{
		Instance:  entry.Instance,
		Host:      entry.HostName,
		Addresses: addrs,
		Port:      entry.Port,
		TLS:       txtBool(entry.Text, txtKeyTLS),
	}
}

// txtBool reads a key=1 style boolean from TXT strings.
func txtBool(txt []string, key string) bool {
	prefix := key + "="
	for _, s := range txt {
		if len(s) > len(prefix) && s[:len(prefix)] == prefix {
			return s[len(prefix):] == "1"
		}
	}
	return false
}

func boolTo01(b bool) int {
	if b {
		return 1
	}
	return 0
}

// mergeCollector folds incoming's addresses into a copy of existing.
// The existing collector is left untouched so values already handed to
// a consumer stay stable.
func mergeCollector(existing, incoming *Collector) *Collector {
	merged := *existing
	merged.Addresses = mergeAddresses(existing.Addresses, incoming.Addresses)
	return &merged
}

// mergeAddresses combines two address lists into a fresh slice
// without duplicates.
func mergeAddresses(existing, incoming []string) []string {
	have := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, a := range existing {
		have[a] = true
		out = append(out, a)
	}
	for _, a := range incoming {
		if !have[a] {
			out = append(out, a)
		}
	}
	return out
}

// AddrString joins the preferred address and port for dialing.
func (c *Collector) AddrString() string {
	host := c.Host
	if len(c.Addresses) > 0 {
		host = c.Addresses[0]
	}
	return net.JoinHostPort(host, fmt.Sprintf("%d", c.Port))
}
