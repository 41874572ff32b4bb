package discovery

import (
	"net"
	"testing"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
)

func TestEntryToCollector(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "devbox.local.",
		Port:     9300,
		Text:     []string{"tls=1", "v=1"},
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.10")},
		AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
	}
	entry.Instance = "justlog-devbox"

	c := entryToCollector(entry)
	assert.Equal(t, "justlog-devbox", c.Instance)
	assert.Equal(t, "devbox.local.", c.Host)
	assert.Equal(t, 9300, c.Port)
	assert.True(t, c.TLS)
	assert.Equal(t, []string{"192.168.1.10", "fe80::1"}, c.Addresses)
	assert.Equal(t, "192.168.1.10:9300", c.AddrString())
}

func TestTxtBool(t *testing.T) {
	assert.True(t, txtBool([]string{"tls=1"}, "tls"))
	assert.False(t, txtBool([]string{"tls=0"}, "tls"))
	assert.False(t, txtBool([]string{"v=1"}, "tls"))
	assert.False(t, txtBool(nil, "tls"))
}

func TestMergeAddresses(t *testing.T) {
	existing := make([]string, 1, 4)
	existing[0] = "10.0.0.1"

	merged := mergeAddresses(existing, []string{"10.0.0.1", "10.0.0.2"})
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, merged)

	// The input slice and its spare capacity stay untouched.
	assert.Equal(t, []string{"10.0.0.1"}, existing)
	assert.NotSame(t, &existing[0], &merged[0])
}

func TestMergeCollectorLeavesEmittedValueUntouched(t *testing.T) {
	existing := &Collector{
		Instance:  "justlog-devbox",
		Host:      "devbox.local.",
		Port:      9300,
		Addresses: []string{"192.168.1.10"},
	}
	incoming := &Collector{
		Instance:  "justlog-devbox",
		Addresses: []string{"fe80::1"},
	}

	merged := mergeCollector(existing, incoming)
	assert.Equal(t, []string{"192.168.1.10", "fe80::1"}, merged.Addresses)
	assert.Equal(t, "devbox.local.", merged.Host)
	assert.Equal(t, 9300, merged.Port)

	// A consumer holding the original collector must not observe the merge.
	assert.Equal(t, []string{"192.168.1.10"}, existing.Addresses)
}

func TestAddrStringFallsBackToHostname(t *testing.T) {
	c := &Collector{Host: "devbox.local.", Port: 9300}
	assert.Equal(t, "devbox.local.:9300", c.AddrString())
}
