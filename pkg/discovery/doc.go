// Package discovery advertises and finds log collectors on the local
// network via mDNS. It is a development convenience: a collector
// announces itself as a _justlog._tcp service and clients browse for
// it instead of hardcoding an address.
package discovery
