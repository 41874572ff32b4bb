// Package sink defines log destinations.
//
// A Sink accepts encoded records. Console and file sinks are
// synchronous; the network shipper (pkg/shipper) is the asynchronous
// implementation, queueing records for delivery over TCP.
//
// Sinks are held by the logger facade in an ordered collection and
// receive every record independently: a failed sink never affects the
// others.
package sink
