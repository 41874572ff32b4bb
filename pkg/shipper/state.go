package shipper

// ConnState represents the shipper connection state.
// Transitions are driven by socket events and explicit cancel or
// shutdown calls; the state is owned by the shipper's own goroutine.
type ConnState uint32

const (
	// StateDisconnected indicates no active connection.
	StateDisconnected ConnState = iota

	// StateConnecting indicates a connection attempt is in progress.
	StateConnecting

	// StateConnected indicates an active connection.
	StateConnected

	// StateClosing indicates the shipper is shutting down.
	StateClosing
)

// String returns a human-readable state name.
func (s ConnState) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}
